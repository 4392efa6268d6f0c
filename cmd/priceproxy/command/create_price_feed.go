package command

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
)

var createPriceFeedCmd = &cobra.Command{
	Use:   "create-price-feed",
	Short: "Create a price feed account",
	Args:  cobra.NoArgs,
	RunE:  runCreatePriceFeed,
}

func init() {
	flags := createPriceFeedCmd.Flags()
	flags.String("feed-type", "", "feed type (Direct, Transform)")
	flags.String("symbol", "", "symbol name")
	flags.String("quote-symbol", "USD", "quote symbol name")
	flags.String("verification-level", "Full", "wormhole verification level, Pyth source only (Full, Partial)")
	flags.String("logo-url", "", "logo url")
	flags.String("source", "", "asset price source (OffChain, Pyth, Switchboard, SuperLendy, StakePool)")
	flags.String("transform-source", "", "price source of the transform leg, Transform feed type only")
	flags.String("source-address", "", "source account: Pyth feed id, Switchboard aggregator, SuperLendy reserve, stake pool, or the authority for OffChain")
	flags.String("transform-source-address", "", "source account of the transform leg, Transform feed type only")

	_ = createPriceFeedCmd.MarkFlagRequired("feed-type")
	_ = createPriceFeedCmd.MarkFlagRequired("symbol")
	_ = createPriceFeedCmd.MarkFlagRequired("source")
	_ = createPriceFeedCmd.MarkFlagRequired("source-address")

	rootCmd.AddCommand(createPriceFeedCmd)
}

func runCreatePriceFeed(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	feedType, err := priceproxy.FeedTypeFromString(mustGetString(flags, "feed-type"))
	if err != nil {
		return err
	}
	quoteSymbol, err := priceproxy.QuoteSymbolFromString(mustGetString(flags, "quote-symbol"))
	if err != nil {
		return err
	}
	verificationLevel, err := priceproxy.WormholeVerificationLevelFromString(mustGetString(flags, "verification-level"))
	if err != nil {
		return err
	}
	source, err := priceproxy.PriceFeedSourceFromString(mustGetString(flags, "source"))
	if err != nil {
		return err
	}

	sourceAddress, err := parseKeyArg(mustGetString(flags, "source-address"))
	if err != nil {
		return err
	}

	// The transform leg falls back to the direct source when unset, but a
	// Transform feed has to pin both legs explicitly.
	transformSource := source
	transformSourceAddress := sourceAddress
	if value := mustGetString(flags, "transform-source"); value != "" {
		if transformSource, err = priceproxy.PriceFeedSourceFromString(value); err != nil {
			return err
		}
	} else if feedType == priceproxy.FeedTypeTransform {
		return errors.New("--transform-source is required for Transform feeds")
	}
	if value := mustGetString(flags, "transform-source-address"); value != "" {
		if transformSourceAddress, err = parseKeyArg(value); err != nil {
			return err
		}
	} else if feedType == priceproxy.FeedTypeTransform {
		return errors.New("--transform-source-address is required for Transform feeds")
	}

	params, err := priceproxy.NewPriceFeedParams(
		feedType,
		mustGetString(flags, "symbol"),
		quoteSymbol,
		verificationLevel,
		mustGetString(flags, "logo-url"),
		source,
		transformSource,
	)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	view, err := app.CreatePriceFeed(params, sourceAddress, transformSourceAddress)
	if err != nil {
		return err
	}

	fmt.Println(view)
	return nil
}
