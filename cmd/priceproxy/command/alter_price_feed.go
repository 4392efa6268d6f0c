package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/texture-fi/price-proxy/pkg/priceproxy"
	"github.com/texture-fi/price-proxy/pkg/priceproxy/client"
)

var alterPriceFeedCmd = &cobra.Command{
	Use:   "alter-price-feed <key>",
	Short: "Change the configuration of a price feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlterPriceFeed,
}

func init() {
	flags := alterPriceFeedCmd.Flags()
	flags.String("feed-type", "", "feed type (Direct, Transform)")
	flags.String("symbol", "", "symbol name")
	flags.String("quote-symbol", "", "quote symbol name")
	flags.String("verification-level", "", "wormhole verification level, Pyth source only (Full, Partial)")
	flags.String("logo-url", "", "logo url")
	flags.String("source", "", "asset price source (OffChain, Pyth, Switchboard, SuperLendy, StakePool)")
	flags.String("transform-source", "", "price source of the transform leg")
	flags.String("source-address", "", "source account address")
	flags.String("transform-source-address", "", "source account address of the transform leg")

	rootCmd.AddCommand(alterPriceFeedCmd)
}

func runAlterPriceFeed(cmd *cobra.Command, args []string) error {
	key, err := parseKeyArg(args[0])
	if err != nil {
		return err
	}

	changes, err := priceFeedChanges(cmd.Flags())
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	view, err := app.AlterPriceFeed(key, changes)
	if err != nil {
		return err
	}

	fmt.Println(view)
	fmt.Printf("Altered price feed: %s\n", args[0])
	return nil
}

// priceFeedChanges maps the optional flags onto overrides, leaving unset
// flags nil so the current values survive.
func priceFeedChanges(flags *pflag.FlagSet) (client.PriceFeedChanges, error) {
	var changes client.PriceFeedChanges

	if value := mustGetString(flags, "feed-type"); value != "" {
		feedType, err := priceproxy.FeedTypeFromString(value)
		if err != nil {
			return changes, err
		}
		changes.FeedType = &feedType
	}
	if flags.Changed("symbol") {
		symbol := mustGetString(flags, "symbol")
		changes.Symbol = &symbol
	}
	if value := mustGetString(flags, "quote-symbol"); value != "" {
		quoteSymbol, err := priceproxy.QuoteSymbolFromString(value)
		if err != nil {
			return changes, err
		}
		changes.QuoteSymbol = &quoteSymbol
	}
	if value := mustGetString(flags, "verification-level"); value != "" {
		level, err := priceproxy.WormholeVerificationLevelFromString(value)
		if err != nil {
			return changes, err
		}
		changes.VerificationLevel = &level
	}
	if flags.Changed("logo-url") {
		logoURL := mustGetString(flags, "logo-url")
		changes.LogoURL = &logoURL
	}
	if value := mustGetString(flags, "source"); value != "" {
		source, err := priceproxy.PriceFeedSourceFromString(value)
		if err != nil {
			return changes, err
		}
		changes.Source = &source
	}
	if value := mustGetString(flags, "transform-source"); value != "" {
		source, err := priceproxy.PriceFeedSourceFromString(value)
		if err != nil {
			return changes, err
		}
		changes.TransformSource = &source
	}
	if value := mustGetString(flags, "source-address"); value != "" {
		address, err := parseKeyArg(value)
		if err != nil {
			return changes, err
		}
		changes.SourceAddress = address
	}
	if value := mustGetString(flags, "transform-source-address"); value != "" {
		address, err := parseKeyArg(value)
		if err != nil {
			return changes, err
		}
		changes.TransformSourceAddress = address
	}

	return changes, nil
}
