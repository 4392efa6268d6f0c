package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texture-fi/price-proxy/pkg/priceproxy/client"
)

var updatePriceCmd = &cobra.Command{
	Use:   "update-price <key>",
	Short: "Refresh a price feed from its on-chain source, relaying a Pyth update when needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}
		maximumAgeSec, err := cmd.Flags().GetUint64("maximum-age-sec")
		if err != nil {
			return err
		}

		var opts []client.Option
		if url := mustGetString(cmd.Flags(), "pyth-api-url"); url != "" {
			opts = append(opts, client.WithHermesURL(url))
		}

		app, err := newApp(opts...)
		if err != nil {
			return err
		}

		views, err := app.HolisticUpdatePrice(key, maximumAgeSec)
		for _, view := range views {
			fmt.Println(view)
		}
		return err
	},
}

func init() {
	updatePriceCmd.Flags().Uint64("maximum-age-sec", 0, "maximum acceptable price age in seconds")
	updatePriceCmd.Flags().String("pyth-api-url", "", "override for the Pyth hermes API")
	_ = updatePriceCmd.MarkFlagRequired("maximum-age-sec")

	rootCmd.AddCommand(updatePriceCmd)
}
