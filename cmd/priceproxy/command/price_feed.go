package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var priceFeedCmd = &cobra.Command{
	Use:   "price-feed <key>",
	Short: "Print a price feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		view, err := app.PriceFeed(key)
		if err != nil {
			return err
		}

		fmt.Println(view)
		return nil
	},
}

var priceFeedsCmd = &cobra.Command{
	Use:   "price-feeds",
	Short: "Print all price feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		view, err := app.PriceFeeds()
		if err != nil {
			return err
		}

		fmt.Println(view)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(priceFeedCmd)
	rootCmd.AddCommand(priceFeedsCmd)
}
