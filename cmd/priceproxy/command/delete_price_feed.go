package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deletePriceFeedCmd = &cobra.Command{
	Use:   "delete-price-feed <key>",
	Short: "Delete a price feed, refunding its balance to the authority",
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

		view, err := app.DeletePriceFeed(key)
		if err != nil {
			return err
		}

		fmt.Println(view)
		fmt.Printf("Deleted price feed: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deletePriceFeedCmd)
}
