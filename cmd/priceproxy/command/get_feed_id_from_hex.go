package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texture-fi/price-proxy/pkg/solana/pyth"
)

var getFeedIDFromHexCmd = &cobra.Command{
	Use:   "get-feed-id-from-hex",
	Short: "Convert a hex Pyth feed id into an account address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feedID, err := pyth.GetFeedIDFromHex(mustGetString(cmd.Flags(), "hex"))
		if err != nil {
			return err
		}

		fmt.Println(encodeKey(feedID))
		return nil
	},
}

func init() {
	getFeedIDFromHexCmd.Flags().String("hex", "", "price feed id in hex, see https://pyth.network/developers/price-feed-ids")
	_ = getFeedIDFromHexCmd.MarkFlagRequired("hex")

	rootCmd.AddCommand(getFeedIDFromHexCmd)
}
