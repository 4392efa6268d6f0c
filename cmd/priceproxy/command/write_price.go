package command

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var writePriceCmd = &cobra.Command{
	Use:   "write-price <key> <price>",
	Short: "Write the current price into an off-chain price feed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyArg(args[0])
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid price '%s'", args[1])
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		view, err := app.WritePrice(key, price, time.Now().Unix())
		if err != nil {
			return err
		}

		fmt.Println(view)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writePriceCmd)
}
