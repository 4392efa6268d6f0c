package command

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var forcePriceTimestampCmd = &cobra.Command{
	Use:   "force-price-timestamp",
	Short: "Refresh the update timestamp of off-chain price feeds",
	Args:  cobra.NoArgs,
	RunE:  runForcePriceTimestamp,
}

func init() {
	forcePriceTimestampCmd.Flags().StringArray("key", nil, "price feed account key, can be repeated")
	forcePriceTimestampCmd.Flags().Duration("period", 0, "refresh continuously with this period")
	_ = forcePriceTimestampCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(forcePriceTimestampCmd)
}

func runForcePriceTimestamp(cmd *cobra.Command, args []string) error {
	rawKeys, err := cmd.Flags().GetStringArray("key")
	if err != nil {
		return err
	}
	keys, err := parseKeyArgs(rawKeys)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return errors.New("at least one --key is required")
	}

	period, err := cmd.Flags().GetDuration("period")
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	if period <= 0 {
		for _, view := range app.ForcePriceFeedTimestamps(keys) {
			fmt.Println(view)
		}
		return nil
	}

	log := logrus.StandardLogger().WithField("type", "priceproxy/cli")
	for {
		for _, view := range app.ForcePriceFeedTimestamps(keys) {
			entry := log.WithField("price_feed", view.PriceFeed)
			if view.Error != "" {
				entry.WithField("error", view.Error).Warn("failed to update price feed timestamp")
				continue
			}
			entry.WithField("signature", view.Signature).Info("price feed timestamp updated")
		}

		time.Sleep(period)
	}
}
