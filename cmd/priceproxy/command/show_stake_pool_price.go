package command

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texture-fi/price-proxy/pkg/solana"
	"github.com/texture-fi/price-proxy/pkg/solana/stakepool"
)

var showStakePoolPriceCmd = &cobra.Command{
	Use:   "show-stake-pool-price <key> <symbol>",
	Short: "Watch the pool token price of an SPL stake pool",
	Args:  cobra.ExactArgs(2),
	RunE:  runShowStakePoolPrice,
}

func init() {
	rootCmd.AddCommand(showStakePoolPriceCmd)
}

func runShowStakePoolPrice(cmd *cobra.Command, args []string) error {
	key, err := parseKeyArg(args[0])
	if err != nil {
		return err
	}
	symbol := args[1]

	commitment, err := parseCommitment(viper.GetString("commitment"))
	if err != nil {
		return err
	}
	sol := solana.New(viper.GetString("url"))

	log := logrus.StandardLogger().WithField("type", "priceproxy/cli")
	for {
		info, err := sol.GetAccountInfo(key, commitment)
		if err != nil {
			log.WithError(err).Warn("failed to get stake pool account")
			time.Sleep(time.Second)
			continue
		}

		var pool stakepool.StakePool
		if err := pool.Unmarshal(info.Data); err != nil {
			return err
		}

		price, err := pool.TokenPrice()
		if err != nil {
			return err
		}

		log.Infof("%s price: %s", symbol, price)

		time.Sleep(5 * time.Second)
	}
}
