// Package command implements the priceproxy CLI.
package command

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/texture-fi/price-proxy/pkg/priceproxy/client"
	"github.com/texture-fi/price-proxy/pkg/solana"
)

var rootCmd = &cobra.Command{
	Use:           "priceproxy",
	Short:         "Manage price-proxy feeds on Solana",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8899", "URL of the Solana RPC interface")
	rootCmd.PersistentFlags().String("commitment", "confirmed", "commitment level (processed, confirmed, finalized)")
	rootCmd.PersistentFlags().StringP("authority", "k", defaultKeypairPath(), "keypair to sign instructions with")
	rootCmd.PersistentFlags().Uint64("priority-fee", 0, "priority fee in micro lamports per compute unit")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	_ = viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindEnv("url", "SOLANA_RPC")
	_ = viper.BindPFlag("commitment", rootCmd.PersistentFlags().Lookup("commitment"))
	_ = viper.BindPFlag("authority", rootCmd.PersistentFlags().Lookup("authority"))
	_ = viper.BindPFlag("priority_fee", rootCmd.PersistentFlags().Lookup("priority-fee"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		return err
	}
	return nil
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// loadKeypair reads a Solana CLI keypair file, a JSON array of the 64 private
// key bytes.
func loadKeypair(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keypair file")
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "invalid keypair file")
	}
	if len(values) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid keypair size: %d", len(values))
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("invalid keypair byte at index %d", i)
		}
		key[i] = byte(v)
	}

	return key, nil
}

func parseCommitment(value string) (solana.Commitment, error) {
	switch value {
	case "processed":
		return solana.CommitmentProcessed, nil
	case "confirmed":
		return solana.CommitmentConfirmed, nil
	case "finalized":
		return solana.CommitmentFinalized, nil
	default:
		return solana.Commitment{}, errors.Errorf("unknown commitment '%s'", value)
	}
}

func newApp(extraOpts ...client.Option) (*client.Client, error) {
	authority, err := loadKeypair(viper.GetString("authority"))
	if err != nil {
		return nil, err
	}

	commitment, err := parseCommitment(viper.GetString("commitment"))
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithCommitment(commitment)}
	if fee := viper.GetUint64("priority_fee"); fee > 0 {
		opts = append(opts, client.WithPriorityFee(fee))
	}
	opts = append(opts, extraOpts...)

	return client.New(solana.New(viper.GetString("url")), authority, opts...), nil
}

func parseKeyArg(value string) (ed25519.PublicKey, error) {
	key, err := solana.PublicKeyFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid account key '%s'", value)
	}
	return key, nil
}

func parseKeyArgs(values []string) ([]ed25519.PublicKey, error) {
	keys := make([]ed25519.PublicKey, 0, len(values))
	for _, value := range values {
		key, err := parseKeyArg(value)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func encodeKey(key [32]byte) string {
	return base58.Encode(key[:])
}

func mustGetString(flags *pflag.FlagSet, name string) string {
	value, err := flags.GetString(name)
	if err != nil {
		panic(err)
	}
	return value
}
