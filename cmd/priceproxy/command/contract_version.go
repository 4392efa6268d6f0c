package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contractVersionCmd = &cobra.Command{
	Use:   "contract-version",
	Short: "Query the deployed contract version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		// The version instruction always fails after logging the version, so
		// the interesting output is in the simulation logs of the error.
		err = app.ContractVersion()
		fmt.Printf("contract version reported in the program logs: %v\n", err)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contractVersionCmd)
}
