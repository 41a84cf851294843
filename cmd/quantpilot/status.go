package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, workflow counts and quant service health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, hist, err := openStores()
		if err != nil {
			return err
		}
		defer hist.Close()
		return printStatus(cmd.OutOrStdout(), hist, quantClient())
	},
}
