package cmd

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes built bundles and the built demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cleanAll(cfg)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
