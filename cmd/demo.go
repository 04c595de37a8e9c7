package cmd

import (
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Builds the demo site and vendors its dependencies",
	Long: `Builds the demo site, then rewrites every node_modules reference in its
pages to a copy vendored inside the site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		inj, err := newInjector(cfg)
		if err != nil {
			return err
		}
		return buildDemo(cmd.Context(), cfg, inj)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
