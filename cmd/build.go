/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/logger"
)

var (
	buildStyles  bool
	buildScripts bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compiles and minifies the styles and scripts",
	Long: `Compiles the styles and scripts into the dist directory, writes a minified
copy of each next to it and publishes the minified files into the demo assets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("build called")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// no selection means everything
		if !buildStyles && !buildScripts {
			buildStyles, buildScripts = true, true
		}
		return buildBundles(cmd.Context(), cfg, targets(cfg, buildStyles, buildScripts))
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildStyles, "styles", false, "Only build the styles")
	buildCmd.Flags().BoolVar(&buildScripts, "scripts", false, "Only build the scripts")
	rootCmd.AddCommand(buildCmd)
}
