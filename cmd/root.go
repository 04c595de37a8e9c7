/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "assetpipe",
	Short: "Builds, vendors and previews front-end component packages.",
	Long: `Assetpipe compiles and minifies the styles and scripts of a front-end
component, builds its demo site and vendors every node_modules file the demo
references into the site so it can be published on its own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logger.SetNoColor(noColor)
		logger.SetErrorWriter()
		if logfile != "" {
			f, err := os.OpenFile(logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logger.AddWriterForAll(f)
		}
		return nil
	},
}

var (
	configPath string
	logfile    string
	verbose    bool
	noColor    bool
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given, assetpipe.yaml in the working
// directory otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}
