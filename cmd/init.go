/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/config"
	"github.com/tristendillon/assetpipe/core/logger"
	"github.com/tristendillon/assetpipe/core/template_engine"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Initialize a new Assetpipe project",
	Long:  `Creates the config file and a skeleton of styles, scripts and demo site for a new component.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := args[0]
		if _, err := os.Stat(dir); err == nil {
			if !force {
				return fmt.Errorf("directory %s already exists, use --force to overwrite", dir)
			}
			logger.Debug("Directory %s already exists. Overwriting.", dir)
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove %s: %w", dir, err)
			}
		}

		name := filepath.Base(filepath.Clean(dir))
		engine := template_engine.NewTemplateEngine()
		if _, err := engine.GenerateFolder(template_engine.InitTemplate, dir, template_engine.NewScaffoldData(name)); err != nil {
			return fmt.Errorf("failed to generate project: %w", err)
		}

		cfg := config.Default()
		cfg.Name = name
		if err := cfg.Save(filepath.Join(dir, config.FileName)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Successfully generated project: %s\n", dir)
		fmt.Fprintf(out, "Next Steps:\n")
		fmt.Fprintf(out, "  - cd %s\n", dir)
		fmt.Fprintf(out, "  - assetpipe watch --serve\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
