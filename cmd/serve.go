package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tristendillon/assetpipe/core/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the built demo site",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		return server.NewServer(cfg).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default server.port)")
	rootCmd.AddCommand(serveCmd)
}
