package cli

import (
	"github.com/spf13/cobra"

	"github.com/oregondata/orschooldata/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enrollment API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(configPath)
		if err != nil {
			return err
		}
		return srv.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
