package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"toornament-stats/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranking as JSON and accept refresh webhooks until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, _, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)

	return web.Start(cmd.Context(), web.Config{
		Addr:         serveAddr,
		API:          a,
		RefreshToken: os.Getenv("REFRESH_TOKEN"),
	})
}
