package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-shelf/internal/config"
	"github.com/pdiddy/paper-shelf/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API",
	Long: `Serve runs the local HTTP API a UI binds to: category and search loads,
favorite toggles, cache inspection, and settings. When auto-refresh is
enabled the default category is reloaded in the background at the
configured interval.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8576", "listen address")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.settings.Shelf().AutoRefresh {
		a.ctrl.StartAutoRefresh(cmd.Context(), cmd.ErrOrStderr())
		defer a.ctrl.StopAutoRefresh()
	}

	// Settings changes take effect immediately: flipping auto_refresh or
	// its interval rearms the timer.
	a.settings.OnChange(func(ch config.Change) {
		switch ch.Key {
		case config.KeyAutoRefresh, config.KeyRefreshInterval:
			a.ctrl.StopAutoRefresh()
			if a.settings.Shelf().AutoRefresh {
				a.ctrl.StartAutoRefresh(cmd.Context(), cmd.ErrOrStderr())
			}
		}
	})

	addr, _ := cmd.Flags().GetString("addr")
	fmt.Fprintf(cmd.ErrOrStderr(), "listening on http://%s\n", addr)
	return http.ListenAndServe(addr, server.New(a.ctrl, a.settings))
}
