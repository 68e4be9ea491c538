// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-shelf CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-shelf/internal/cache"
	"github.com/pdiddy/paper-shelf/internal/config"
	"github.com/pdiddy/paper-shelf/internal/favorites"
	"github.com/pdiddy/paper-shelf/internal/fetch"
	"github.com/pdiddy/paper-shelf/internal/shelf"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-shelf CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-shelf",
	Short: "Browse, favorite, and cache scientific papers",
	Long: `paper-shelf browses recent papers from the arXiv API by category, keeps a
durable favorites list, and caches downloaded PDFs on disk.

Categories: latest, cs, math, physics, q-bio, q-fin, stat, eess, econ.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-shelf.yaml or ~/.config/paper-shelf/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "shelf", "directory for the favorites database and PDF cache")
	rootCmd.PersistentFlags().Bool("no-store", false, "skip the favorites database; favorites last for this run only")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-shelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-shelf"))
		}
	}

	viper.SetEnvPrefix("PAPER_SHELF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// app bundles the wired-up collaborators every subcommand works with.
type app struct {
	ctrl     *shelf.Controller
	settings *config.Store
	store    favorites.DurableStore
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp wires the settings store, favorites index, PDF cache, and
// fetch client into a controller. A favorites database that cannot be
// opened degrades to memory-only mode with a warning rather than failing
// the command.
func buildApp(cmd *cobra.Command) (*app, error) {
	settings := config.New(viper.GetViper())
	cfg := settings.Shelf()

	dataDir, _ := cmd.Flags().GetString("data-dir")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var store favorites.DurableStore
	if !noStore {
		s, err := favorites.OpenSQLite(dataDir)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: favorites database unavailable, running memory-only: %v\n", err)
		} else {
			store = s
		}
	}

	var pdfCache *cache.Cache
	if cfg.EnableCache {
		pdfCache = cache.New(filepath.Join(dataDir, "pdfs"))
	}

	sets := favorites.NewWorkingSets()
	index := favorites.NewIndex(store, sets)
	ctrl := shelf.New(newFetcher(), index, sets, pdfCache, settings)

	if store != nil {
		if _, err := ctrl.LoadFavorites(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: loading favorites: %v\n", err)
		}
	}

	return &app{ctrl: ctrl, settings: settings, store: store}, nil
}

// newFetcher builds the remote literature client.
func newFetcher() *fetch.Client {
	return fetch.NewClient(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "paper-shelf/" + version},
	})
}

// printPapers writes a readable listing, or JSON when asJSON is set.
func printPapers(w io.Writer, papers []types.Paper, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Fprintln(w, "no papers")
		return nil
	}
	for i, p := range papers {
		marker := " "
		if p.IsFavorite {
			marker = "*"
		}
		fmt.Fprintf(w, "%2d %s %s  %s\n", i+1, marker, p.ID, p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(w, "     %s\n", strings.Join(p.Authors, ", "))
		}
		if !p.Published.IsZero() {
			fmt.Fprintf(w, "     %s  [%s]\n", p.Published.Format("2006-01-02"), strings.Join(p.Categories, " "))
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
