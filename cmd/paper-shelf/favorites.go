package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-shelf/internal/favorites"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List, toggle, and export favorited papers",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorited papers, most recently favorited first",
	RunE:  runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Favorite or unfavorite a paper by its arXiv ID",
	Long: `Toggle flips the favorite state of a paper. A paper already in the
favorites list is removed; anything else is looked up remotely and added.`,
	Args: cobra.ExactArgs(1),
	RunE: runFavoritesToggle,
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export favorites as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFavoritesExport,
}

func init() {
	favoritesListCmd.Flags().Bool("json", false, "output papers as JSON")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	favoritesCmd.AddCommand(favoritesExportCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	papers, err := a.ctrl.LoadFavorites()
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printPapers(cmd.OutOrStdout(), papers, asJSON)
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id := args[0]
	var paper types.Paper
	found := false
	for _, p := range a.ctrl.Favorites() {
		if p.ID == id {
			paper = p
			found = true
			break
		}
	}
	if !found {
		paper, err = newFetcher().FetchByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", id, err)
		}
	}

	updated, err := a.ctrl.ToggleFavorite(paper)
	var persistErr *favorites.PersistenceError
	if errors.As(err, &persistErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: favorite not persisted: %v\n", persistErr)
	} else if err != nil {
		return err
	}

	if updated.IsFavorite {
		fmt.Fprintf(cmd.OutOrStdout(), "favorited %s  %s\n", updated.ID, updated.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "unfavorited %s  %s\n", updated.ID, updated.Title)
	}
	return nil
}

func runFavoritesExport(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	papers, err := a.ctrl.LoadFavorites()
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}

	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	if len(args) == 1 {
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d favorites to %s\n", len(papers), args[0])
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
