package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Load and list recent papers for a category",
	Long: `Browse fetches the most recent papers for a category from the arXiv API
and lists them. With no argument the configured default category is used.
Already-favorited papers are marked with *.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Bool("json", false, "output papers as JSON")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cat := a.settings.Shelf().DefaultCategory
	if len(args) == 1 {
		cat = types.Category(args[0])
	}
	if _, ok := cat.Query(); !ok {
		return fmt.Errorf("unknown category %q (try: latest, cs, math, physics, q-bio, q-fin, stat, eess, econ)", cat)
	}

	papers, err := a.ctrl.LoadCategory(cmd.Context(), cat)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cat, err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printPapers(cmd.OutOrStdout(), papers, asJSON)
}
