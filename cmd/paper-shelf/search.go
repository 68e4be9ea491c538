package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the remote API for papers",
	Long: `Search runs a free-text query against the arXiv API, optionally
restricted to one category, and lists the results. Already-favorited
papers are marked with *.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("category", "", "restrict results to one category")
	searchCmd.Flags().Bool("relevance", false, "sort by relevance instead of submission date")
	searchCmd.Flags().Bool("json", false, "output papers as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	filter, _ := cmd.Flags().GetString("category")
	byRelevance, _ := cmd.Flags().GetBool("relevance")

	papers, err := a.ctrl.SearchPapers(cmd.Context(), strings.Join(args, " "), types.Category(filter), byRelevance)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printPapers(cmd.OutOrStdout(), papers, asJSON)
}
