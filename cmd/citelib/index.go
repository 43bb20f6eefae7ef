// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citelib/internal/index"
	"github.com/pdiddy/citelib/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the full-text search index from the library",
	Long: `Index parses the library export and rebuilds the SQLite FTS5 index
over titles, authors, and abstracts. Run it after re-exporting the
library; search reads from the index without touching the export.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := libraryConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := openLibrary(context.Background(), cfg)
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Rebuild(context.Background(), lib)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d entries\n", n)
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search the library index by title, author, or abstract",
	Long: `Search runs a full-text query against the SQLite index built by the
index command. Results are ranked by FTS5 relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	maxResults, _ := cmd.Flags().GetInt("max-results")
	results, err := store.Search(context.Background(), strings.Join(args, " "), maxResults)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for _, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-6d  %s\n", r.CiteKey, r.Year, title)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	path, _ := cmd.Flags().GetString("index")
	if path == "" {
		path = viper.GetString("index.path")
	}
	return types.IndexConfig{
		Path:       path,
		MaxResults: viper.GetInt("index.max_results"),
	}
}

func init() {
	indexCmd.Flags().String("index", "", "SQLite index file (default citelib.db)")

	searchCmd.Flags().String("index", "", "SQLite index file (default citelib.db)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default 20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
