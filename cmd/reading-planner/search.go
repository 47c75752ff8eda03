// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/internal/search"
	"github.com/pdiddy/reading-planner/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <topic>",
	Short: "Search for papers and rank them by relevance",
	Long: `Search sends the topic and keywords to the configured source (Semantic
Scholar by default, or OpenAlex), then ranks the returned papers by cosine
similarity between each title and the research intent (the topic weighted
twice, followed by up to five keywords).`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("keywords", "", "comma-separated keywords (first five used)")
	searchCmd.Flags().Int("limit", 0, "candidates to fetch, 1-50 (default 25)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kw, _ := cmd.Flags().GetString("keywords")
	asJSON, _ := cmd.Flags().GetBool("json")

	resp, err := rankedSearch(cmd, types.SearchRequest{
		Topic:    strings.Join(args, " "),
		Keywords: splitKeywords(kw),
		Limit:    limitFlag(cmd),
	})
	if err != nil {
		return err
	}

	if asJSON {
		return search.FormatJSON(resp, os.Stdout)
	}
	search.FormatTable(resp, os.Stdout)
	return nil
}

// rankedSearch loads the embedder, runs one ranked search, and releases
// the model.
func rankedSearch(cmd *cobra.Command, req types.SearchRequest) (types.SearchResponse, error) {
	ctx := cmd.Context()
	emb, err := newEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return types.SearchResponse{}, err
	}
	defer emb.Shutdown()

	svc, err := newService(cfg, emb)
	if err != nil {
		return types.SearchResponse{}, err
	}
	progress := logger.Writer()
	fmt.Fprintf(progress, "Searching %s for %q...\n", sourceName(cfg.Search.Source), strings.TrimSpace(req.Topic))
	resp, err := svc.Search(ctx, req)
	if err != nil {
		return types.SearchResponse{}, err
	}
	fmt.Fprintf(progress, "Ranked %d papers.\n", len(resp.Results))
	return resp, nil
}

func sourceName(s string) string {
	if s == search.SourceOpenAlex {
		return "OpenAlex"
	}
	return "Semantic Scholar"
}
