// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reading-planner/internal/rank"
	"github.com/pdiddy/reading-planner/internal/search"
	"github.com/pdiddy/reading-planner/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank <topic> --file papers.yaml",
	Short: "Rank a local list of papers without searching",
	Long: `Rank reads candidate papers from a YAML or JSON file and orders them by
similarity to the research intent. The file holds either a list of papers
or a listing object with a "papers" field, as written by
"GET /papers/search". No search API call is made.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("file", "", "YAML or JSON file of candidate papers (required)")
	rankCmd.Flags().String("keywords", "", "comma-separated keywords (first five used)")
	rankCmd.Flags().Bool("json", false, "output results as JSON")
	rankCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	kw, _ := cmd.Flags().GetString("keywords")
	asJSON, _ := cmd.Flags().GetBool("json")

	topic := strings.Join(args, " ")
	keywords := splitKeywords(kw)
	if strings.TrimSpace(topic) == "" && len(rank.CleanKeywords(keywords)) == 0 {
		return fmt.Errorf("provide a topic or --keywords")
	}

	papers, err := readPapers(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	emb, err := newEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return err
	}
	defer emb.Shutdown()

	results, err := rank.New(emb).Rank(ctx, topic, keywords, papers)
	if err != nil {
		return err
	}
	resp := types.SearchResponse{Query: rank.BuildIntent(topic, keywords), Results: results}

	if asJSON {
		return search.FormatJSON(resp, os.Stdout)
	}
	search.FormatTable(resp, os.Stdout)
	return nil
}

// readPapers accepts a bare list of papers or a listing with a papers field.
func readPapers(path string) ([]types.Paper, error) {
	var list []types.Paper
	if err := readYAMLFile(path, &list); err == nil {
		return list, nil
	}
	var listing types.PaperListing
	if err := readYAMLFile(path, &listing); err != nil {
		return nil, err
	}
	return listing.Papers, nil
}
