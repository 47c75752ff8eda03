// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reading-planner/internal/plan"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// timeNow is the plan start clock.
var timeNow = time.Now

var planCmd = &cobra.Command{
	Use:   "plan [topic]",
	Short: "Build a four-week reading plan",
	Long: `Plan runs a ranked search for the topic and deals the top papers into four
weekly buckets, starting today. With --results, the plan is built from a
saved search response (YAML or JSON, as printed by "search --json") and no
search is made.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("keywords", "", "comma-separated keywords (first five used)")
	planCmd.Flags().Int("limit", 0, "candidates to fetch, 1-50 (default 25)")
	planCmd.Flags().Int("target", 0, "papers in the plan, 1-15 (default 12)")
	planCmd.Flags().String("results", "", "build the plan from a saved search response")
	planCmd.Flags().String("format", plan.FormatMarkdown, "output format: markdown, json, yaml")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	kw, _ := cmd.Flags().GetString("keywords")
	target, _ := cmd.Flags().GetInt("target")
	resultsPath, _ := cmd.Flags().GetString("results")
	format, _ := cmd.Flags().GetString("format")

	var resp types.SearchResponse
	switch {
	case resultsPath != "":
		if err := readYAMLFile(resultsPath, &resp); err != nil {
			return err
		}
	case len(args) > 0 || kw != "":
		r, err := rankedSearch(cmd, types.SearchRequest{
			Topic:    strings.Join(args, " "),
			Keywords: splitKeywords(kw),
			Limit:    limitFlag(cmd),
		})
		if err != nil {
			return err
		}
		resp = r
	default:
		return fmt.Errorf("provide a topic, --keywords, or --results")
	}

	if !cmd.Flags().Changed("target") {
		target = cfg.Plan.TargetCount
	}
	return plan.Render(plan.Build(resp.Results, target, timeNow()), format, os.Stdout)
}
