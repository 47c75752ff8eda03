// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan partitions ranked papers into a four-week reading plan.
package plan

import (
	"time"

	"github.com/pdiddy/reading-planner/pkg/types"
)

const (
	// Weeks is the number of buckets in a plan.
	Weeks = 4

	// DefaultTargetCount is used when a request omits the target.
	DefaultTargetCount = 12

	// MaxTargetCount is the upper clamp on papers placed in a plan.
	MaxTargetCount = 15

	dateLayout = "2006-01-02"
)

// Tasks is the checklist attached to every week.
var Tasks = []string{
	"Skim & decide priority",
	"Deep read top 2",
	"Write 5-bullet summary per paper",
	"Review notes + questions",
}

// ClampTarget maps a requested paper count into [1, MaxTargetCount].
func ClampTarget(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxTargetCount:
		return MaxTargetCount
	}
	return n
}

// Build takes the first ClampTarget(targetCount) results and deals them
// round-robin into four weeks: result i lands in week i mod 4, keeping the
// ranked order within each week. Week w starts w*7 days after start and ends
// six days later. Fewer than four results leave trailing weeks empty.
func Build(results []types.RankedPaper, targetCount int, start time.Time) types.MonthlyPlan {
	n := ClampTarget(targetCount)
	if n > len(results) {
		n = len(results)
	}
	selected := results[:n]

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	weeks := make([]types.Week, Weeks)
	for w := range weeks {
		weekStart := day.AddDate(0, 0, w*7)
		weeks[w] = types.Week{
			Number: w + 1,
			Start:  weekStart.Format(dateLayout),
			End:    weekStart.AddDate(0, 0, 6).Format(dateLayout),
			Papers: []types.RankedPaper{},
			Tasks:  append([]string(nil), Tasks...),
		}
	}
	for i, r := range selected {
		weeks[i%Weeks].Papers = append(weeks[i%Weeks].Papers, r)
	}

	return types.MonthlyPlan{Count: n, Plan: weeks}
}
