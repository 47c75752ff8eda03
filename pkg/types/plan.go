// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PlanRequest asks for a reading plan built from already-ranked results.
// TargetCount is clamped to [1, 15]; nil means the configured default.
type PlanRequest struct {
	Results     []RankedPaper `json:"results" yaml:"results"`
	TargetCount *int          `json:"target_count,omitempty" yaml:"target_count,omitempty"`
}

// Week is one bucket of the reading plan. Start and End are YYYY-MM-DD dates
// seven days apart inclusive.
type Week struct {
	Number int           `json:"week" yaml:"week"`
	Start  string        `json:"start" yaml:"start"`
	End    string        `json:"end" yaml:"end"`
	Papers []RankedPaper `json:"papers" yaml:"papers"`
	Tasks  []string      `json:"tasks" yaml:"tasks"`
}

// MonthlyPlan is the four-week reading plan. Count is the number of papers
// selected from the ranked input.
type MonthlyPlan struct {
	Count int    `json:"count" yaml:"count"`
	Plan  []Week `json:"plan" yaml:"plan"`
}
