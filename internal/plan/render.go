// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reading-planner/pkg/types"
)

// Output formats accepted by Render.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Render writes p to w in the named format.
func Render(p types.MonthlyPlan, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case "", FormatMarkdown, "md":
		return WriteMarkdown(p, w)
	case FormatJSON:
		return writeJSON(p, w)
	case FormatYAML, "yml":
		return WriteYAML(p, w)
	}
	return fmt.Errorf("unknown plan format %q (want markdown, json, or yaml)", format)
}

// WriteMarkdown renders the plan as a Markdown checklist, one section per
// week.
func WriteMarkdown(p types.MonthlyPlan, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reading plan (%d papers)\n", p.Count)

	for _, wk := range p.Plan {
		fmt.Fprintf(&b, "\n## Week %d (%s to %s)\n\n", wk.Number, wk.Start, wk.End)
		if len(wk.Papers) == 0 {
			b.WriteString("_No papers this week._\n")
		}
		for _, r := range wk.Papers {
			title := r.Title
			if title == "" {
				title = "(untitled)"
			}
			if r.URL != "" {
				title = fmt.Sprintf("[%s](%s)", title, r.URL)
			}
			if r.Year > 0 {
				fmt.Fprintf(&b, "- %s (%d), score %.3f\n", title, r.Year, r.Score)
			} else {
				fmt.Fprintf(&b, "- %s, score %.3f\n", title, r.Score)
			}
		}
		b.WriteString("\nTasks:\n")
		for _, t := range wk.Tasks {
			fmt.Fprintf(&b, "- [ ] %s\n", t)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteYAML renders the plan as YAML.
func WriteYAML(p types.MonthlyPlan, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}

func writeJSON(p types.MonthlyPlan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
