// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, splitKeywords(""))
	assert.Nil(t, splitKeywords("   "))
	assert.Equal(t, []string{"bert", " attention"}, splitKeywords("bert, attention"))
}

func TestLimitFlag(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "x"}
		c.Flags().Int("limit", 0, "")
		return c
	}

	c := newCmd()
	require.NoError(t, c.ParseFlags(nil))
	assert.Nil(t, limitFlag(c))

	c = newCmd()
	require.NoError(t, c.ParseFlags([]string{"--limit", "0"}))
	require.NotNil(t, limitFlag(c))
	assert.Equal(t, 0, *limitFlag(c))

	c = newCmd()
	require.NoError(t, c.ParseFlags([]string{"--limit=7"}))
	assert.Equal(t, 7, *limitFlag(c))
}

func TestReadPapers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "yaml list",
			content: "- title: Attention Is All You Need\n  year: 2017\n- title: BERT\n",
			want:    []string{"Attention Is All You Need", "BERT"},
		},
		{
			name:    "json listing",
			content: `{"topic":"nlp","count":1,"papers":[{"title":"GPT-3","authors":["Tom Brown"]}]}`,
			want:    []string{"GPT-3"},
		},
		{
			name:    "json list",
			content: `[{"title":"ELMo"}]`,
			want:    []string{"ELMo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "papers")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			papers, err := readPapers(path)
			require.NoError(t, err)
			var titles []string
			for _, p := range papers {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestReadPapersMissingFile(t *testing.T) {
	_, err := readPapers(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}
