// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reading-planner CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reading-planner/internal/config"
	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/internal/secrets"
	"github.com/pdiddy/reading-planner/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is resolved once per invocation in PersistentPreRunE.
var cfg types.Config

// rootCmd is the base command for the reading-planner CLI.
var rootCmd = &cobra.Command{
	Use:   "reading-planner",
	Short: "Find, rank, and schedule research papers",
	Long: `reading-planner searches Semantic Scholar for papers on a research topic,
ranks the candidates by semantic similarity between their titles and your
research intent, and deals the best of them into a four-week reading plan.

Run it once from the command line (search, plan) or as an HTTP API (serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Info("loaded secrets: %v", keys)
		}

		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		secrets.Apply(&c, s)
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reading-planner.yaml or ~/.config/reading-planner/reading-planner.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostic output to stderr")
	rootCmd.PersistentFlags().String("source", "", "candidate source: semantic_scholar, openalex")
	rootCmd.PersistentFlags().String("provider", "", "embedding provider: local, ollama, openai, gemini")
	rootCmd.PersistentFlags().String("model", "", "embedding model name")
	rootCmd.PersistentFlags().String("cache", "", "sqlite embedding cache path")

	viper.BindPFlag("search.source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("embedding.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("embedding.model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("embedding.cache_path", rootCmd.PersistentFlags().Lookup("cache"))
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("reading-planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "reading-planner"))
		}
	}

	if err := v.ReadInConfig(); err == nil {
		logger.Info("using config file: %s", v.ConfigFileUsed())
	} else if cfgFile != "" {
		logger.Warn("reading config %s: %v", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
