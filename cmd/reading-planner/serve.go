// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reading-planner/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search and planning HTTP API",
	Long: `Serve loads the embedding model once, then answers:

  GET  /                 health check
  GET  /papers/search    unranked listing (?topic=&limit=)
  POST /papers/search    ranked search {topic, keywords, limit}
  POST /plan/monthly     reading plan {results, target_count}

It stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emb, err := newEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return err
	}
	defer emb.Shutdown()

	svc, err := newService(cfg, emb)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "reading-planner listening on %s (source: %s, embeddings: %s)\n",
		cfg.Server.Addr, sourceName(cfg.Search.Source), emb.ModelName())
	return server.New(svc, cfg.Server).Run(ctx)
}
