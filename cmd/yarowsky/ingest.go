package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/yarowsky/internal/logger"
	"github.com/kittclouds/yarowsky/internal/store"
	"github.com/kittclouds/yarowsky/pkg/corpus"
)

func newIngestCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "ingest PATH...",
		Short: "Load raw corpus files or folders into the SQLite article store",
		Long: `Split and normalize raw corpus files and store their articles in a
SQLite database that "run --db" reads from. Re-ingesting a file replaces
the articles previously stored for it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewSQLiteStoreWithDSN(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			files, articles, err := ingestPaths(cmd, s, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d articles from %d files into %s\n", articles, files, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "corpus.db", "SQLite database file")
	return cmd
}

func ingestPaths(cmd *cobra.Command, s store.Storer, paths []string) (files, articles int, err error) {
	log := logger.WithComponent("ingest")
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Warn("skipping unreadable file", "path", path, "error", err)
				return nil
			}

			source := filepath.ToSlash(path)
			docs := corpus.FromRaw(source, string(raw))
			batch := make([]*store.Article, len(docs))
			for i, doc := range docs {
				batch[i] = &store.Article{Source: source, Position: i, Body: strings.Join(doc.Words, " ")}
			}
			if _, err := s.ReplaceSource(source, batch); err != nil {
				return err
			}
			articles += len(batch)
			files++
			return nil
		})
		if err != nil {
			return files, articles, fmt.Errorf("ingest %s: %w", root, err)
		}
	}
	return files, articles, nil
}
