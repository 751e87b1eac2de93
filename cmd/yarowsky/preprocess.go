package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kittclouds/yarowsky/pkg/preprocess"
)

func newPreprocessCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "preprocess FILE...",
		Short: "Split raw news files into one normalized article per file",
		Long: `Split raw news files on their <TEXT> blocks and store each article,
lower-cased with punctuation removed and whitespace collapsed, as
<out>/<file>-<n>. Files that cannot be read are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := preprocessFiles(cmd, args, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d articles\n", total)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "ap-singles", "output directory")
	return cmd
}

func preprocessFiles(cmd *cobra.Command, paths []string, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	total := 0
	for _, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			return total, err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Unable to open file %s.\n", path)
			continue
		}

		name := filepath.Base(path)
		for n, article := range preprocess.SplitArticles(string(raw)) {
			out := filepath.Join(outDir, fmt.Sprintf("%s-%d", name, n))
			if err := os.WriteFile(out, []byte(preprocess.Normalize(article)), 0o644); err != nil {
				return total, fmt.Errorf("write %s: %w", out, err)
			}
			total++
		}
	}
	return total, nil
}
