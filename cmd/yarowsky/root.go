package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "yarowsky",
		Short:        "Unsupervised word-sense disambiguation by bootstrapping",
		Version:      Version,
		SilenceUsage: true,
	}
	root.AddCommand(
		newRunCmd(),
		newPreprocessCmd(),
		newIngestCmd(),
	)
	return root
}
