package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configPath string

	rootCmd = &cobra.Command{
		Use:   "tagscope",
		Short: "Multi-environment cloud tag inventory",
		Long: `Tagscope - Multi-environment cloud tag inventory

Tagscope scans the tagged resources of every configured AWS environment,
projects them into per-environment CSV matrices, and builds
cross-environment summaries of tag usage and coverage.

Point it at a directory of credential bundles and it reports which tag
keys exist where, which values they take, and which resources are
missing the tags you care about.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`Tagscope {{.Version}} - Multi-environment cloud tag inventory
`)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tagscope.yaml", "Path to the run configuration file")
}
