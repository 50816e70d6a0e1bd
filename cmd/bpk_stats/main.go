// Package main provides the entry point for the bpk_stats command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	baseURL     string
	dataDir     string
	documentSet string
)

var rootCmd = &cobra.Command{
	Use:   "bpk_stats",
	Short: "BPK dashboard statistics loader and API",
	Long: "bpk_stats loads the aggregated statistics artifacts of the BPK dashboard " +
		"(content, corpus and speaker statistics plus the compiled legacy files), " +
		"validates them against their schemas and serves them over HTTP.",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default: bpk_stats.yml if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&baseURL, "base-url", "", "Site the artifacts are served from (overrides base_url)")
	flags.StringVar(&dataDir, "data-dir", "", "Local site root (overrides data_dir)")
	flags.StringVar(&documentSet, "set", "", "Document set: aggregated, compiled or all (overrides document_set)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
