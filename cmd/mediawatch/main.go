// Package main provides the entry point for the MediaWatch content pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediawatch",
	Short: "MediaWatch content generation pipeline",
	Long:  "MediaWatch turns viewer-reported media incidents into generated fact-checks and regulator-ready complaint letters, served over a REST API with an optional queue-backed worker.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
