// Package main provides the entry point for the Portfolio Reviewer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "review_agent",
	Short: "Portfolio Reviewer HTTP API Server and CLI",
	Long:  "Portfolio Reviewer provides AI-assisted reviews of portfolio and resume text with per-section feedback, clarification follow-ups, and profile synchronization.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
