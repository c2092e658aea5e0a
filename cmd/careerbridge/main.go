// Package main provides the entry point for the CareerBridge placement server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerbridge",
	Short: "CareerBridge placement platform server",
	Long:  "CareerBridge connects students and campus recruiters: job postings, applications, interview scheduling and notifications behind a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
