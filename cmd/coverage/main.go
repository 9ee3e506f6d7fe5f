// Package main implements the coverage CLI, which checks call transcripts for
// required questions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "coverage",
	Short:         "Check call transcripts for required questions",
	Long:          "coverage reports which required questions a call taker asked during a call, based on the lexical overlap between each question and the call transcript.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
