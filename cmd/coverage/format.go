package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/transcript"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Render a segment transcript as timestamped lines",
	RunE:  runFormat,
}

var formatTranscript string

func init() {
	formatCmd.Flags().StringVarP(&formatTranscript, "transcript", "t", "", "Path to the segment transcript JSON (required)")
	if err := formatCmd.MarkFlagRequired("transcript"); err != nil {
		panic(fmt.Sprintf("failed to mark transcript flag as required: %v", err))
	}

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(formatTranscript)
	if err != nil {
		return fmt.Errorf("failed to open transcript %s: %w", formatTranscript, err)
	}
	defer f.Close()

	doc, err := transcript.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse transcript %s: %w", formatTranscript, err)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), doc.Format())
	return err
}
