package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_question_coverage/pkg/coverage"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize TEXT...",
	Short: "Print the content tokens of a text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

var normalizePhonetic bool

func init() {
	normalizeCmd.Flags().BoolVar(&normalizePhonetic, "phonetic", false, "Print Double Metaphone codes instead of words")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	opts := []coverage.Option{coverage.WithQuietLogger()}
	if normalizePhonetic {
		opts = append(opts, coverage.WithPhoneticMatching())
	}
	checker, err := coverage.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}
	defer checker.Close()

	tokens := checker.Normalize(strings.Join(args, " "))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tokens, " "))
	return err
}
