package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/transcript"
	"github.com/baditaflorin/go_question_coverage/internal/config"
	"github.com/baditaflorin/go_question_coverage/pkg/coverage"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which required questions were asked in a transcript",
	Long:  "Scores every required question against a transcript and reports the asked and missed questions with the overall coverage. Transcripts ending in .json are read as segment documents; anything else is read as plain text.",
	RunE:  runCheck,
}

var (
	checkTranscript string
	checkQuestions  string
	checkThreshold  float64
	checkSpeakers   []string
	checkOutput     string
	checkPhonetic   bool
	checkStopwords  []string
)

func init() {
	checkCmd.Flags().StringVarP(&checkTranscript, "transcript", "t", "", "Path to the transcript (.txt or segment .json) (required)")
	checkCmd.Flags().StringVarP(&checkQuestions, "questions", "q", "", "Path to the question set (.json, .yaml, .yml) (required)")
	checkCmd.Flags().Float64Var(&checkThreshold, "threshold", coverage.DefaultThreshold, "Match threshold; overrides the question set's threshold when given")
	checkCmd.Flags().StringSliceVarP(&checkSpeakers, "speaker", "s", nil, "Only count segments from these speakers (segment transcripts only)")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "text", "Output format: text or json")
	checkCmd.Flags().BoolVar(&checkPhonetic, "phonetic", false, "Match words that sound alike")
	checkCmd.Flags().StringSliceVar(&checkStopwords, "stopword", nil, "Additional stopwords")

	if err := checkCmd.MarkFlagRequired("transcript"); err != nil {
		panic(fmt.Sprintf("failed to mark transcript flag as required: %v", err))
	}
	if err := checkCmd.MarkFlagRequired("questions"); err != nil {
		panic(fmt.Sprintf("failed to mark questions flag as required: %v", err))
	}

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if checkOutput != "text" && checkOutput != "json" {
		return fmt.Errorf("unknown output format %q", checkOutput)
	}

	questions, err := config.LoadQuestionSet(checkQuestions)
	if err != nil {
		return fmt.Errorf("failed to load question set: %w", err)
	}

	threshold := questions.EffectiveThreshold()
	if cmd.Flags().Changed("threshold") {
		threshold = checkThreshold
	}

	opts := []coverage.Option{
		coverage.WithQuietLogger(),
		coverage.WithThreshold(threshold),
		coverage.WithStopwords(checkStopwords...),
	}
	if checkPhonetic {
		opts = append(opts, coverage.WithPhoneticMatching())
	}
	checker, err := coverage.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}
	defer checker.Close()

	report, err := checkFile(cmd.Context(), checker, checkTranscript, questions.Required, checkSpeakers)
	if err != nil {
		return err
	}

	if checkOutput == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeText(cmd.OutOrStdout(), report, threshold)
}

func checkFile(ctx context.Context, checker *coverage.Checker, path string, required, speakers []string) (coverage.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return coverage.Report{}, fmt.Errorf("failed to open transcript %s: %w", path, err)
	}
	defer f.Close()

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := transcript.Parse(f)
		if err != nil {
			return coverage.Report{}, fmt.Errorf("failed to parse transcript %s: %w", path, err)
		}
		if err := checkSpeakersPresent(doc, speakers); err != nil {
			return coverage.Report{}, err
		}
		return checker.CheckDocument(doc, required, speakers...), nil
	}

	if len(speakers) > 0 {
		return coverage.Report{}, fmt.Errorf("--speaker requires a segment (.json) transcript")
	}
	report, err := checker.CheckReader(ctx, f, required)
	if err != nil {
		return coverage.Report{}, fmt.Errorf("failed to read transcript %s: %w", path, err)
	}
	return report, nil
}

// checkSpeakersPresent fails when a requested speaker labels no segment of doc.
func checkSpeakersPresent(doc *transcript.Document, speakers []string) error {
	available := doc.Speakers()
	for _, sp := range speakers {
		if !lo.ContainsBy(available, func(a string) bool { return strings.EqualFold(a, sp) }) {
			return fmt.Errorf("speaker %q not in transcript (available: %s)", sp, strings.Join(available, ", "))
		}
	}
	return nil
}

func writeJSON(w io.Writer, report coverage.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeText(w io.Writer, report coverage.Report, threshold float64) error {
	line := func(r coverage.MatchRecord, _ int) string {
		return fmt.Sprintf("    - %s (score=%.2f)", r.Question, r.MatchScore)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "threshold=%.2f\n", threshold)
	sb.WriteString("  asked:\n")
	for _, l := range lo.Map(report.Asked, line) {
		sb.WriteString(l + "\n")
	}
	sb.WriteString("  missed:\n")
	for _, l := range lo.Map(report.Missed, line) {
		sb.WriteString(l + "\n")
	}
	fmt.Fprintf(&sb, "  coverage=%.2f (%d/%d)\n", report.Coverage, len(report.Asked), report.Total())

	_, err := io.WriteString(w, sb.String())
	return err
}
