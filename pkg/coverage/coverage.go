// Package coverage checks whether the questions a call taker is required to
// ask were actually asked in a call transcript.
package coverage

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/normalizer"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/stream"
	"github.com/baditaflorin/go_question_coverage/internal/adapters/transcript"
	core "github.com/baditaflorin/go_question_coverage/internal/core/coverage"
	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
	"github.com/baditaflorin/go_question_coverage/internal/warmup"
	"github.com/baditaflorin/l"
)

// Report is the outcome of a coverage check.
type Report = domain.Report

// MatchRecord is the scoring outcome of one required question.
type MatchRecord = domain.MatchRecord

// DefaultThreshold is the minimum match score for a question to count as asked.
const DefaultThreshold = domain.DefaultThreshold

// Checker scores required questions against transcripts. It is safe for
// concurrent use.
type Checker struct {
	engine      *core.Engine
	collector   *stream.Collector
	logger      ports.Logger
	normalizer  ports.Normalizer
	concurrency int
}

// Option defines a functional option for configuring a Checker.
type Option func(*checkerConfig)

type checkerConfig struct {
	Threshold      float64
	Logger         ports.Logger
	Normalizer     ports.Normalizer
	NormalizerType normalizer.NormalizerType
	ExtraStopwords []string
	Concurrency    int
	ChunkSize      int
	WarmUp         bool
	WarmUpConfig   warmup.WarmupConfig
}

// WithThreshold sets the classification threshold. Any value is accepted.
func WithThreshold(th float64) Option {
	return func(cfg *checkerConfig) {
		cfg.Threshold = th
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *checkerConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithLoggerAdapter sets a logger that already implements ports.Logger.
// Close on the Checker closes it.
func WithLoggerAdapter(lg ports.Logger) Option {
	return func(cfg *checkerConfig) {
		cfg.Logger = lg
	}
}

// WithQuietLogger discards all log output.
func WithQuietLogger() Option {
	return func(cfg *checkerConfig) {
		cfg.Logger = logger.NewNopLogger()
	}
}

// WithNormalizer sets a custom normalizer. It takes precedence over
// WithStopwords, WithOptimizedNormalizer and WithPhoneticMatching.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *checkerConfig) {
		cfg.Normalizer = n
	}
}

// WithOptimizedNormalizer uses the table-driven ASCII normalizer.
func WithOptimizedNormalizer() Option {
	return func(cfg *checkerConfig) {
		cfg.NormalizerType = normalizer.OptimizedNormalizerType
	}
}

// WithPhoneticMatching compares tokens by their Double Metaphone code, so
// transcription misspellings still match.
func WithPhoneticMatching() Option {
	return func(cfg *checkerConfig) {
		cfg.NormalizerType = normalizer.PhoneticNormalizerType
	}
}

// WithStopwords adds words to the built-in stopword list.
func WithStopwords(words ...string) Option {
	return func(cfg *checkerConfig) {
		cfg.ExtraStopwords = append(cfg.ExtraStopwords, words...)
	}
}

// WithConcurrency limits how many transcripts CheckBatch scores at once.
func WithConcurrency(n int) Option {
	return func(cfg *checkerConfig) {
		cfg.Concurrency = n
	}
}

// WithChunkSize sets the read size used by CheckReader.
func WithChunkSize(size int) Option {
	return func(cfg *checkerConfig) {
		cfg.ChunkSize = size
	}
}

// WithWarmUp enables warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *checkerConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration and enables warm-up.
func WithWarmUpConfig(config warmup.WarmupConfig) Option {
	return func(cfg *checkerConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a new Checker.
func New(opts ...Option) (*Checker, error) {
	config := &checkerConfig{
		Threshold:      core.DefaultConfig().Threshold,
		NormalizerType: normalizer.DefaultNormalizerType,
		Concurrency:    runtime.GOMAXPROCS(0),
		WarmUpConfig:   warmup.DefaultWarmupConfig(),
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewNormalizerFactory(config.ExtraStopwords...).
			CreateNormalizer(config.NormalizerType)
	}

	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	engine, err := core.NewEngine(core.EngineConfig{Threshold: config.Threshold}, config.Logger, config.Normalizer)
	if err != nil {
		return nil, err
	}

	c := &Checker{
		engine:      engine,
		collector:   stream.NewCollector(config.Logger, config.Normalizer, stream.CollectorConfig{ChunkSize: config.ChunkSize}),
		logger:      config.Logger,
		normalizer:  config.Normalizer,
		concurrency: config.Concurrency,
	}

	if config.WarmUp {
		mgr := warmup.NewManager(config.Logger, config.WarmUpConfig)
		mgr.RegisterNormalizer(c.normalizer)
		mgr.RegisterChecker(c.engine)
		mgr.WarmUp(context.Background())
	}

	return c, nil
}

// Threshold returns the configured threshold.
func (c *Checker) Threshold() float64 {
	return c.engine.Threshold()
}

// Normalize returns the content tokens of text.
func (c *Checker) Normalize(text string) []string {
	return c.normalizer.Normalize(text)
}

// TokenOverlapScore returns the fraction of the question's distinct tokens
// found in the transcript.
func (c *Checker) TokenOverlapScore(question, transcript string) float64 {
	return c.engine.TokenOverlapScore(question, transcript)
}

// Check classifies each required question as asked or missed.
func (c *Checker) Check(transcript string, requiredQuestions []string) Report {
	return c.engine.Check(transcript, requiredQuestions)
}

// CheckWithThreshold is Check with a per-call threshold.
func (c *Checker) CheckWithThreshold(transcript string, requiredQuestions []string, threshold float64) Report {
	return c.withThreshold(threshold).Check(transcript, requiredQuestions)
}

// CheckReader is Check for a transcript read from r. The transcript is
// tokenized chunk by chunk and never held in memory as a whole.
func (c *Checker) CheckReader(ctx context.Context, r io.Reader, requiredQuestions []string) (Report, error) {
	tokens, _, err := c.collector.Collect(ctx, r)
	if err != nil {
		return Report{}, err
	}
	return c.engine.CheckTokens(tokens, requiredQuestions), nil
}

// CheckDocument checks a segmented transcript. When speakers are given only
// their segments count, e.g. transcript.DispatcherSpeaker.
func (c *Checker) CheckDocument(doc *transcript.Document, requiredQuestions []string, speakers ...string) Report {
	return c.Check(doc.Text(speakers...), requiredQuestions)
}

// BatchItem is one transcript of a batch.
type BatchItem struct {
	ID         string `json:"id"`
	Transcript string `json:"transcript"`
}

// BatchResult pairs a batch item with its report.
type BatchResult struct {
	ID string `json:"id"`
	Report
}

// CheckBatch checks many transcripts against the same questions concurrently.
// Results keep the order of items. A threshold of nil uses the configured one.
func (c *Checker) CheckBatch(ctx context.Context, items []BatchItem, requiredQuestions []string, threshold *float64) ([]BatchResult, error) {
	checker := ports.CoverageChecker(c.engine)
	if threshold != nil {
		checker = c.withThreshold(*threshold)
	}

	results := make([]BatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = BatchResult{ID: item.ID, Report: checker.Check(item.Transcript, requiredQuestions)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Debug("Batch coverage computed", "items", len(items))
	return results, nil
}

// Close releases the logger.
func (c *Checker) Close() error {
	return c.logger.Close()
}

func (c *Checker) withThreshold(threshold float64) *core.Engine {
	if threshold == c.engine.Threshold() {
		return c.engine
	}
	return c.engine.WithThreshold(threshold)
}
