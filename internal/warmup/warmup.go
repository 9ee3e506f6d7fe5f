package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of sentences in the generated sample transcript
	SampleSentences int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:     runtime.NumCPU(),
		Iterations:      200,
		SampleSentences: 40,
		Duration:        2 * time.Second,
		ForceGC:         true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	checkers    []ports.CoverageChecker
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterChecker adds a coverage checker to be warmed up
func (wm *Manager) RegisterChecker(checker ports.CoverageChecker) {
	wm.checkers = append(wm.checkers, checker)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp exercises every registered component and returns the number of
// operations performed.
func (wm *Manager) WarmUp(ctx context.Context) int64 {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.checkers)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	transcript := SampleTranscript(wm.config.SampleSentences)
	questions := SampleQuestions()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ops int64
	)
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var local int64
			for j := 0; j < wm.config.Iterations && ctx.Err() == nil; j++ {
				for _, n := range wm.normalizers {
					_ = n.Normalize(transcript)
					local++
				}
				for _, c := range wm.checkers {
					_ = c.Check(transcript, questions)
					local++
				}
			}

			mu.Lock()
			ops += local
			mu.Unlock()
		}()
	}
	wg.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
		"operations", ops,
	)
	return ops
}

// SampleQuestions returns a typical set of call-entry questions.
func SampleQuestions() []string {
	return []string{
		"What is the address of the emergency?",
		"What is the phone number you're calling from?",
		"What is your name?",
		"Tell me exactly what happened.",
		"Is anyone injured?",
		"Is the patient awake and breathing?",
	}
}

// SampleTranscript builds a call transcript of the given number of sentences.
func SampleTranscript(sentences int) string {
	lines := []string{
		"Norman 911, what is the address of the emergency?",
		"It's 1200 Brompton Drive, Norman Oklahoma.",
		"What's the phone number you're calling from?",
		"Four oh five, five five five, zero one hundred.",
		"Okay, tell me exactly what happened.",
		"My dad fell down the stairs and he isn't answering me.",
		"Is he awake? Is he breathing?",
		"He's breathing but his eyes are closed.",
	}

	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(lines[i%len(lines)])
	}
	return sb.String()
}
