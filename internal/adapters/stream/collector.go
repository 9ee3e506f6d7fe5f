package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
	"github.com/baditaflorin/go_question_coverage/internal/pool"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
)

// Constants for chunked collection
const (
	// DefaultChunkSize defines the default size of each read
	DefaultChunkSize = 64 * 1024 // 64KB

	// ContextCheckFrequency defines how often to check for context cancellation
	ContextCheckFrequency = 16 // chunks
)

// CollectorConfig defines configuration for token collection
type CollectorConfig struct {
	ChunkSize int
}

// Collector reads a transcript in chunks and accumulates its distinct tokens.
// Chunks are cut at the last ASCII whitespace byte so that no word is split
// across two normalizer calls; the remainder is carried into the next chunk.
type Collector struct {
	logger     ports.Logger
	normalizer ports.Normalizer
	chunkPool  *pool.BufferPool
	chunkSize  int
}

// NewCollector creates a new token collector
func NewCollector(logger ports.Logger, normalizer ports.Normalizer, config CollectorConfig) *Collector {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}

	return &Collector{
		logger:     logger,
		normalizer: normalizer,
		chunkPool:  pool.NewBufferPool(config.ChunkSize),
		chunkSize:  config.ChunkSize,
	}
}

// Collect reads reader to EOF and returns the set of tokens it contains
// and the number of bytes read.
func (c *Collector) Collect(ctx context.Context, reader io.Reader) (domain.TokenSet, int64, error) {
	tokens := make(domain.TokenSet)
	var bytesProcessed int64

	buf := c.chunkPool.Get()
	defer c.chunkPool.Put(buf)

	read := make([]byte, c.chunkSize)
	chunks := 0

	for {
		chunks++
		if chunks%ContextCheckFrequency == 0 {
			select {
			case <-ctx.Done():
				c.logger.Warn("Token collection cancelled by context", "error", ctx.Err())
				return tokens, bytesProcessed, ctx.Err()
			default:
			}
		}

		n, err := reader.Read(read)
		if n > 0 {
			bytesProcessed += int64(n)
			*buf = append(*buf, read[:n]...)

			if cut := lastWhitespace(*buf); cut >= 0 {
				tokens.Add(c.normalizer.Normalize(string((*buf)[:cut+1]))...)
				rest := copy(*buf, (*buf)[cut+1:])
				*buf = (*buf)[:rest]
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Error("Error reading transcript stream", "error", err)
			return tokens, bytesProcessed, fmt.Errorf("read transcript: %w", err)
		}
	}

	if len(*buf) > 0 {
		tokens.Add(c.normalizer.Normalize(string(*buf))...)
	}

	c.logger.Debug("Collected transcript tokens",
		"bytes", bytesProcessed,
		"tokens", len(tokens),
	)

	return tokens, bytesProcessed, nil
}

// lastWhitespace returns the index of the last ASCII whitespace byte in b, or -1.
func lastWhitespace(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i] {
		case ' ', '\n', '\r', '\t', '\v', '\f':
			return i
		}
	}
	return -1
}
