package ports

import (
	"context"
	"io"

	"github.com/baditaflorin/go_question_coverage/internal/core/domain"
)

// TokenCollector builds the token set of a transcript read from a stream.
type TokenCollector interface {
	// Collect reads the whole stream and returns its distinct tokens together
	// with the number of bytes consumed.
	Collect(ctx context.Context, reader io.Reader) (domain.TokenSet, int64, error)
}
