package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrDisabled is returned by a chain with no writers configured.
var ErrDisabled = errors.New("advisor: no writer configured")

// fallbackWriter wraps two Writers. It calls the primary first; if that
// returns an error it logs the failure and tries the secondary.
type fallbackWriter struct {
	primary   Writer
	secondary Writer
	logger    *slog.Logger
}

// NewFallbackWriter returns a Writer that calls primary and, on failure,
// falls back to secondary. Either argument may be nil. With both nil every
// call returns ErrDisabled.
func NewFallbackWriter(primary, secondary Writer, logger *slog.Logger) Writer {
	return &fallbackWriter{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *fallbackWriter) CoverNote(ctx context.Context, b Brief) (string, error) {
	if f.primary != nil {
		note, err := f.primary.CoverNote(ctx, b)
		if err == nil {
			return note, nil
		}
		f.logger.Warn("advisor: primary writer failed, trying secondary",
			"error", err,
			"assessment", b.Assessment,
		)
		if f.secondary == nil {
			return "", fmt.Errorf("advisor: primary failed and no secondary configured: %w", err)
		}
	}
	if f.secondary == nil {
		return "", ErrDisabled
	}
	return f.secondary.CoverNote(ctx, b)
}
