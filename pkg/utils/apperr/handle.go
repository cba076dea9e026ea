package apperr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
)

// Handle logs err. Errors caused by the caller's input are logged as
// warnings, everything else as errors.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	level := Level(err)
	logger.Log(ctx, level, "application error", "error", err)
}

// Level returns the log level err should be reported at
func Level(err error) slog.Level {
	switch {
	case errors.Is(err, model.ErrInvalidSelection),
		errors.Is(err, model.ErrSessionNotFound):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
