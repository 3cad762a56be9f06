// Package logging defines the structured, context-aware logger used across
// the console. Call sites pass key/value pairs:
//
//	log.Info(ctx, "users fetched", "page", page, "total_pages", totalPages)
package logging

import "context"

type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
