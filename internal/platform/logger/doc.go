// Package logger provides structured logging for the flashcards service.
//
// It configures a log/slog JSON handler at the configured level and carries
// request-scoped loggers (annotated with trace ids) through context.Context.
package logger
