// Package logging provides structured logging configuration for jsonmock.
//
// This package wraps log/slog so every component logs the same way. It
// supports configurable log levels and text or JSON output.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "addr", "127.0.0.1:3000")
//
// Components accept a *slog.Logger in their options and tag it with
// WithComponent, so records carry component=server or component=source. A nil
// logger discards everything.
package logging
