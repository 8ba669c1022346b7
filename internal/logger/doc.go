// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, Errorf, etc.).
//
// Pipeline stages accept a context and extract the logger from it, so tests
// can capture output by installing their own logger.
package logger
