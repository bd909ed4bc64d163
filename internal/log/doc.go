// Package log builds the slog loggers used across gdpdash.
//
// Every logger returned by this package wraps its output handler in a
// RedactHandler, which masks attributes that carry credentials. The
// dashboard access token, for example, is logged under the "token" key
// and always appears as MaskValue in the output.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("dashboard listening", "addr", addr, "token", token)
//	slog.SetDefault(logger)
package log
