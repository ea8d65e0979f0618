// Package logging provides structured logging utilities for early-boot-config.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every provider logs the same way. It supports environment-based log level
// configuration, module/version context injection, and automatic source
// location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Received user data and per-source decisions, with source location
//   - INFO: Which user data source is being used (default)
//   - WARN/WARNING: No user data found, privileged backdoor access downgraded
//   - ERROR: Best-effort sources that failed and were skipped
//
// # Usage
//
// Setting the default logger early in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("early-boot-config", version, "info")
//	slog.Info("using user data file", "path", path)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no level
// is given explicitly:
//
//	LOG_LEVEL=debug early-boot-config
//
// # Output Format
//
// All logs are written to stderr in JSON format, which the journal captures
// when the binary runs as a systemd unit:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "no user data found",
//	    "module": "early-boot-config",
//	    "version": "v1.0.0",
//	    "provider": "cdrom"
//	}
package logging
