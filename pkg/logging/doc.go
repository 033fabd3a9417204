// Package logging provides structured logging utilities for hostprobe components.
//
// # Overview
//
// This package wraps the standard library slog package with hostprobe defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostprobe", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("reading partitions", "source", "lsblk")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("hostprobe", "v2.0.0", "debug")
//	logger.Info("probe starting", "window", "1s")
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("hostprobe", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug hostprobe snapshot
//	LOG_LEVEL=error hostprobe --format yaml
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "snapshot complete",
//	    "module": "hostprobe",
//	    "version": "v1.0.0",
//	    "partitions": 3
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "probe.(*Probe).Partitions",
//	        "file": "probe.go",
//	        "line": 45
//	    },
//	    "msg": "reading partitions",
//	    "module": "hostprobe",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("myapp", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("source read",
//	    "method", "read",
//	    "path", "/proc/stat",
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("cache hit", "key", key)  // Development/troubleshooting
//	slog.Info("snapshot complete")       // Normal operations
//	slog.Warn("retry attempt 3")         // Potential issues
//	slog.Error("lsblk failed")         // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to read source",
//	    "error", err,
//	    "source", id,
//	    "retry_count", retries,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - command logging and level flags
//   - pkg/probe - fallback warnings when a raw source is unavailable
//   - pkg/snapshotter - snapshot timing
//
// All components share consistent logging format and configuration.
package logging
