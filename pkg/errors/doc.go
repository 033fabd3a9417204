// Package errors provides structured error types used across the probe
// packages so callers can branch on a stable code instead of message text.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to run lsblk",
//	    cause,
//	    map[string]any{
//	        "source": "partitions",
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeUnavailable) {
//	    // fall back to defaults
//	}
package errors
