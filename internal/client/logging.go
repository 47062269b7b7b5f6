package client

import (
	"encoding/json"
	"log/slog"
	"time"
)

// maxArgLogLen is the maximum length for logged request bodies before truncation.
const maxArgLogLen = 200

// slowRequestThreshold is the duration above which calls are logged at WARN level.
const slowRequestThreshold = 500 * time.Millisecond

// logRequest logs one service call with timing.
// Slow calls are logged at WARN level, failures at ERROR.
func logRequest(logger *slog.Logger, op, method, path, requestID string, in any, duration time.Duration, err error) {
	attrs := []any{
		"op", op,
		"method", method,
		"path", path,
		"request_id", requestID,
		"duration_ms", duration.Milliseconds(),
	}

	if params := formatParams(in); params != "" {
		attrs = append(attrs, "params", truncate(params, maxArgLogLen))
	}

	if err != nil {
		attrs = append(attrs, "error", err.Error())
		logger.Error("request failed", attrs...)
	} else if duration > slowRequestThreshold {
		logger.Warn("slow request", attrs...)
	} else {
		logger.Debug("request completed", attrs...)
	}
}

// formatParams renders a request body for logging.
func formatParams(in any) string {
	if in == nil {
		return ""
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	return string(raw)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
