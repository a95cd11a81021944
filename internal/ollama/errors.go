package ollama

import "strings"

// ErrorType classifies an LLM failure. Rate-limit-class errors trigger the
// orchestrator's auto-pause and are never persisted; everything else is
// persisted as a failed analysis and retried on the next run.
type ErrorType string

// Error classes produced by Classify.
const (
	ErrRateLimit        ErrorType = "rate_limit"
	ErrQuotaExceeded    ErrorType = "quota_exceeded"
	ErrVRAM             ErrorType = "vram"
	ErrModelUnavailable ErrorType = "model_unavailable"
	ErrTimeout          ErrorType = "timeout"
	ErrAPI              ErrorType = "api_error"
	ErrGeneral          ErrorType = "general"
)

// RateLimited reports whether this error class signals upstream throttling
// and should be handled by auto-pause instead of a per-file failure.
func (t ErrorType) RateLimited() bool {
	return t == ErrRateLimit || t == ErrQuotaExceeded
}

var rateLimitIndicators = []string{
	"429", "too many requests", "rate limit", "rate limited",
	"quota exceeded", "quota limit", "usage limit", "limit exceeded",
	"you've reached", "hourly usage limit", "daily usage limit",
}

var quotaIndicators = []string{
	"403", "forbidden", "access denied", "billing", "payment required",
	"subscription required", "plan limit", "usage cap",
}

var modelUnavailableIndicators = []string{
	"model not found", "model unavailable", "model does not exist",
	"invalid model", "unknown model",
}

var timeoutIndicators = []string{
	"timeout", "timed out", "deadline exceeded",
}

var serverErrorCodes = []string{"500", "502", "503", "504"}

// Classify maps an error message onto the taxonomy by substring matching.
// Rate-limit indicators are checked first so a "429 ... quota" message is
// treated as throttling rather than a billing problem.
func Classify(msg string) ErrorType {
	lower := strings.ToLower(msg)

	if containsAny(lower, rateLimitIndicators) {
		return ErrRateLimit
	}
	if containsAny(lower, quotaIndicators) {
		return ErrQuotaExceeded
	}
	if strings.Contains(lower, "requires more system memory") || strings.Contains(lower, "vram") {
		return ErrVRAM
	}
	if containsAny(lower, modelUnavailableIndicators) {
		return ErrModelUnavailable
	}
	if containsAny(lower, timeoutIndicators) {
		return ErrTimeout
	}
	if containsAny(msg, serverErrorCodes) {
		return ErrAPI
	}
	return ErrGeneral
}

func containsAny(s string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
