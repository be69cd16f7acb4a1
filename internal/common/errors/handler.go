// internal/common/errors/handler.go
package errors

// GetRetryCount returns how many re-attempts a failing operation with the
// given code deserves before giving up. The search fan-out deliberately
// does not retry (a single attempt per category per call); these counts
// apply to the service wiring, e.g. store connection setup.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreConnectionFailed:
		return 5
	case ErrCodeStoreQueryFailed, ErrCodeStoreQueryTimeout:
		return 0
	default:
		return 0
	}
}

// GetErrorCategory buckets codes for logging and metric labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnknownCategory, ErrCodeInvalidComparisonInput, ErrCodeInvalidCriteria:
		return "configuration"
	case ErrCodeStoreConnectionFailed, ErrCodeStoreQueryFailed, ErrCodeStoreQueryTimeout:
		return "store"
	case ErrCodeMalformedField:
		return "data-quality"
	default:
		return "internal"
	}
}

// Handler reports recovered errors through the engine's logger without
// letting them escape to the caller.
type Handler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Recovered logs an error that was absorbed locally (per-category query
// failure, malformed field) so partial results stay observable.
func (h *Handler) Recovered(op string, err error) {
	stdErr := Normalize(err)
	h.logger.Warn("recovered from error", map[string]interface{}{
		"operation":     op,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
	})
}
