package metrics

import (
	"fmt"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
)

// OutcomeSuccess labels calls that returned without error
const OutcomeSuccess = "success"

// Outcome returns the outcome label for err: "success", the structured
// error type, or "unknown".
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	for _, t := range []errors.ErrorType{
		errors.ErrorTypeConfig,
		errors.ErrorTypeValidation,
		errors.ErrorTypeUnexpectedStatus,
		errors.ErrorTypeMalformedResponse,
		errors.ErrorTypeConnection,
		errors.ErrorTypeTimeout,
		errors.ErrorTypeRateLimit,
		errors.ErrorTypeCircuitOpen,
		errors.ErrorTypeClosed,
	} {
		if errors.IsType(err, t) {
			return string(t)
		}
	}
	return "unknown"
}

// StatusOutcome returns the label for an HTTP status code, e.g. "2xx"
func StatusOutcome(statusCode int) string {
	return fmt.Sprintf("%dxx", statusCode/100)
}
