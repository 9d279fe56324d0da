package ai

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ProviderError describes a failed call to the embedding provider. It is
// returned as-is to callers: provider failures are terminal for a request,
// never retried and never downgraded to an empty result.
type ProviderError struct {
	Operation  string
	StatusCode int // HTTP status when known, 0 otherwise
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("embedding provider: %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("embedding provider: %s: %s", e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError wraps a go-openai client error, lifting the HTTP status
// out of the provider-specific error types when present.
func newProviderError(operation string, err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Operation:  operation,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Operation:  operation,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	}

	return &ProviderError{
		Operation: operation,
		Message:   err.Error(),
		Err:       err,
	}
}
