package search

import (
	"fmt"
	"strings"
)

// ValidationError reports a request parameter outside the contract bounds.
// It is raised before any provider or store activity happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ResolverError reports that the store-side resolution for a capability
// failed. For unindexed corpora that means every encoding strategy in the
// chain failed; Err carries the last failure.
type ResolverError struct {
	Capability Capability
	Err        error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("resolve %s search: %v", strings.ToLower(string(e.Capability)), e.Err)
}

func (e *ResolverError) Unwrap() error {
	return e.Err
}
