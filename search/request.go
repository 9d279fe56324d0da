package search

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit applies when a request does not specify one.
	DefaultLimit = 10
	// MaxLimit is the largest result count a request may ask for.
	MaxLimit = 50
	// DefaultMinScore applies when a request does not specify one.
	DefaultMinScore = 0.5
)

// Request is one natural-language query over the transcript corpus.
// Nil Limit and MinScore mean "not provided" and take the defaults; a
// provided value outside the contract bounds is rejected, zero included.
type Request struct {
	Question string
	Limit    *int
	MinScore *float64
}

// Validate checks the request against the contract bounds and fills in
// defaults. It must pass before anything leaves the process.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return &ValidationError{Field: "question", Reason: "question cannot be empty"}
	}

	if r.Limit == nil {
		limit := DefaultLimit
		r.Limit = &limit
	}
	if *r.Limit < 1 || *r.Limit > MaxLimit {
		return &ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("limit must be between 1 and %d: %d", MaxLimit, *r.Limit),
		}
	}

	if r.MinScore == nil {
		minScore := DefaultMinScore
		r.MinScore = &minScore
	}
	if *r.MinScore < 0 || *r.MinScore > 1 {
		return &ValidationError{
			Field:  "min_score",
			Reason: fmt.Sprintf("min_score must be between 0.0 and 1.0: %g", *r.MinScore),
		}
	}

	return nil
}
