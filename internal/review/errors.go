// Package review implements the AI-assisted document review pipeline:
// section sanitization, style directive composition, prompt construction,
// and defensive parsing of the generation service's response.
package review

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates that no section survived sanitization.
var ErrEmptyInput = errors.New("no non-empty sections to review")

// ErrEmptyResponse indicates the generation service returned a blank response.
var ErrEmptyResponse = errors.New("empty response from generation service")

// APICallError represents a failure calling the generation service
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// UnparsableResponseError indicates the raw response contained no decodable
// JSON object, even after fallback span extraction.
type UnparsableResponseError struct {
	Cause error
}

func (e *UnparsableResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unparsable response from generation service: %v", e.Cause)
	}
	return "unparsable response from generation service"
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Cause
}
