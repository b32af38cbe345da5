// Package errors provides the standardized error taxonomy for the Lectern
// codebase: ingestion failures that fall through to the next source,
// missing document resources that surface to the caller, and unresolvable
// user references that surface as "no match".
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrMalformedPayload indicates ingestion text could not be parsed as
	// structured data at all. Recoverable by falling through to the next source.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrEmptyPayload indicates a payload parsed but yielded zero usable
	// records. Recoverable the same way as ErrMalformedPayload.
	ErrEmptyPayload = errors.New("empty or unrecognized payload shape")
	// ErrMissingDocument indicates a split-source fetch for a named document
	// found nothing. Surfaced to the caller of GetChapter, not recovered.
	ErrMissingDocument = errors.New("missing document data")
	// ErrUnresolvableReference indicates a user-entered reference names an
	// unknown document.
	ErrUnresolvableReference = errors.New("unresolvable reference")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// PayloadError represents an ingestion payload that could not be used,
// carrying the source it came from and diagnostic detail.
type PayloadError struct {
	Source  string // Source being ingested (e.g., "inline", "bulk", "document:John")
	Format  string // Format attempted (e.g., "JSON", "OSIS XML")
	Message string // Diagnostic detail ("no usable rows", "rows used unrecognized field names")
	Err     error  // Underlying error, if any
}

func (e *PayloadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("unusable %s payload from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("unusable %s payload: %s", e.Format, e.Message)
}

func (e *PayloadError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrEmptyPayload
}

// MissingDocumentError represents a document whose backing payload cannot be
// located at all. This is the one store failure that propagates: an empty
// chapter must stay distinguishable from a document that cannot be loaded.
type MissingDocumentError struct {
	Document string // Document name requested
	Err      error  // Underlying error, if any
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("missing document data: %s", e.Document)
}

func (e *MissingDocumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingDocument
}

// ReferenceError represents a reference string that names an unknown document.
type ReferenceError struct {
	Input string // Raw reference text entered by the user
	Token string // Book token that failed to resolve
}

func (e *ReferenceError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("cannot resolve reference %q: unknown book %q", e.Input, e.Token)
	}
	return fmt.Sprintf("cannot resolve reference %q", e.Input)
}

func (e *ReferenceError) Unwrap() error {
	return ErrUnresolvableReference
}

// Helper functions for creating common errors

// NewPayload creates a PayloadError with ErrEmptyPayload semantics.
func NewPayload(source, format, message string) *PayloadError {
	return &PayloadError{
		Source:  source,
		Format:  format,
		Message: message,
	}
}

// NewMalformed creates a PayloadError that unwraps to ErrMalformedPayload.
func NewMalformed(source, format string, err error) *PayloadError {
	return &PayloadError{
		Source:  source,
		Format:  format,
		Message: "cannot parse as structured data",
		Err:     fmt.Errorf("%w: %v", ErrMalformedPayload, err),
	}
}

// NewMissingDocument creates a MissingDocumentError.
func NewMissingDocument(document string, err error) *MissingDocumentError {
	return &MissingDocumentError{
		Document: document,
		Err:      err,
	}
}

// NewReference creates a ReferenceError.
func NewReference(input, token string) *ReferenceError {
	return &ReferenceError{
		Input: input,
		Token: token,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
