package importers

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a row failure.
type ErrorKind string

const (
	KindMissingRequiredField ErrorKind = "missing_required_field"
	KindReferenceNotFound    ErrorKind = "reference_not_found"
	KindInvalidFieldValue    ErrorKind = "invalid_field_value"
	KindStoreOperationFailed ErrorKind = "store_operation_failed"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrReferenceNotFound    = errors.New("reference not found")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrStoreOperationFailed = errors.New("store operation failed")

	// ErrBatchAborted marks a failure outside the per-row boundary. The rows
	// that were not processed yet are reported together under one message.
	ErrBatchAborted = errors.New("batch aborted")

	// ErrStoreUnavailable is wrapped by EntityStore implementations when the
	// store as a whole cannot be used (connection lost, database closed).
	ErrStoreUnavailable = errors.New("store unavailable")
)

// RowError is a failure attributed to a single import row.
type RowError struct {
	Kind  ErrorKind
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	switch e.Kind {
	case KindMissingRequiredField:
		return fmt.Sprintf("Missing required field: %s", e.Field)
	case KindReferenceNotFound:
		return fmt.Sprintf("Category not found: %q", e.Value)
	case KindInvalidFieldValue:
		return fmt.Sprintf("Invalid value for %s: %q", e.Field, e.Value)
	case KindStoreOperationFailed:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "store operation failed"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a RowError against the sentinel of its kind.
func (e *RowError) Is(target error) bool {
	switch e.Kind {
	case KindMissingRequiredField:
		return target == ErrMissingRequiredField
	case KindReferenceNotFound:
		return target == ErrReferenceNotFound
	case KindInvalidFieldValue:
		return target == ErrInvalidFieldValue
	case KindStoreOperationFailed:
		return target == ErrStoreOperationFailed
	}
	return false
}

func missingField(field string) *RowError {
	return &RowError{Kind: KindMissingRequiredField, Field: field}
}

func referenceNotFound(value string) *RowError {
	return &RowError{Kind: KindReferenceNotFound, Field: "category_name", Value: value}
}

func invalidValue(field, value string) *RowError {
	return &RowError{Kind: KindInvalidFieldValue, Field: field, Value: value}
}

// storeFailure converts an error returned by the EntityStore. Errors that make
// the whole store unusable abort the batch; everything else stays row-scoped.
func storeFailure(err error) error {
	if isAbort(err) {
		return err
	}
	return &RowError{Kind: KindStoreOperationFailed, Err: err}
}

func isAbort(err error) bool {
	return errors.Is(err, ErrBatchAborted) ||
		errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
