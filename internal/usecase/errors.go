package usecase

import (
	"errors"
	"strings"
)

// DomainError is a business rule rejection the caller can act on.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure (remote, store, queue).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

const (
	CodeRemoteFailure = "REMOTE_FAILURE"
	CodeStoreFailure  = "STORE_FAILURE"
)

// IsRemoteFailure reports whether err came from the simulated remote.
func IsRemoteFailure(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te) && te.Code == CodeRemoteFailure
}

// ValidationFailedError carries every violated field rule.
type ValidationFailedError struct {
	Errors []ValidationError
}

func (e *ValidationFailedError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		parts[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationFailedError) Fields() map[string]string {
	return ErrorsToMap(e.Errors)
}

// reason is the message shown to users: the innermost domain or technical
// message when there is one, the full error text otherwise.
func reason(err error) string {
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Message
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
