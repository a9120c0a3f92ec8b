package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure so callers can decide between retrying, reporting a
// bad request, or degrading a check to a low-confidence finding.
type Kind string

const (
	KindNotFound               Kind = "not_found"
	KindMissingField           Kind = "missing_field"
	KindInvalidInput           Kind = "invalid_input"
	KindTranslationUnavailable Kind = "translation_unavailable"
	KindDependencyUnavailable  Kind = "dependency_unavailable"
)

type classifiedError struct {
	kind  Kind
	code  string
	hint  string
	cause error
}

func (e *classifiedError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}

func Wrap(cause error, kind Kind, code, hint string) error {
	if cause == nil {
		return nil
	}
	return &classifiedError{kind: kind, code: code, hint: hint, cause: cause}
}

// New builds a classified error with a formatted message and no hint.
func New(kind Kind, code, format string, args ...any) error {
	return Wrap(fmt.Errorf(format, args...), kind, code, "")
}

func KindOf(err error) Kind {
	var classified *classifiedError
	if stderrors.As(err, &classified) {
		return classified.kind
	}
	return ""
}

func CodeOf(err error) string {
	var classified *classifiedError
	if stderrors.As(err, &classified) {
		return classified.code
	}
	return ""
}

func HintOf(err error) string {
	var classified *classifiedError
	if stderrors.As(err, &classified) {
		return classified.hint
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
