package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUsage        Kind = "usage"
	KindConfig       Kind = "config"
	KindPolicy       Kind = "policy"
	KindPathNotFound Kind = "path_not_found"
	KindRead         Kind = "read"
	KindInvalidRatio Kind = "invalid_ratio"
	KindWrite        Kind = "write"
	KindInternal     Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func New(kind Kind, message string, cause error) error {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func NewUsage(message string) error {
	return New(KindUsage, message, nil)
}

func NewConfig(message string, cause error) error {
	return New(KindConfig, message, cause)
}

func NewPolicy(message string) error {
	return New(KindPolicy, message, nil)
}

// NewPathNotFound reports an invalid collection root.
func NewPathNotFound(path string, cause error) error {
	return New(KindPathNotFound, "root path is not a readable directory: "+path, cause)
}

func NewRead(path string, cause error) error {
	return New(KindRead, "failed to read "+path, cause)
}

func NewInvalidRatio(ratio float64) error {
	return New(KindInvalidRatio, fmt.Sprintf("validation ratio %v is outside [0.0, 1.0]", ratio), nil)
}

func NewWrite(path string, cause error) error {
	return New(KindWrite, "failed to write "+path, cause)
}

func NewInternal(message string, cause error) error {
	return New(KindInternal, message, cause)
}

// KindOf returns the Kind of the first AppError in err's chain, or "" if none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsUsage(err error) bool {
	return IsKind(err, KindUsage)
}
