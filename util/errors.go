package util

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by every feature. Features wrap them so that
// the message stays specific ("swap not found") while errors.Is still works.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// ValidationError is an operation failure caused by caller input
type ValidationError struct {
	Message string
}

func (ve *ValidationError) Error() string {
	return ve.Message
}

func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// KindError carries a human readable message while still matching one of the
// sentinel kinds above with errors.Is
type KindError struct {
	Kind    error
	Message string
}

func NewKindError(kind error, message string) *KindError {
	return &KindError{Kind: kind, Message: message}
}

func (ke *KindError) Error() string {
	return ke.Message
}

func (ke *KindError) Unwrap() error {
	return ke.Kind
}
