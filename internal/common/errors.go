package common

import (
	"errors"
	"net/http"
)

// Kind classifies an Error. The set is closed: every failure the API reports
// to a client is one of these kinds, and anything else is an internal error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindMalformedID
	KindNotFound
	KindAuth
)

// Status returns the HTTP status code a failure of this kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindMalformedID:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMalformedID:
		return "malformed_id"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrMalformedID    = &Error{Kind: KindMalformedID, Message: "malformatted id"}
	ErrRecordNotFound = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrInvalidToken   = &Error{Kind: KindAuth, Message: "invalid token"}
)

func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewAuthError(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// KindOf reports the kind of err, or KindInternal when err does not wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
