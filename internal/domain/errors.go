package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can pick a status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrClubNotFound       = &Error{Kind: KindNotFound, Message: "Club not found"}
	ErrEventNotFound      = &Error{Kind: KindNotFound, Message: "Event not found"}
	ErrMemberNotFound     = &Error{Kind: KindNotFound, Message: "Member request not found"}
	ErrDuplicateEmail     = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrDuplicateClubName  = &Error{Kind: KindConflict, Message: "Club name already exists"}
	ErrAlreadyMember      = &Error{Kind: KindInvalidInput, Message: "Already requested or member"}
	ErrAlreadyVolunteer   = &Error{Kind: KindInvalidInput, Message: "Already a volunteer"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrMissingToken       = &Error{Kind: KindUnauthorized, Message: "No token provided"}
	ErrTokenExpired       = &Error{Kind: KindUnauthorized, Message: "Token expired"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Invalid token"}
	ErrAuthRequired       = &Error{Kind: KindUnauthorized, Message: "Authentication required"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Forbidden: Insufficient permissions"}
)

// Invalid returns an InvalidInput error with a client-facing message.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns a Conflict error with a client-facing message.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Forbidden returns a Forbidden error with a client-facing message.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf reports the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first *Error in err's chain.
// Unclassified errors yield a generic message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}
