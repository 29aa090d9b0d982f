package domain

import (
	"errors"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageAuthRequired         = "authentication credentials were not provided"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Error kinds. Every sentinel returned by a service wraps exactly one of them so the
// HTTP surface can pick a status without knowing individual errors.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrEmptyResult     = errors.New("nothing to do")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func validationError(msg string) error { return &kindError{kind: ErrValidation, msg: msg} }
func notFoundError(msg string) error   { return &kindError{kind: ErrNotFound, msg: msg} }
func forbiddenError(msg string) error  { return &kindError{kind: ErrForbidden, msg: msg} }

var ErrAuthRequired error = &kindError{kind: ErrUnauthenticated, msg: MessageAuthRequired}

// Requester identifies who performs an operation. The zero value is an anonymous requester.
type Requester struct {
	UserID string
}

func Anonymous() Requester { return Requester{} }

func AuthenticatedAs(userID string) Requester { return Requester{UserID: userID} }

func (r Requester) IsAuthenticated() bool { return r.UserID != "" }
