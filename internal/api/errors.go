package api

import (
	"context"
	"errors"
	"net/http"
)

// Kind classifies an operation failure. Every error leaving this package is
// an *Error with one of these kinds; raw transport errors never escape.
type Kind int

const (
	// KindAuthRequired means no token was available; raised before any
	// network I/O.
	KindAuthRequired Kind = iota
	// KindSessionExpired maps a 401 response. Consumers flip their
	// authenticated flag and send the user back to login.
	KindSessionExpired
	// KindForbidden maps a 403 response.
	KindForbidden
	// KindCanceled marks a request superseded via its context. Never
	// surfaced to the user.
	KindCanceled
	// KindGeneric is everything else, carrying the most specific message
	// available.
	KindGeneric
)

const (
	msgAuthRequired   = "Authentication required. Please log in."
	msgSessionExpired = "Your session has expired. Please log in again."
	msgForbidden      = "You do not have permission to perform this action."
)

type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

// authRequired is the failure for operations attempted with no token in
// either store.
func authRequired() *Error {
	return &Error{Kind: KindAuthRequired, Message: msgAuthRequired}
}

// classify normalizes a transport-level error. Context cancellation becomes
// KindCanceled so supersession never shows up as a user-visible failure.
func classify(err error, fallback string) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Message: "request canceled"}
	}
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindGeneric, Message: msg}
}

// classifyStatus normalizes a non-2xx HTTP response.
func classifyStatus(status int, serverMsg, fallback string) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindSessionExpired, Message: msgSessionExpired, Status: status}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, Message: msgForbidden, Status: status}
	}
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindGeneric, Message: msg, Status: status}
}

func IsAuthRequired(err error) bool   { return isKind(err, KindAuthRequired) }
func IsSessionExpired(err error) bool { return isKind(err, KindSessionExpired) }
func IsForbidden(err error) bool      { return isKind(err, KindForbidden) }
func IsCanceled(err error) bool       { return isKind(err, KindCanceled) }

func isKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
