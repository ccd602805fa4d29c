// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"errors"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Kind categorizes gateway failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnavailable
	KindRequest
	KindInvalidResponse
	KindEmptyResponse
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRequest:
		return "request"
	case KindInvalidResponse:
		return "invalid_response"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// Error is a failure from the model boundary.
type Error struct {
	Kind     Kind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel gateway errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Provider == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinel errors for easy checking.
var (
	ErrEmptyResponse   = &Error{Kind: KindEmptyResponse, Message: "the model returned an empty response"}
	ErrUnavailable     = &Error{Kind: KindUnavailable, Message: "the model is unavailable"}
	ErrInvalidRequest  = &Error{Kind: KindRequest, Message: "invalid request"}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse, Message: "invalid response from model"}
)

// wrap attaches provider context to a provider error.
func wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}
	msg := provider + " request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = provider + " request timed out"
	}
	return &Error{Kind: KindUnavailable, Provider: provider, Message: msg, Err: err}
}

// IsEmptyResponse reports whether err is an empty-result failure.
func IsEmptyResponse(err error) bool {
	return errors.Is(err, ErrEmptyResponse)
}

// IsInvalidRequest reports whether err was caused by a malformed request.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
