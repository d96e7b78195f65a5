// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package axerrors defines the typed error kinds shared across the agent
// runtime, so callers can branch on kind with errors.Is instead of
// string-matching messages.
package axerrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories the runtime surfaces.
type Kind string

const (
	// InvalidArgument marks input/callback/config validation failures.
	InvalidArgument Kind = "invalid_argument"
	// InvalidFormat marks YAML/plan parsing failures.
	InvalidFormat Kind = "invalid_format"
	// ResourceUnavailable marks an uninitialized or missing resource.
	ResourceUnavailable Kind = "resource_unavailable"
	// Timeout marks a code-execution or LLM call that exceeded its budget.
	Timeout Kind = "timeout"
	// DepthExceeded marks recursion past the configured maximum depth.
	DepthExceeded Kind = "depth_exceeded"
	// CancellationRequested marks a cancelled promise or context.
	CancellationRequested Kind = "cancellation_requested"
	// InternalError marks an unexpected failure.
	InternalError Kind = "internal_error"
)

// sentinel values so callers can errors.Is(err, axerrors.ErrInvalidArgument)
var (
	ErrInvalidArgument        = errors.New(string(InvalidArgument))
	ErrInvalidFormat          = errors.New(string(InvalidFormat))
	ErrResourceUnavailable    = errors.New(string(ResourceUnavailable))
	ErrTimeout                = errors.New(string(Timeout))
	ErrDepthExceeded          = errors.New(string(DepthExceeded))
	ErrCancellationRequested = errors.New(string(CancellationRequested))
	ErrInternalError          = errors.New(string(InternalError))
)

func sentinelFor(k Kind) error {
	switch k {
	case InvalidArgument:
		return ErrInvalidArgument
	case InvalidFormat:
		return ErrInvalidFormat
	case ResourceUnavailable:
		return ErrResourceUnavailable
	case Timeout:
		return ErrTimeout
	case DepthExceeded:
		return ErrDepthExceeded
	case CancellationRequested:
		return ErrCancellationRequested
	default:
		return ErrInternalError
	}
}

// Error is a typed runtime error carrying its Kind for errors.Is/As
// dispatch and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinelFor(e.Kind)
}

// Is lets errors.Is(err, axerrors.ErrTimeout) succeed for any *Error of
// that Kind, regardless of whether an inner cause was also set.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New creates a typed error for op/message without an inner cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates a typed error for op/message wrapping cause.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error; returns InternalError otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InternalError
}
