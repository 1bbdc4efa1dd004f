// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrInvalidState indicates a persisted auth block state that is missing,
	// of the wrong variant, or incomplete. Distinct from a wrong credential;
	// never retried.
	ErrInvalidState = ErrCodeStructural.New("invalid auth block state")

	// ErrMalformedContainer indicates a persisted secret stash container
	// failing structural validation.
	ErrMalformedContainer = ErrCodeStructural.New("malformed stash container")

	// ErrDuplicateWrappingID indicates an attempt to add a wrapped key block
	// under a wrapping ID that is already present.
	ErrDuplicateWrappingID = ErrCodeStructural.New("wrapping id already present")

	// ErrUnknownWrappingID indicates a removal of a wrapped key block that is
	// not present.
	ErrUnknownWrappingID = ErrCodeStructural.New("no wrapped key block with this wrapping id")

	// ErrDerivation indicates that a key derivation computation failed.
	ErrDerivation = ErrCodeDerivation.New("")

	// ErrDevice indicates a non-retriable security module failure.
	ErrDevice = ErrCodeFatalDevice.New("").WithActions(ActionReboot)

	// ErrRetriesExhausted indicates that the security module kept failing
	// transiently until the retry bound was reached.
	ErrRetriesExhausted = ErrCodeFatalDevice.New("security module retries exhausted").
				WithActions(ActionReboot, ActionRetry)

	// ErrKeyMismatch indicates that the security module's key is not the one
	// the persisted state was created with.
	ErrKeyMismatch = ErrCodeFatalDevice.New("security module public key mismatch").
			WithActions(ActionPowerwash)

	// ErrIncorrectCredential indicates that the supplied credential does not
	// unwrap the persisted secret.
	ErrIncorrectCredential = ErrCodeVerification.New("incorrect credential").WithActions(ActionAuth)

	// ErrDecryptionFailed indicates an authenticated decryption failure: a
	// wrong key and a tampered payload are deliberately indistinguishable.
	ErrDecryptionFailed = ErrCodeVerification.New("decryption failed")

	// ErrMainKeyUnwrap indicates that a stash main key could not be unwrapped.
	// An absent wrapping ID and a rejected wrapping key are deliberately
	// indistinguishable.
	ErrMainKeyUnwrap = ErrCodeVerification.New("main key unwrap failed")

	// ErrProtocol indicates an invalid point, a degenerate scalar, or a
	// malformed message in the recovery exchange.
	ErrProtocol = ErrCodeProtocol.New("")
)

// Action is a bit set of recovery hints attached to terminal errors, advising
// the caller's UX layer what could clear the condition.
type Action byte

const (
	// ActionRetry suggests attempting the operation again later.
	ActionRetry Action = 1 << iota

	// ActionReboot suggests rebooting the device.
	ActionReboot

	// ActionPowerwash suggests resetting the device to factory state.
	ActionPowerwash

	// ActionAuth suggests retrying with different credentials.
	ActionAuth
)

// Has returns whether all hints in b are set in a.
func (a Action) Has(b Action) bool {
	return a&b == b
}

// String returns the comma-separated names of the set hints.
func (a Action) String() string {
	if a == 0 {
		return "none"
	}

	names := make([]string, 0, 4)

	for _, hint := range []struct {
		name string
		bit  Action
	}{
		{"retry", ActionRetry},
		{"reboot", ActionReboot},
		{"powerwash", ActionPowerwash},
		{"auth", ActionAuth},
	} {
		if a.Has(hint.bit) {
			names = append(names, hint.name)
		}
	}

	return strings.Join(names, ",")
}

// ErrorCode represents the kind of a failure in the key derivation core. It is
// used to categorize errors and provide a consistent way to handle error
// conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeStructural represents malformed or missing persisted state.
	// Always fatal, never retried.
	ErrCodeStructural

	// ErrCodeDerivation represents a failed key derivation computation.
	ErrCodeDerivation

	// ErrCodeRetriableDevice represents a transient security module failure,
	// retried internally up to the configured bound.
	ErrCodeRetriableDevice

	// ErrCodeFatalDevice represents a non-retriable security module failure,
	// including exhausted retries.
	ErrCodeFatalDevice

	// ErrCodeVerification represents an authentication failure of encrypted
	// material: wrong credential and tampering are not distinguished.
	ErrCodeVerification

	// ErrCodeProtocol represents an invalid input to the recovery protocol.
	ErrCodeProtocol
)

// New creates a new Error with the given message and errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "unknown_error"
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeStructural:
		return "structural_error"
	case ErrCodeDerivation:
		return "derivation_error"
	case ErrCodeRetriableDevice:
		return "retriable_device_error"
	case ErrCodeFatalDevice:
		return "fatal_device_error"
	case ErrCodeVerification:
		return "verification_error"
	case ErrCodeProtocol:
		return "protocol_error"
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type. It returns a string representation of the error code.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	var vaultErr *Error
	if errors.As(target, &vaultErr) {
		return byte(c) == byte(vaultErr.Code)
	}

	return false
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case ErrorCode:
		return true
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error represents a failure in the key derivation core, carrying its kind,
// recovery hints, and the chain of causes.
type Error struct {
	Err     error
	Message string
	Actions Action
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we return only the concise form of the
// current error, without the cause. The cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided error to the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// WithActions returns a copy of e carrying the given recovery hints in
// addition to any it already has. The receiver is left untouched, so
// predefined errors can be specialized at the call site.
func (e *Error) WithActions(actions ...Action) *Error {
	n := *e
	for _, a := range actions {
		n.Actions |= a
	}

	return &n
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface for the Error type.
func (e *Error) MarshalZerologObject(event *zerolog.Event) {
	event.Int("code", int(e.Code)).
		Str("code_name", e.Code.String()).
		Str("message", e.Message)

	if e.Actions != 0 {
		event.Str("actions", e.Actions.String())
	}

	if e.Err != nil {
		event.AnErr("error", e.Err)
	}
}

// Format implements the fmt.Formatter interface for the Error type. It allows formatting the error in different ways.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // human-readable
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error()) //nolint:errcheck // safe to ignore // quoted string
	default:
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // safe default
	}
}

// Is implements the errors.Is method for the Error type. It allows checking if the error is of a specific ErrorCode.
func (e *Error) Is(target error) bool {
	return e.Code.Is(target) && strings.EqualFold(e.Message, target.Error())
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err) //nolint:errcheck // safe to ignore

	// Check for errors that can unwrap multiple errors
	var multiUnwrapper interface{ Unwrap() []error }
	if errors.As(err, &multiUnwrapper) {
		for _, child := range multiUnwrapper.Unwrap() {
			printV(f, child, depth+1)
		}

		return
	}

	// Check for errors that can unwrap a single error
	var singleUnwrapper interface{ Unwrap() error }
	if errors.As(err, &singleUnwrapper) {
		printV(f, singleUnwrapper.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	// header with code
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String()) //nolint:errcheck // safe to ignore
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message) //nolint:errcheck // safe to ignore
	}

	if e.Actions != 0 {
		_, _ = fmt.Fprintf(f, " actions=%s", e.Actions.String()) //nolint:errcheck // safe to ignore
	}

	// unwrap error chain
	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}
