// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import "errors"

// KeyHandle designates a key loaded in the security module. Handles are only
// meaningful to the module that issued them and expire when the key is
// unloaded.
type KeyHandle uint32

// SecurityModule is the boundary to the hardware security module holding the
// device wrapping key. Implementations report failures as DeviceError so
// callers can tell transient conditions from definitive ones; an error that
// is not a DeviceError is treated as fatal.
type SecurityModule interface {
	// EncryptBlob encrypts plaintext under the key designated by handle,
	// bound to sessionKey. The ciphertext can only be opened by DecryptBlob
	// on the same module with the same session key.
	EncryptBlob(handle KeyHandle, plaintext, sessionKey []byte) ([]byte, error)

	// DecryptBlob reverses EncryptBlob. The module verifies sessionKey, so a
	// definitive rejection means the session key is wrong.
	DecryptBlob(handle KeyHandle, ciphertext, sessionKey []byte) ([]byte, error)

	// GetPublicKeyHash returns a fingerprint of the public half of the key
	// designated by handle.
	GetPublicKeyHash(handle KeyHandle) ([]byte, error)
}

// KeyLoader caches the handle of the device wrapping key and knows how to
// (re)load it into the security module.
type KeyLoader interface {
	// HasKey reports whether a key is currently loaded.
	HasKey() bool

	// Init creates or loads the key. It is called when no key is loaded yet.
	Init() error

	// ReloadKey evicts the cached handle and loads the key again. It is
	// called between retries after a transient failure.
	ReloadKey() error

	// Key returns the handle of the loaded key. Only valid after HasKey
	// reports true.
	Key() KeyHandle
}

// DeviceErrorClass partitions security module failures by how the caller is
// expected to react.
type DeviceErrorClass byte

const (
	// DeviceUnavailable indicates the key was not loaded when the operation
	// ran. Loading the key and retrying can succeed.
	DeviceUnavailable DeviceErrorClass = iota + 1

	// DeviceRetriable indicates a transient module failure. Reloading the
	// key and retrying can succeed.
	DeviceRetriable

	// DeviceFatal indicates a definitive failure no retry will clear.
	DeviceFatal
)

// String implements fmt.Stringer.
func (c DeviceErrorClass) String() string {
	switch c {
	case DeviceUnavailable:
		return "device_unavailable"
	case DeviceRetriable:
		return "device_retriable"
	case DeviceFatal:
		return "device_fatal"
	default:
		return "device_error"
	}
}

// DeviceError wraps a security module or key loader failure with its retry
// class.
type DeviceError struct {
	Err   error
	Class DeviceErrorClass
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	if e.Err == nil {
		return e.Class.String()
	}

	return e.Class.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// classifyDeviceError returns the class err was reported with. Errors that
// carry no class are definitive.
func classifyDeviceError(err error) DeviceErrorClass {
	var deviceErr *DeviceError
	if errors.As(err, &deviceErr) {
		return deviceErr.Class
	}

	return DeviceFatal
}
