// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static info strings for the key derivation chains.
package tag

// These strings are the static HKDF info values used throughout the recovery
// protocol. They must match on both sides of each key agreement and are never
// reused across purposes.
const (
	// HSMPayload derives the symmetric key protecting the HSM payload.
	HSMPayload = "HSM-Payload Key"

	// RequestPayload derives the symmetric key protecting the recovery request payload.
	RequestPayload = "REQUEST-Payload Key"

	// ResponsePayload derives the symmetric key protecting the recovery response payload.
	ResponsePayload = "RESPONSE-Payload Key"

	// RecoveryKey derives the vault wrapping key from a recovery Diffie-Hellman point.
	RecoveryKey = "CryptoHome Wrapping Key"
)
