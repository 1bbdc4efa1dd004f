// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate the vault key
// derivation core that are not part of the public API.
package internal

import (
	cryptorand "crypto/rand"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bytemare/vaultkey/internal/kdf"
)

// Lengths of the secrets handled by the auth blocks, in bytes.
const (
	// SecretLength is the length of the local blob, the session keys, and the
	// vault keyset key.
	SecretLength = 32

	// BlockIVLength is the length of the vault keyset and chaps IVs.
	BlockIVLength = 16

	// SaltLength is the length of freshly generated auth block salts.
	SaltLength = 16
)

// RandomBytes returns random bytes of length len (wrapper for crypto/rand).
func RandomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := cryptorand.Read(r); err != nil {
		// We can as well not panic and try again in a loop.
		panic(fmt.Errorf("unexpected error in generating random bytes : %w", err))
	}

	return r
}

// Configuration is the internal representation of the core's configuration,
// carried by value through every operation.
type Configuration struct {
	KDF            *KDF
	MAC            *Mac
	Scrypt         kdf.Params
	Logger         zerolog.Logger
	PasswordRounds uint32
	SaltLength     int
	DeviceRetries  int
}

// SecretSchedule derives the session key, the KDF key, and the block IV from
// the credential and salt in a single stretched pass.
func (c *Configuration) SecretSchedule(credential, salt []byte) (aesSKey, kdfSKey, iv []byte, err error) {
	secrets, err := kdf.DeriveSecrets(credential, salt, c.Scrypt, SecretLength, SecretLength, BlockIVLength)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("secret schedule: %w", err)
	}

	return secrets[0], secrets[1], secrets[2], nil
}
