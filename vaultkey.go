// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"crypto"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/aead"
	"github.com/bytemare/vaultkey/internal/kdf"
)

// Secret geometry, in bytes.
const (
	// SecretLength is the length of the local blob, the derived session keys,
	// and the vault keyset key.
	SecretLength = internal.SecretLength

	// BlockIVLength is the length of the vault keyset and chaps IVs.
	BlockIVLength = internal.BlockIVLength

	// MainKeyLength is the length of the stash main key and of every key
	// wrapping it.
	MainKeyLength = aead.KeySize

	// FileSystemKeyLength is the length of the stash's filesystem encryption
	// secret.
	FileSystemKeyLength = 64

	// ResetSecretLength is the length of the stash's reset secret.
	ResetSecretLength = 32
)

var (
	errSaltLength    = errors.New("salt length must be at least 8 bytes")
	errDeviceRetries = errors.New("device retries must be at least 1")
)

// Configuration holds the tunables of the key derivation core. The zero value
// is not usable; start from DefaultConfiguration and override fields as
// needed. A Configuration is not tied to persisted state and can differ
// between installations, except for the scrypt cost parameters, which must
// match the values the state was created with.
type Configuration struct {
	// Logger receives structured events: retry attempts, degraded outputs,
	// skipped key blocks. Defaults to a disabled logger.
	Logger zerolog.Logger `json:"-"`

	// ScryptN, ScryptR, and ScryptP are the scrypt cost parameters of the
	// secret schedule. ScryptN must be a power of two.
	ScryptN int `json:"sn"`
	ScryptR int `json:"sr"`
	ScryptP int `json:"sp"`

	// SaltLength is the length of freshly generated salts.
	SaltLength int `json:"salt"`

	// DeviceRetries bounds the attempts against the security module when it
	// fails transiently.
	DeviceRetries int `json:"retries"`

	// PasswordRounds is the round count of the legacy derivation path, used
	// when old-format state does not carry its own.
	PasswordRounds uint32 `json:"rounds"`
}

// DefaultConfiguration returns a new default configuration: scrypt 16384/8/1,
// 16-byte salts, five device attempts, and the historical legacy round count.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Logger:         zerolog.Nop(),
		ScryptN:        16384,
		ScryptR:        8,
		ScryptP:        1,
		SaltLength:     internal.SaltLength,
		DeviceRetries:  5,
		PasswordRounds: 1337,
	}
}

func (c *Configuration) verify() error {
	if err := c.scrypt().Validate(); err != nil {
		return ErrConfiguration.Join(err)
	}

	if c.SaltLength < kdf.LegacySaltSize {
		return ErrConfiguration.Join(errSaltLength)
	}

	if c.PasswordRounds == 0 {
		return ErrConfiguration.Join(kdf.ErrRounds)
	}

	if c.DeviceRetries < 1 {
		return ErrConfiguration.Join(errDeviceRetries)
	}

	return nil
}

func (c *Configuration) scrypt() kdf.Params {
	return kdf.Params{N: c.ScryptN, R: c.ScryptR, P: c.ScryptP}
}

// toInternal verifies the configuration and returns its internal runtime
// representation. The hash instantiations are fixed: the persisted formats
// are bound to HKDF-SHA256 and HMAC-SHA256.
func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}

	return &internal.Configuration{
		KDF:            internal.NewKDF(crypto.SHA256),
		MAC:            internal.NewMac(crypto.SHA256),
		Scrypt:         c.scrypt(),
		Logger:         c.Logger,
		PasswordRounds: c.PasswordRounds,
		SaltLength:     c.SaltLength,
		DeviceRetries:  c.DeviceRetries,
	}, nil
}
