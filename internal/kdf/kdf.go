// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package kdf provides the credential stretching functions: the scrypt secret
// schedule used for all new state, and the historical round-based construction
// kept to read old-format state.
package kdf

import (
	"crypto/sha1" //nolint:gosec // round-based compatibility path, not used for new state
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
)

var (
	// ErrEmptyCredential indicates an empty credential input.
	ErrEmptyCredential = errors.New("empty credential")

	// ErrEmptySalt indicates an empty salt input.
	ErrEmptySalt = errors.New("empty salt")

	// ErrLength indicates a non-positive requested output length.
	ErrLength = errors.New("requested output length must be positive")

	// ErrParameters indicates invalid scrypt cost parameters.
	ErrParameters = errors.New("invalid scrypt cost parameters")

	// ErrShortSalt indicates a salt too short for the round-based construction.
	ErrShortSalt = errors.New("salt shorter than the round-based construction requires")

	// ErrRounds indicates a zero round count for the round-based construction.
	ErrRounds = errors.New("round count must be positive")
)

// Params holds the scrypt cost parameters.
type Params struct {
	N, R, P int
}

// Validate returns ErrParameters if the cost parameters cannot be fed to scrypt.
func (p Params) Validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 || p.R <= 0 || p.P <= 0 {
		return fmt.Errorf("%w: n=%d r=%d p=%d", ErrParameters, p.N, p.R, p.P)
	}

	return nil
}

type stretcher interface {
	// Harden uses default parameters for the key derivation function over the input password and salt.
	Harden(password, salt []byte, length int) []byte

	// Parameterize replaces the function's parameters with the new ones.
	Parameterize(parameters ...int)
}

func newScrypt(p Params) stretcher {
	s := stretcher(ksf.Scrypt.Get())
	s.Parameterize(p.N, p.R, p.P)

	return s
}

// DeriveSecrets stretches the credential over the salt once, for the summed
// requested lengths, and splits the output in order. Identical inputs always
// produce identical secrets.
func DeriveSecrets(credential, salt []byte, p Params, lengths ...int) ([][]byte, error) {
	if len(credential) == 0 {
		return nil, ErrEmptyCredential
	}

	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	total := 0

	for _, l := range lengths {
		if l <= 0 {
			return nil, ErrLength
		}

		total += l
	}

	if total == 0 {
		return nil, ErrLength
	}

	out := newScrypt(p).Harden(credential, salt, total)

	secrets := make([][]byte, len(lengths))
	offset := 0

	for i, l := range lengths {
		secrets[i] = out[offset : offset+l]
		offset += l
	}

	return secrets, nil
}

// Sizes of the round-based construction's inputs and outputs, in bytes.
const (
	// LegacySaltSize is the number of salt bytes the round-based construction
	// consumes. Longer salts contribute only their first LegacySaltSize bytes,
	// matching the on-disk format this path exists to read.
	LegacySaltSize = 8

	// LegacyKeySize is the derived AES key length.
	LegacyKeySize = 32

	// LegacyIVSize is the derived IV length.
	LegacyIVSize = 16
)

// LegacySecrets derives an AES key and IV from the credential with the
// round-based digest chain used by old-format state: each output block is
// SHA-1(previous block || credential || salt prefix) rehashed rounds times in
// total. This path is read-only compatibility and never used for new state.
func LegacySecrets(credential, salt []byte, rounds uint32) (key, iv []byte, err error) {
	if len(credential) == 0 {
		return nil, nil, ErrEmptyCredential
	}

	if len(salt) < LegacySaltSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrShortSalt, len(salt), LegacySaltSize)
	}

	if rounds == 0 {
		return nil, nil, ErrRounds
	}

	prefix := salt[:LegacySaltSize]
	need := LegacyKeySize + LegacyIVSize
	derived := make([]byte, 0, need+sha1.Size)

	var prev []byte

	for len(derived) < need {
		h := sha1.New() //nolint:gosec // see package doc
		h.Write(prev)
		h.Write(credential)
		h.Write(prefix)
		block := h.Sum(nil)

		for i := uint32(1); i < rounds; i++ {
			next := sha1.Sum(block) //nolint:gosec // see package doc
			block = next[:]
		}

		derived = append(derived, block...)
		prev = block
	}

	return derived[:LegacyKeySize], derived[LegacyKeySize:need], nil
}
