// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package aead provides AES-256-GCM sealing with the IV and tag carried as
// separate fields, matching the persisted container layouts.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"io"
)

// AES-256-GCM geometry, in bytes.
const (
	KeySize = 32
	IVSize  = 12
	TagSize = 16
)

var (
	// ErrKeySize indicates a key of the wrong length.
	ErrKeySize = errors.New("key must be 32 bytes")

	// ErrIVSize indicates an IV of the wrong length.
	ErrIVSize = errors.New("iv must be 12 bytes")

	// ErrTagSize indicates a tag of the wrong length.
	ErrTagSize = errors.New("tag must be 16 bytes")

	// ErrOpen indicates an authentication failure: a wrong key and a tampered
	// payload are deliberately indistinguishable.
	ErrOpen = errors.New("authenticated decryption failed")
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}

	return gcm, nil
}

// Seal encrypts plaintext under key with a fresh random IV, authenticating ad,
// and returns the ciphertext, IV, and tag as separate buffers.
func Seal(key, plaintext, ad []byte) (ciphertext, iv, tag []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	iv = make([]byte, IVSize)
	if _, err := io.ReadFull(cryptorand.Reader, iv); err != nil {
		return nil, nil, nil, fmt.Errorf("iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, ad)
	split := len(sealed) - TagSize

	return sealed[:split], iv, sealed[split:], nil
}

// Open authenticates and decrypts the (ciphertext, iv, tag) triple under key.
// Any authentication failure is reported as ErrOpen.
func Open(key, ciphertext, iv, tag, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d", ErrIVSize, len(iv))
	}

	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d", ErrTagSize, len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, ad)
	if err != nil {
		return nil, ErrOpen
	}

	return plaintext, nil
}
