// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package kdf_test

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // verifying the round-based compatibility path
	"errors"
	"testing"

	"github.com/bytemare/vaultkey/internal/kdf"
)

var (
	testParams     = kdf.Params{N: 16, R: 1, P: 1}
	testCredential = []byte("correct horse battery staple")
	testSalt       = []byte("0123456789abcdef")
)

func TestDeriveSecrets(t *testing.T) {
	secrets, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, 32, 32, 16)
	if err != nil {
		t.Fatal(err)
	}

	if len(secrets) != 3 {
		t.Fatalf("want 3 secrets, got %d", len(secrets))
	}

	for i, want := range []int{32, 32, 16} {
		if len(secrets[i]) != want {
			t.Errorf("secret %d: want %d bytes, got %d", i, want, len(secrets[i]))
		}
	}

	// Identical inputs must produce identical secrets.
	again, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, 32, 32, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i := range secrets {
		if !bytes.Equal(secrets[i], again[i]) {
			t.Errorf("secret %d is not deterministic", i)
		}
	}

	// The secrets are one stretched output split in order, so a single
	// request for the summed length must reproduce the concatenation.
	whole, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, 80)
	if err != nil {
		t.Fatal(err)
	}

	joined := bytes.Join(secrets, nil)
	if !bytes.Equal(whole[0], joined) {
		t.Error("split secrets must come from a single stretched output")
	}
}

func TestDeriveSecrets_Sensitivity(t *testing.T) {
	reference, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, 32)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name       string
		credential []byte
		salt       []byte
		params     kdf.Params
	}{
		{name: "credential", credential: []byte("incorrect horse"), salt: testSalt, params: testParams},
		{name: "salt", credential: testCredential, salt: []byte("fedcba9876543210"), params: testParams},
		{name: "cost", credential: testCredential, salt: testSalt, params: kdf.Params{N: 32, R: 1, P: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			secrets, err := kdf.DeriveSecrets(tc.credential, tc.salt, tc.params, 32)
			if err != nil {
				t.Fatal(err)
			}

			if bytes.Equal(secrets[0], reference[0]) {
				t.Errorf("changing the %s must change the output", tc.name)
			}
		})
	}
}

func TestDeriveSecrets_Errors(t *testing.T) {
	if _, err := kdf.DeriveSecrets(nil, testSalt, testParams, 32); !errors.Is(err, kdf.ErrEmptyCredential) {
		t.Errorf("want %q, got %v", kdf.ErrEmptyCredential, err)
	}

	if _, err := kdf.DeriveSecrets(testCredential, nil, testParams, 32); !errors.Is(err, kdf.ErrEmptySalt) {
		t.Errorf("want %q, got %v", kdf.ErrEmptySalt, err)
	}

	if _, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, 32, 0); !errors.Is(err, kdf.ErrLength) {
		t.Errorf("want %q, got %v", kdf.ErrLength, err)
	}

	if _, err := kdf.DeriveSecrets(testCredential, testSalt, testParams, -1); !errors.Is(err, kdf.ErrLength) {
		t.Errorf("want %q, got %v", kdf.ErrLength, err)
	}

	if _, err := kdf.DeriveSecrets(testCredential, testSalt, testParams); !errors.Is(err, kdf.ErrLength) {
		t.Errorf("want %q, got %v", kdf.ErrLength, err)
	}
}

func TestParams_Validate(t *testing.T) {
	valid := []kdf.Params{
		{N: 2, R: 1, P: 1},
		{N: 16, R: 1, P: 1},
		{N: 16384, R: 8, P: 1},
	}

	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("params %+v must be valid, got %v", p, err)
		}
	}

	invalid := []kdf.Params{
		{N: 0, R: 1, P: 1},
		{N: 1, R: 1, P: 1},
		{N: 3, R: 1, P: 1},
		{N: 48, R: 1, P: 1},
		{N: 16, R: 0, P: 1},
		{N: 16, R: 1, P: 0},
		{N: 16, R: -1, P: 1},
	}

	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, kdf.ErrParameters) {
			t.Errorf("params %+v: want %q, got %v", p, kdf.ErrParameters, err)
		}
	}
}

func TestLegacySecrets(t *testing.T) {
	key, iv, err := kdf.LegacySecrets(testCredential, testSalt, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(key) != kdf.LegacyKeySize || len(iv) != kdf.LegacyIVSize {
		t.Fatalf("want %d and %d bytes, got %d and %d", kdf.LegacyKeySize, kdf.LegacyIVSize, len(key), len(iv))
	}

	key2, iv2, err := kdf.LegacySecrets(testCredential, testSalt, 3)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(key, key2) || !bytes.Equal(iv, iv2) {
		t.Error("the derivation is not deterministic")
	}

	otherRounds, _, err := kdf.LegacySecrets(testCredential, testSalt, 2)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(key, otherRounds) {
		t.Error("changing the round count must change the output")
	}

	otherCredential, _, err := kdf.LegacySecrets([]byte("incorrect horse"), testSalt, 3)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(key, otherCredential) {
		t.Error("changing the credential must change the output")
	}
}

func TestLegacySecrets_SaltPrefix(t *testing.T) {
	// Only the first 8 salt bytes take part, matching the on-disk format.
	key, iv, err := kdf.LegacySecrets(testCredential, []byte("01234567"), 3)
	if err != nil {
		t.Fatal(err)
	}

	longKey, longIV, err := kdf.LegacySecrets(testCredential, []byte("01234567 and then some"), 3)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(key, longKey) || !bytes.Equal(iv, longIV) {
		t.Error("salt bytes past the prefix must not contribute")
	}

	otherKey, _, err := kdf.LegacySecrets(testCredential, []byte("76543210"), 3)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(key, otherKey) {
		t.Error("changing the salt prefix must change the output")
	}
}

func TestLegacySecrets_Chain(t *testing.T) {
	prefix := testSalt[:kdf.LegacySaltSize]

	// With a single round each block is one unchained digest, so the chain
	// can be spelled out: block_i = SHA-1(block_{i-1} || credential || prefix).
	h := sha1.New() //nolint:gosec // verifying the compatibility path
	h.Write(testCredential)
	h.Write(prefix)
	block1 := h.Sum(nil)

	h = sha1.New() //nolint:gosec // verifying the compatibility path
	h.Write(block1)
	h.Write(testCredential)
	h.Write(prefix)
	block2 := h.Sum(nil)

	h = sha1.New() //nolint:gosec // verifying the compatibility path
	h.Write(block2)
	h.Write(testCredential)
	h.Write(prefix)
	block3 := h.Sum(nil)

	derived := bytes.Join([][]byte{block1, block2, block3}, nil)

	key, iv, err := kdf.LegacySecrets(testCredential, testSalt, 1)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(key, derived[:kdf.LegacyKeySize]) {
		t.Error("the key must be the first 32 bytes of the digest chain")
	}

	if !bytes.Equal(iv, derived[kdf.LegacyKeySize:kdf.LegacyKeySize+kdf.LegacyIVSize]) {
		t.Error("the iv must follow the key in the digest chain")
	}
}

func TestLegacySecrets_Errors(t *testing.T) {
	if _, _, err := kdf.LegacySecrets(nil, testSalt, 3); !errors.Is(err, kdf.ErrEmptyCredential) {
		t.Errorf("want %q, got %v", kdf.ErrEmptyCredential, err)
	}

	if _, _, err := kdf.LegacySecrets(testCredential, []byte("short"), 3); !errors.Is(err, kdf.ErrShortSalt) {
		t.Errorf("want %q, got %v", kdf.ErrShortSalt, err)
	}

	if _, _, err := kdf.LegacySecrets(testCredential, testSalt, 0); !errors.Is(err, kdf.ErrRounds) {
		t.Errorf("want %q, got %v", kdf.ErrRounds, err)
	}
}
