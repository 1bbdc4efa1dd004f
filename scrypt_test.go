// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey_test

import (
	"bytes"
	"testing"

	"github.com/bytemare/vaultkey"
	"github.com/bytemare/vaultkey/internal/kdf"
)

func newScryptBlock(t *testing.T, conf *vaultkey.Configuration) *vaultkey.ScryptBlock {
	t.Helper()

	block, err := vaultkey.NewScryptBlock(conf)
	if err != nil {
		t.Fatal(err)
	}

	return block
}

func TestScryptBlock_CreateDerive(t *testing.T) {
	conf := testConfiguration()
	block := newScryptBlock(t, conf)

	state, created, err := block.Create(&vaultkey.AuthInput{Credential: testCredential})
	if err != nil {
		t.Fatal(err)
	}

	scryptState := state.Scrypt
	if scryptState == nil {
		t.Fatal("expected a scrypt state variant")
	}

	if len(scryptState.Salt) != conf.SaltLength {
		t.Errorf("wrong salt length: want %d, got %d", conf.SaltLength, len(scryptState.Salt))
	}

	if scryptState.WorkFactor != uint32(conf.ScryptN) ||
		scryptState.BlockSize != uint32(conf.ScryptR) ||
		scryptState.ParallelFactor != uint32(conf.ScryptP) {
		t.Error("state does not record the work parameters used")
	}

	if len(created.VKK) != vaultkey.SecretLength ||
		len(created.VKKIV) != vaultkey.BlockIVLength ||
		len(created.ChapsIV) != vaultkey.BlockIVLength {
		t.Error("wrong key material geometry")
	}

	derived, err := block.Derive(&vaultkey.AuthInput{Credential: testCredential}, state)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(derived.VKK, created.VKK) ||
		!bytes.Equal(derived.VKKIV, created.VKKIV) ||
		!bytes.Equal(derived.ChapsIV, created.ChapsIV) {
		t.Error("derive did not reproduce the created key material")
	}
}

// A wrong credential is not an error here: it derives different key material,
// and only the vault layer can tell.
func TestScryptBlock_WrongCredential(t *testing.T) {
	block := newScryptBlock(t, testConfiguration())

	state, created, err := block.Create(&vaultkey.AuthInput{Credential: testCredential})
	if err != nil {
		t.Fatal(err)
	}

	derived, err := block.Derive(&vaultkey.AuthInput{Credential: []byte("not the credential")}, state)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(derived.VKK, created.VKK) {
		t.Error("different credentials must not derive the same vkk")
	}
}

// Persisted work parameters win over the configured ones, so old states stay
// readable after a configuration change.
func TestScryptBlock_PersistedParameters(t *testing.T) {
	conf := testConfiguration()
	block := newScryptBlock(t, conf)

	state, created, err := block.Create(&vaultkey.AuthInput{Credential: testCredential})
	if err != nil {
		t.Fatal(err)
	}

	harder := testConfiguration()
	harder.ScryptN = 32

	derived, err := newScryptBlock(t, harder).Derive(&vaultkey.AuthInput{Credential: testCredential}, state)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(derived.VKK, created.VKK) {
		t.Error("derive must use the persisted work parameters")
	}
}

// States without recorded parameters fall back to the configured ones.
func TestScryptBlock_ParameterFallback(t *testing.T) {
	conf := testConfiguration()
	block := newScryptBlock(t, conf)

	salt := bytes.Repeat([]byte{0x42}, conf.SaltLength)
	state := &vaultkey.AuthBlockState{Scrypt: &vaultkey.ScryptState{Salt: salt}}

	derived, err := block.Derive(&vaultkey.AuthInput{Credential: testCredential}, state)
	if err != nil {
		t.Fatal(err)
	}

	secrets, err := kdf.DeriveSecrets(
		testCredential,
		salt,
		kdf.Params{N: conf.ScryptN, R: conf.ScryptR, P: conf.ScryptP},
		vaultkey.SecretLength,
		vaultkey.BlockIVLength,
		vaultkey.BlockIVLength,
	)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(derived.VKK, secrets[0]) ||
		!bytes.Equal(derived.VKKIV, secrets[1]) ||
		!bytes.Equal(derived.ChapsIV, secrets[2]) {
		t.Error("fallback derivation does not match the configured parameters")
	}
}

func TestScryptBlock_Errors(t *testing.T) {
	block := newScryptBlock(t, testConfiguration())

	if _, _, err := block.Create(&vaultkey.AuthInput{}); err == nil {
		t.Error("expected an error for an empty credential")
	} else {
		expectCode(t, err, vaultkey.ErrCodeDerivation)
	}

	input := &vaultkey.AuthInput{Credential: testCredential}

	if _, err := block.Derive(input, nil); err == nil {
		t.Error("expected an error for a nil state")
	} else {
		expectSentinel(t, err, vaultkey.ErrInvalidState)
	}

	wrong := &vaultkey.AuthBlockState{TPMNotBoundToPCR: &vaultkey.TPMNotBoundToPCRState{}}
	if _, err := block.Derive(input, wrong); err == nil {
		t.Error("expected an error for a foreign state variant")
	} else {
		expectSentinel(t, err, vaultkey.ErrInvalidState)
	}

	empty := &vaultkey.AuthBlockState{Scrypt: &vaultkey.ScryptState{}}
	if _, err := block.Derive(input, empty); err == nil {
		t.Error("expected an error for a state without salt")
	} else {
		expectCode(t, err, vaultkey.ErrCodeStructural)
	}
}
