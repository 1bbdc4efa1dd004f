// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/kdf"
)

// ScryptBlock derives key material from the credential alone, with no
// hardware involved. A wrong credential is not detected here: it yields
// different key material, and the vault layer rejects it when opening the
// keyset.
type ScryptBlock struct {
	conf *internal.Configuration
}

// NewScryptBlock returns a software-only block. If conf is nil, the default
// configuration is used.
func NewScryptBlock(conf *Configuration) (*ScryptBlock, error) {
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	return &ScryptBlock{conf: ip}, nil
}

// Create derives fresh key material from the credential and a random salt,
// and records the salt with the work parameters used.
func (b *ScryptBlock) Create(input *AuthInput) (*AuthBlockState, *KeyBlobs, error) {
	if input == nil || len(input.Credential) == 0 {
		return nil, nil, ErrDerivation.Join(kdf.ErrEmptyCredential)
	}

	salt := internal.RandomBytes(b.conf.SaltLength)

	blobs, err := b.derive(input.Credential, salt, b.conf.Scrypt)
	if err != nil {
		return nil, nil, err
	}

	state := &AuthBlockState{Scrypt: &ScryptState{
		Salt:           salt,
		WorkFactor:     uint32(b.conf.Scrypt.N),
		BlockSize:      uint32(b.conf.Scrypt.R),
		ParallelFactor: uint32(b.conf.Scrypt.P),
	}}

	return state, blobs, nil
}

// Derive replays a previous Create with the persisted salt and work
// parameters. States that predate parameter recording fall back to the
// configured parameters.
func (b *ScryptBlock) Derive(input *AuthInput, state *AuthBlockState) (*KeyBlobs, error) {
	if input == nil || len(input.Credential) == 0 {
		return nil, ErrDerivation.Join(kdf.ErrEmptyCredential)
	}

	if state == nil || state.Scrypt == nil {
		return nil, ErrInvalidState.Join(errWrongVariant)
	}

	if len(state.Scrypt.Salt) == 0 {
		return nil, ErrInvalidState.Join(errStateSalt)
	}

	params := b.conf.Scrypt
	if state.Scrypt.WorkFactor != 0 {
		params = kdf.Params{
			N: int(state.Scrypt.WorkFactor),
			R: int(state.Scrypt.BlockSize),
			P: int(state.Scrypt.ParallelFactor),
		}
	}

	return b.derive(input.Credential, state.Scrypt.Salt, params)
}

func (b *ScryptBlock) derive(credential, salt []byte, params kdf.Params) (*KeyBlobs, error) {
	secrets, err := kdf.DeriveSecrets(
		credential,
		salt,
		params,
		internal.SecretLength,
		internal.BlockIVLength,
		internal.BlockIVLength,
	)
	if err != nil {
		return nil, ErrDerivation.Join(err)
	}

	return &KeyBlobs{VKK: secrets[0], VKKIV: secrets[1], ChapsIV: secrets[2]}, nil
}
