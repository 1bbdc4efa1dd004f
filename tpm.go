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

// TPMNotBoundToPCRBlock derives key material from a credential and a local
// secret sealed by the security module, without binding the secret to boot
// state. The credential hardens the seal: the module only opens the secret
// for the session key the credential derives.
type TPMNotBoundToPCRBlock struct {
	wrapper *KeyWrapper
	conf    *internal.Configuration
}

// NewTPMNotBoundToPCRBlock returns a block sealing its secrets with module
// and loader. If conf is nil, the default configuration is used.
func NewTPMNotBoundToPCRBlock(
	conf *Configuration,
	module SecurityModule,
	loader KeyLoader,
) (*TPMNotBoundToPCRBlock, error) {
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	wrapper, err := newKeyWrapper(ip, module, loader)
	if err != nil {
		return nil, err
	}

	return &TPMNotBoundToPCRBlock{wrapper: wrapper, conf: ip}, nil
}

// Create mints a fresh local secret, seals it under the wrapping key bound
// to the credential's session key, and returns the key material with the
// state to rederive it.
func (b *TPMNotBoundToPCRBlock) Create(input *AuthInput) (*AuthBlockState, *KeyBlobs, error) {
	if input == nil || len(input.Credential) == 0 {
		return nil, nil, ErrDerivation.Join(kdf.ErrEmptyCredential)
	}

	salt := internal.RandomBytes(b.conf.SaltLength)
	localBlob := internal.RandomBytes(internal.SecretLength)

	aesSKey, kdfSKey, vkkIV, err := b.conf.SecretSchedule(input.Credential, salt)
	if err != nil {
		return nil, nil, ErrDerivation.Join(err)
	}

	wrapped, pubKeyHash, err := b.wrapper.WrapSecret(localBlob, aesSKey)
	if err != nil {
		return nil, nil, err
	}

	state := &AuthBlockState{TPMNotBoundToPCR: &TPMNotBoundToPCRState{
		Salt:             salt,
		TPMKey:           wrapped,
		TPMPublicKeyHash: pubKeyHash,
		ScryptDerived:    true,
	}}

	// The IV comes out of the secret schedule, not the persisted state, so
	// only the salt is needed to reproduce it.
	return state, &KeyBlobs{
		VKK:     b.conf.MAC.MAC(kdfSKey, localBlob),
		VKKIV:   vkkIV,
		ChapsIV: vkkIV,
	}, nil
}

// Derive replays a previous Create: it checks the module still holds the
// wrapping key, unseals the local secret with the credential's session key,
// and rebuilds the same key material.
func (b *TPMNotBoundToPCRBlock) Derive(input *AuthInput, state *AuthBlockState) (*KeyBlobs, error) {
	if input == nil || len(input.Credential) == 0 {
		return nil, ErrDerivation.Join(kdf.ErrEmptyCredential)
	}

	if state == nil || state.TPMNotBoundToPCR == nil {
		return nil, ErrInvalidState.Join(errWrongVariant)
	}

	tpmState := state.TPMNotBoundToPCR

	if len(tpmState.Salt) == 0 {
		return nil, ErrInvalidState.Join(errStateSalt)
	}

	if len(tpmState.TPMKey) == 0 {
		return nil, ErrInvalidState.Join(errStateTPMKey)
	}

	if err := b.wrapper.CheckReadiness(tpmState.TPMPublicKeyHash); err != nil {
		return nil, err
	}

	if tpmState.ScryptDerived {
		return b.deriveScrypt(input.Credential, tpmState)
	}

	return b.deriveLegacy(input.Credential, tpmState)
}

func (b *TPMNotBoundToPCRBlock) deriveScrypt(
	credential []byte,
	state *TPMNotBoundToPCRState,
) (*KeyBlobs, error) {
	aesSKey, kdfSKey, vkkIV, err := b.conf.SecretSchedule(credential, state.Salt)
	if err != nil {
		return nil, ErrDerivation.Join(err)
	}

	localBlob, err := b.wrapper.UnwrapSecret(state.TPMKey, aesSKey)
	if err != nil {
		return nil, err
	}

	return &KeyBlobs{
		VKK:     b.conf.MAC.MAC(kdfSKey, localBlob),
		VKKIV:   vkkIV,
		ChapsIV: vkkIV,
	}, nil
}

// deriveLegacy handles states sealed before the scrypt schedule existed: the
// session key comes from the round-based derivation, and the key material is
// a second round-based pass over the unsealed secret.
func (b *TPMNotBoundToPCRBlock) deriveLegacy(
	credential []byte,
	state *TPMNotBoundToPCRState,
) (*KeyBlobs, error) {
	rounds := state.PasswordRounds
	if rounds == 0 {
		rounds = b.conf.PasswordRounds
	}

	b.conf.Logger.Debug().Uint32("rounds", rounds).Msg("deriving a pre-scrypt state")

	aesSKey, _, err := kdf.LegacySecrets(credential, state.Salt, rounds)
	if err != nil {
		return nil, ErrDerivation.Join(err)
	}

	localBlob, err := b.wrapper.UnwrapSecret(state.TPMKey, aesSKey)
	if err != nil {
		return nil, err
	}

	vkk, vkkIV, err := kdf.LegacySecrets(localBlob, state.Salt, rounds)
	if err != nil {
		return nil, ErrDerivation.Join(err)
	}

	return &KeyBlobs{VKK: vkk, VKKIV: vkkIV, ChapsIV: vkkIV}, nil
}
