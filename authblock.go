// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

// AuthBlock turns an authentication input into the key material protecting a
// user vault. Create mints fresh key material together with the state needed
// to rederive it; Derive replays a previous Create from its state.
type AuthBlock interface {
	// Create derives fresh key material from input and returns it with the
	// state to persist for later Derive calls.
	Create(input *AuthInput) (*AuthBlockState, *KeyBlobs, error)

	// Derive rederives the key material minted by the Create call that
	// produced state.
	Derive(input *AuthInput, state *AuthBlockState) (*KeyBlobs, error)
}

// AuthInput carries the caller-supplied inputs of a Create or Derive call.
// Which fields are read depends on the block: credential-based blocks read
// Credential, the recovery block reads Recovery on Derive.
type AuthInput struct {
	// Recovery carries the mediated values of a recovery exchange.
	Recovery *RecoveryAuthInput

	// Credential is the user passkey.
	Credential []byte
}

// RecoveryAuthInput carries the values obtained from the mediation service
// that the recovery block folds into its derivation.
type RecoveryAuthInput struct {
	// MediatedPublisherPubKey is the mediated point returned by the service.
	MediatedPublisherPubKey []byte

	// EphemeralPubKey undoes the masking applied before mediation. Empty
	// when no masking was applied.
	EphemeralPubKey []byte
}

// KeyBlobs is the ephemeral outcome of a Create or Derive call. It is never
// persisted: the caller uses it to seal or open the vault keyset and drops
// it.
type KeyBlobs struct {
	// VKK is the vault keyset key.
	VKK []byte

	// VKKIV is the IV to use with VKK.
	VKKIV []byte

	// ChapsIV is the IV protecting the certificate store material.
	ChapsIV []byte
}

// AuthBlockState is the persisted state of a Create call. Exactly one
// variant is set, matching the block that produced it.
type AuthBlockState struct {
	// TPMNotBoundToPCR is set by TPMNotBoundToPCRBlock.
	TPMNotBoundToPCR *TPMNotBoundToPCRState

	// Scrypt is set by ScryptBlock.
	Scrypt *ScryptState

	// Recovery is set by RecoveryBlock.
	Recovery *RecoveryState
}

// TPMNotBoundToPCRState is the state persisted by TPMNotBoundToPCRBlock: the
// salt of the secret schedule and the local secret sealed by the security
// module.
type TPMNotBoundToPCRState struct {
	// Salt feeds the secret schedule together with the credential.
	Salt []byte

	// TPMKey is the local secret sealed under the module's wrapping key.
	TPMKey []byte

	// TPMPublicKeyHash fingerprints the wrapping key the secret was sealed
	// with. Empty when the fingerprint could not be read at creation.
	TPMPublicKeyHash []byte

	// PasswordRounds is the iteration count of the legacy session key
	// derivation. Only meaningful when ScryptDerived is false; zero selects
	// the configured default.
	PasswordRounds uint32

	// ScryptDerived records which session key derivation sealed TPMKey.
	ScryptDerived bool
}

// ScryptState is the state persisted by ScryptBlock: the salt and the work
// parameters the key material was derived with.
type ScryptState struct {
	// Salt feeds the derivation together with the credential.
	Salt []byte

	// WorkFactor, BlockSize and ParallelFactor are the scrypt parameters
	// used at creation. Zero values select the configured parameters.
	WorkFactor     uint32
	BlockSize      uint32
	ParallelFactor uint32
}

// RecoveryState is the state persisted by RecoveryBlock: the device half of
// the dealt secret and everything the mediation service needs to reconstruct
// the other half.
type RecoveryState struct {
	// Salt feeds the key material derivation from the recovery key.
	Salt []byte

	// DestinationShare is the device share of the dealt secret.
	DestinationShare []byte

	// PublisherPubKey is the public key the recovery key is bound to.
	PublisherPubKey []byte

	// EncryptedMediatorShare is the mediator share, sealed to the mediation
	// service's public key.
	EncryptedMediatorShare []byte
}
