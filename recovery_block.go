// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"errors"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/ec"
	"github.com/bytemare/vaultkey/internal/kdf"
	"github.com/bytemare/vaultkey/internal/recovery"
	"github.com/bytemare/vaultkey/internal/tag"
)

var errNoRecoveryInput = errors.New("recovery derivation needs mediated input values")

// RecoveryBlock acquires key material through a mediated recovery exchange
// instead of a credential. Create deals a fresh secret against the mediation
// service's public key; Derive folds the service's mediated values back in
// and rebuilds the same key material.
type RecoveryBlock struct {
	conf        *internal.Configuration
	protocol    *recovery.Protocol
	mediatorPub *ec.Point
}

// NewRecoveryBlock returns a block dealing its secrets against
// mediatorPubKey, the mediation service's published key as an uncompressed
// point. If conf is nil, the default configuration is used.
func NewRecoveryBlock(conf *Configuration, mediatorPubKey []byte) (*RecoveryBlock, error) {
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	protocol := recovery.P256Sha256()

	mediatorPub, err := protocol.Curve().DecodePoint(mediatorPubKey)
	if err != nil {
		return nil, ErrProtocol.Join(err)
	}

	return &RecoveryBlock{conf: ip, protocol: protocol, mediatorPub: mediatorPub}, nil
}

// Create deals a fresh secret, derives the recovery key from its published
// side, and persists the device share with the sealed mediator share. The
// input is not read: no credential takes part in the derivation.
func (b *RecoveryBlock) Create(_ *AuthInput) (*AuthBlockState, *KeyBlobs, error) {
	encrypted, destinationShare, dealerPub, err := b.protocol.GenerateShares(
		b.mediatorPub, []byte(tag.HSMPayload), nil)
	if err != nil {
		return nil, nil, ErrProtocol.Join(err)
	}

	publisherPub, publisherDH, err := b.protocol.GeneratePublisherKeys(dealerPub)
	if err != nil {
		return nil, nil, ErrProtocol.Join(err)
	}

	curve := b.protocol.Curve()
	publisherPubBytes := curve.EncodePoint(publisherPub)
	recoveryKey := b.protocol.RecoveryKey(publisherDH, publisherPubBytes)

	salt := internal.RandomBytes(b.conf.SaltLength)

	blobs, err := b.schedule(recoveryKey, salt)
	if err != nil {
		return nil, nil, err
	}

	serializedShare, err := encrypted.Serialize()
	if err != nil {
		return nil, nil, ErrProtocol.Join(err)
	}

	state := &AuthBlockState{Recovery: &RecoveryState{
		Salt:                   salt,
		DestinationShare:       curve.EncodeScalar(destinationShare),
		PublisherPubKey:        publisherPubBytes,
		EncryptedMediatorShare: serializedShare,
	}}

	return state, blobs, nil
}

// Derive rebuilds the recovery key from the device share and the mediated
// values carried in input.Recovery, then replays the Create derivation.
func (b *RecoveryBlock) Derive(input *AuthInput, state *AuthBlockState) (*KeyBlobs, error) {
	if input == nil || input.Recovery == nil {
		return nil, ErrDerivation.Join(errNoRecoveryInput)
	}

	if state == nil || state.Recovery == nil {
		return nil, ErrInvalidState.Join(errWrongVariant)
	}

	recState := state.Recovery

	switch {
	case len(recState.Salt) == 0:
		return nil, ErrInvalidState.Join(errStateSalt)
	case len(recState.DestinationShare) == 0:
		return nil, ErrInvalidState.Join(errStateShare)
	case len(recState.PublisherPubKey) == 0:
		return nil, ErrInvalidState.Join(errStatePublisher)
	}

	curve := b.protocol.Curve()

	publisherPub, err := curve.DecodePoint(recState.PublisherPubKey)
	if err != nil {
		return nil, ErrInvalidState.Join(err)
	}

	destinationShare, err := curve.DecodeScalar(recState.DestinationShare)
	if err != nil {
		return nil, ErrInvalidState.Join(err)
	}

	mediatedPub, err := curve.DecodePoint(input.Recovery.MediatedPublisherPubKey)
	if err != nil {
		return nil, ErrProtocol.Join(err)
	}

	var ephemeralPub *ec.Point

	if len(input.Recovery.EphemeralPubKey) != 0 {
		ephemeralPub, err = curve.DecodePoint(input.Recovery.EphemeralPubKey)
		if err != nil {
			return nil, ErrProtocol.Join(err)
		}
	}

	destination, err := b.protocol.RecoverDestination(
		publisherPub, destinationShare, ephemeralPub, mediatedPub)
	if err != nil {
		return nil, ErrProtocol.Join(err)
	}

	recoveryKey := b.protocol.RecoveryKey(destination, recState.PublisherPubKey)

	return b.schedule(recoveryKey, recState.Salt)
}

func (b *RecoveryBlock) schedule(recoveryKey, salt []byte) (*KeyBlobs, error) {
	secrets, err := kdf.DeriveSecrets(
		recoveryKey,
		salt,
		b.conf.Scrypt,
		internal.SecretLength,
		internal.BlockIVLength,
		internal.BlockIVLength,
	)
	if err != nil {
		return nil, ErrDerivation.Join(err)
	}

	return &KeyBlobs{VKK: secrets[0], VKKIV: secrets[1], ChapsIV: secrets[2]}, nil
}
