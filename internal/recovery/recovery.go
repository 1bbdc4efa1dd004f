// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package recovery implements the two-party secret splitting scheme behind
// passwordless vault recovery: a dealer secret split into a mediator share
// and a destination share over P-256, with the mediator share travelling in
// ephemeral ECDH+HKDF AES-GCM envelopes. Neither party ever holds the dealer
// secret after dealing.
package recovery

import (
	"crypto"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/aead"
	"github.com/bytemare/vaultkey/internal/ec"
	"github.com/bytemare/vaultkey/internal/encoding"
	"github.com/bytemare/vaultkey/internal/tag"
)

// SaltLength is the length of the randomized salts mixed into the request and
// response key derivations, whose ECDH inputs are static on both ends.
const SaltLength = 32

// EncryptedShareLength is the serialized length of an encrypted mediator
// share: tag || iv || ephemeral public key || ciphertext.
const EncryptedShareLength = aead.TagSize + aead.IVSize + ec.PointLength + ec.ScalarLength

// ErrShareEncoding indicates a serialized mediator share with the wrong geometry.
var ErrShareEncoding = errors.New("invalid encrypted mediator share encoding")

// Protocol binds the curve and the key agreement hash. Both parties of every
// exchange must run the same instantiation; P-256 with HKDF-SHA256 is the
// only deployed one.
type Protocol struct {
	curve *ec.Curve
	kdf   *internal.KDF
}

// P256Sha256 returns the deployed protocol instantiation.
func P256Sha256() *Protocol {
	return &Protocol{curve: ec.P256(), kdf: internal.NewKDF(crypto.SHA256)}
}

// Curve returns the protocol's curve, for encoding and decoding wire values.
func (p *Protocol) Curve() *ec.Curve {
	return p.curve
}

// sessionKey derives the AES-GCM key of an ECDH exchange: HKDF over the
// shared point's X coordinate, with the sender-side public key appended to
// the info. The sender passes its own ephemeral public key, the recipient
// the one it received.
func (p *Protocol) sessionKey(shared *ec.Point, senderPub, info, salt []byte) []byte {
	return p.kdf.Derive(p.curve.AffineX(shared), salt, encoding.Concat(info, senderPub), aead.KeySize)
}

// RecoveryKey derives the vault wrapping key from a recovery Diffie-Hellman
// point. bindingPub is appended to the info and must be the same encoded
// public key on both sides of the exchange.
func (p *Protocol) RecoveryKey(dh *ec.Point, bindingPub []byte) []byte {
	return p.kdf.Derive(p.curve.AffineX(dh), nil, encoding.Concat([]byte(tag.RecoveryKey), bindingPub), p.kdf.Size())
}

// EncryptedMediatorShare is the mediator share sealed to the mediator's
// public key, with the ephemeral public key and the AEAD parts carried
// alongside the ciphertext.
type EncryptedMediatorShare struct {
	Tag             []byte
	IV              []byte
	EphemeralPubKey []byte
	EncryptedData   []byte
}

// Serialize flattens s into the fixed tag || iv || ephemeral public key ||
// ciphertext layout, rejecting mis-sized parts.
func (s *EncryptedMediatorShare) Serialize() ([]byte, error) {
	if len(s.Tag) != aead.TagSize || len(s.IV) != aead.IVSize ||
		len(s.EphemeralPubKey) != ec.PointLength || len(s.EncryptedData) != ec.ScalarLength {
		return nil, ErrShareEncoding
	}

	return encoding.Concatenate(s.Tag, s.IV, s.EphemeralPubKey, s.EncryptedData), nil
}

// DeserializeEncryptedShare parses the fixed mediator share layout.
func DeserializeEncryptedShare(in []byte) (*EncryptedMediatorShare, error) {
	if len(in) != EncryptedShareLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrShareEncoding, len(in), EncryptedShareLength)
	}

	tagEnd := aead.TagSize
	ivEnd := tagEnd + aead.IVSize
	pubEnd := ivEnd + ec.PointLength

	return &EncryptedMediatorShare{
		Tag:             in[:tagEnd],
		IV:              in[tagEnd:ivEnd],
		EphemeralPubKey: in[ivEnd:pubEnd],
		EncryptedData:   in[pubEnd:],
	}, nil
}

// GenerateShares splits a fresh dealer secret into a mediator share and a
// destination share, rejection sampling the pair until the mod-order sum is
// non-zero, and seals the mediator share to mediatorPub. The dealer secret
// never leaves the function.
func (p *Protocol) GenerateShares(
	mediatorPub *ec.Point,
	info, salt []byte,
) (*EncryptedMediatorShare, *group.Scalar, *ec.Point, error) {
	destinationShare := p.curve.RandomNonZeroScalar()

	var mediatorShare, secret *group.Scalar

	for {
		mediatorShare = p.curve.RandomNonZeroScalar()

		secret = p.curve.ModAdd(mediatorShare, destinationShare)
		if !secret.IsZero() {
			break
		}
	}

	dealerPub, err := p.curve.MultiplyWithGenerator(secret)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dealer public key: %w", err)
	}

	encrypted, err := p.encryptShare(mediatorPub, mediatorShare, info, salt)
	if err != nil {
		return nil, nil, nil, err
	}

	return encrypted, destinationShare, dealerPub, nil
}

func (p *Protocol) encryptShare(
	mediatorPub *ec.Point,
	share *group.Scalar,
	info, salt []byte,
) (*EncryptedMediatorShare, error) {
	ephemeralPriv, ephemeralPub, err := p.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}

	shared, err := p.curve.Multiply(mediatorPub, ephemeralPriv)
	if err != nil {
		return nil, fmt.Errorf("share encryption dh: %w", err)
	}

	ephemeralPubBytes := p.curve.EncodePoint(ephemeralPub)
	key := p.sessionKey(shared, ephemeralPubBytes, info, salt)

	ciphertext, iv, gcmTag, err := aead.Seal(key, p.curve.EncodeScalar(share), nil)
	if err != nil {
		return nil, fmt.Errorf("share encryption: %w", err)
	}

	return &EncryptedMediatorShare{
		Tag:             gcmTag,
		IV:              iv,
		EphemeralPubKey: ephemeralPubBytes,
		EncryptedData:   ciphertext,
	}, nil
}

// GeneratePublisherKeys samples the publisher secret and returns its public
// point together with the Diffie-Hellman point against the dealer's key.
func (p *Protocol) GeneratePublisherKeys(dealerPub *ec.Point) (publisherPub, publisherDH *ec.Point, err error) {
	secret := p.curve.RandomNonZeroScalar()

	publisherPub, err = p.curve.MultiplyWithGenerator(secret)
	if err != nil {
		return nil, nil, fmt.Errorf("publisher public key: %w", err)
	}

	publisherDH, err = p.curve.Multiply(dealerPub, secret)
	if err != nil {
		return nil, nil, fmt.Errorf("publisher dh: %w", err)
	}

	return publisherPub, publisherDH, nil
}

// RecoverDestination reassembles the Diffie-Hellman point from the
// destination share and the mediated point, without ever reconstructing the
// dealer secret. publisherPub is the public key of the party that dealt the
// exchange. ephemeralPub, when present, undoes the inverse-point masking the
// device applied before mediation.
func (p *Protocol) RecoverDestination(
	publisherPub *ec.Point,
	destinationShare *group.Scalar,
	ephemeralPub, mediatedPub *ec.Point,
) (*ec.Point, error) {
	mediatorDH := mediatedPub

	if ephemeralPub != nil {
		var err error

		mediatorDH, err = p.curve.Add(mediatedPub, ephemeralPub)
		if err != nil {
			return nil, fmt.Errorf("unmask mediated point: %w", err)
		}
	}

	pointDH, err := p.curve.Multiply(publisherPub, destinationShare)
	if err != nil {
		return nil, fmt.Errorf("destination dh: %w", err)
	}

	destination, err := p.curve.Add(pointDH, mediatorDH)
	if err != nil {
		return nil, fmt.Errorf("destination point: %w", err)
	}

	return destination, nil
}

// DecryptShare opens an encrypted mediator share with the mediator's private
// key. info and salt must match the values used at encryption.
func (p *Protocol) DecryptShare(
	mediatorPriv *group.Scalar,
	encrypted *EncryptedMediatorShare,
	info, salt []byte,
) (*group.Scalar, error) {
	ephemeralPub, err := p.curve.DecodePoint(encrypted.EphemeralPubKey)
	if err != nil {
		return nil, fmt.Errorf("ephemeral public key: %w", err)
	}

	shared, err := p.curve.Multiply(ephemeralPub, mediatorPriv)
	if err != nil {
		return nil, fmt.Errorf("share decryption dh: %w", err)
	}

	key := p.sessionKey(shared, encrypted.EphemeralPubKey, info, salt)

	plaintext, err := aead.Open(key, encrypted.EncryptedData, encrypted.IV, encrypted.Tag, nil)
	if err != nil {
		return nil, err
	}

	share, err := p.curve.DecodeScalar(plaintext)
	if err != nil {
		return nil, fmt.Errorf("mediator share: %w", err)
	}

	return share, nil
}

// MediateShare decrypts the mediator share and applies it to base, producing
// the mediated point the destination folds into its recovery equation.
func (p *Protocol) MediateShare(
	mediatorPriv *group.Scalar,
	encrypted *EncryptedMediatorShare,
	base *ec.Point,
	info, salt []byte,
) (*ec.Point, error) {
	share, err := p.DecryptShare(mediatorPriv, encrypted, info, salt)
	if err != nil {
		return nil, err
	}

	mediated, err := p.curve.Multiply(base, share)
	if err != nil {
		return nil, fmt.Errorf("mediated point: %w", err)
	}

	return mediated, nil
}
