// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package recovery

import (
	"fmt"

	group "github.com/bytemare/crypto"
	"github.com/fxamacker/cbor/v2"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/ec"
	"github.com/bytemare/vaultkey/internal/tag"
)

// Onboarding is the device outcome of GenerateHSMPayload: the sealed payload
// to persist, the secrets needed to later issue and decrypt a recovery
// request, and the recovery key the caller wraps its vault secrets with.
type Onboarding struct {
	HSMPayload       *Payload
	DestinationShare *group.Scalar
	ChannelPriv      *group.Scalar
	ChannelPubKey    *ec.Point
	RecoveryKey      []byte
}

// GenerateHSMPayload runs the onboarding half of the protocol: deals the
// secret, seals the mediator share and dealer key to the mediator's public
// key, and derives the recovery key from the dealer side of the exchange.
func (p *Protocol) GenerateHSMPayload(
	mediatorPub *ec.Point,
	rsaPubKey []byte,
	metadata OnboardingMetadata,
) (*Onboarding, error) {
	dealerPriv, dealerPub, err := p.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("dealer key: %w", err)
	}

	destinationShare := p.curve.RandomNonZeroScalar()

	var mediatorShare, secret *group.Scalar

	for {
		mediatorShare = p.curve.RandomNonZeroScalar()

		secret = p.curve.ModAdd(mediatorShare, destinationShare)
		if !secret.IsZero() {
			break
		}
	}

	recoveryPub, err := p.curve.MultiplyWithGenerator(secret)
	if err != nil {
		return nil, fmt.Errorf("recovery public key: %w", err)
	}

	channelPriv, channelPub, err := p.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("channel key: %w", err)
	}

	publisherPriv, publisherPub, err := p.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("publisher key: %w", err)
	}

	publisherPubBytes := p.curve.EncodePoint(publisherPub)
	dealerPubBytes := p.curve.EncodePoint(dealerPub)

	associatedData, err := cborEncoding.Marshal(HSMAssociatedData{
		SchemaVersion:      SchemaVersion,
		PublisherPubKey:    publisherPubBytes,
		ChannelPubKey:      p.curve.EncodePoint(channelPub),
		RSAPublicKey:       rsaPubKey,
		OnboardingMetaData: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("hsm associated data: %w", err)
	}

	plaintext, err := cborEncoding.Marshal(HSMPlainText{
		MediatorShare: p.curve.EncodeScalar(mediatorShare),
		DealerPubKey:  dealerPubBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("hsm plain text: %w", err)
	}

	shared, err := p.curve.Multiply(mediatorPub, publisherPriv)
	if err != nil {
		return nil, fmt.Errorf("hsm payload dh: %w", err)
	}

	// The publisher key is single-use, so the derived key is already
	// non-deterministic without a salt.
	key := p.sessionKey(shared, publisherPubBytes, []byte(tag.HSMPayload), nil)

	payload, err := sealPayload(key, plaintext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("hsm payload: %w", err)
	}

	recoveryDH, err := p.curve.Multiply(recoveryPub, dealerPriv)
	if err != nil {
		return nil, fmt.Errorf("recovery dh: %w", err)
	}

	return &Onboarding{
		HSMPayload:       payload,
		DestinationShare: destinationShare,
		ChannelPriv:      channelPriv,
		ChannelPubKey:    channelPub,
		RecoveryKey:      p.RecoveryKey(recoveryDH, dealerPubBytes),
	}, nil
}

// GenerateEphemeralKey returns a fresh point and its inverse. The inverse
// travels to the mediation service inside the request; the point stays on
// the device to unmask the mediated response.
func (p *Protocol) GenerateEphemeralKey() (ephemeralPub, ephemeralInvPub *ec.Point, err error) {
	_, ephemeralPub, err = p.curve.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("ephemeral key: %w", err)
	}

	return ephemeralPub, p.curve.InvertPoint(ephemeralPub), nil
}

// GenerateRecoveryRequest assembles the request sent to the mediation
// service: the HSM payload and epoch beacon authenticated as associated
// data, the masking key's inverse encrypted to the epoch key. It returns the
// serialized request together with the ephemeral public key the device must
// keep for RecoverDestination.
func (p *Protocol) GenerateRecoveryRequest(
	hsmPayload *Payload,
	metadata RequestMetadata,
	epoch *EpochResponse,
	channelPriv *group.Scalar,
	channelPub *ec.Point,
) ([]byte, *ec.Point, error) {
	salt := internal.RandomBytes(SaltLength)

	associatedData, err := cborEncoding.Marshal(RequestAssociatedData{
		SchemaVersion:      SchemaVersion,
		HSMPayload:         *hsmPayload,
		RequestMetaData:    metadata,
		EpochMetaData:      epoch.EpochMetaData,
		EpochPubKey:        epoch.EpochPubKey,
		RequestPayloadSalt: salt,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("request associated data: %w", err)
	}

	epochPub, err := p.curve.DecodePoint(epoch.EpochPubKey)
	if err != nil {
		return nil, nil, fmt.Errorf("epoch public key: %w", err)
	}

	shared, err := p.curve.Multiply(epochPub, channelPriv)
	if err != nil {
		return nil, nil, fmt.Errorf("request dh: %w", err)
	}

	// The channel and epoch keys are both static, so the salt carries the
	// randomization of the derived key.
	key := p.sessionKey(shared, p.curve.EncodePoint(channelPub), []byte(tag.RequestPayload), salt)

	ephemeralPub, ephemeralInvPub, err := p.GenerateEphemeralKey()
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := cborEncoding.Marshal(RequestPlainText{
		EphemeralInvPubKey: p.curve.EncodePoint(ephemeralInvPub),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("request plain text: %w", err)
	}

	payload, err := sealPayload(key, plaintext, associatedData)
	if err != nil {
		return nil, nil, fmt.Errorf("request payload: %w", err)
	}

	serializedPayload, err := cborEncoding.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("request payload encoding: %w", err)
	}

	request, err := cborEncoding.Marshal(Request{RequestPayload: serializedPayload})
	if err != nil {
		return nil, nil, fmt.Errorf("request encoding: %w", err)
	}

	return request, ephemeralPub, nil
}

// DecryptResponsePayload opens a serialized mediation response with the
// channel private key and returns its plain text.
func (p *Protocol) DecryptResponsePayload(
	channelPriv *group.Scalar,
	epoch *EpochResponse,
	serialized []byte,
) (*ResponsePlainText, error) {
	var response Response
	if err := cbor.Unmarshal(serialized, &response); err != nil {
		return nil, fmt.Errorf("response encoding: %w", err)
	}

	if response.ErrorCode != 0 {
		return nil, fmt.Errorf("%w: code %d: %s", ErrMediation, response.ErrorCode, response.ErrorString)
	}

	var ad ResponseAssociatedData
	if err := cbor.Unmarshal(response.ResponsePayload.AssociatedData, &ad); err != nil {
		return nil, fmt.Errorf("response associated data: %w", err)
	}

	if ad.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, ad.SchemaVersion)
	}

	epochPub, err := p.curve.DecodePoint(epoch.EpochPubKey)
	if err != nil {
		return nil, fmt.Errorf("epoch public key: %w", err)
	}

	shared, err := p.curve.Multiply(epochPub, channelPriv)
	if err != nil {
		return nil, fmt.Errorf("response dh: %w", err)
	}

	key := p.sessionKey(shared, epoch.EpochPubKey, []byte(tag.ResponsePayload), ad.ResponsePayloadSalt)

	plaintext, err := openPayload(key, &response.ResponsePayload)
	if err != nil {
		return nil, err
	}

	var pt ResponsePlainText
	if err := cbor.Unmarshal(plaintext, &pt); err != nil {
		return nil, fmt.Errorf("response plain text: %w", err)
	}

	return &pt, nil
}
