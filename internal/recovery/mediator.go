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

// Mediator is the serving half of the protocol. Production mediation runs in
// an HSM behind the recovery service; this in-process implementation closes
// the loop for tests and local tooling.
type Mediator struct {
	protocol  *Protocol
	priv      *group.Scalar
	pub       *ec.Point
	epochPriv *group.Scalar
	epochPub  *ec.Point
}

// NewMediator creates a mediator with fresh mediator and epoch key pairs.
func NewMediator(protocol *Protocol) (*Mediator, error) {
	priv, pub, err := protocol.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("mediator key: %w", err)
	}

	epochPriv, epochPub, err := protocol.curve.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("epoch key: %w", err)
	}

	return &Mediator{
		protocol:  protocol,
		priv:      priv,
		pub:       pub,
		epochPriv: epochPriv,
		epochPub:  epochPub,
	}, nil
}

// PubKey returns the mediator's public key, handed to devices at onboarding.
func (m *Mediator) PubKey() *ec.Point {
	return m.pub
}

// PrivKey returns the mediator's private key, for driving the share
// primitives directly.
func (m *Mediator) PrivKey() *group.Scalar {
	return m.priv
}

// Epoch returns the current epoch beacon.
func (m *Mediator) Epoch() *EpochResponse {
	return &EpochResponse{EpochPubKey: m.protocol.curve.EncodePoint(m.epochPub)}
}

// MediateRequest opens the request and HSM payloads, applies the mediator
// share to the dealer key, folds in the device's masking inverse, and
// returns the serialized response.
func (m *Mediator) MediateRequest(serialized []byte) ([]byte, error) {
	p := m.protocol

	var request Request
	if err := cbor.Unmarshal(serialized, &request); err != nil {
		return nil, fmt.Errorf("request encoding: %w", err)
	}

	var payload Payload
	if err := cbor.Unmarshal(request.RequestPayload, &payload); err != nil {
		return nil, fmt.Errorf("request payload encoding: %w", err)
	}

	var requestAD RequestAssociatedData
	if err := cbor.Unmarshal(payload.AssociatedData, &requestAD); err != nil {
		return nil, fmt.Errorf("request associated data: %w", err)
	}

	if requestAD.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, requestAD.SchemaVersion)
	}

	var hsmAD HSMAssociatedData
	if err := cbor.Unmarshal(requestAD.HSMPayload.AssociatedData, &hsmAD); err != nil {
		return nil, fmt.Errorf("hsm associated data: %w", err)
	}

	if hsmAD.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, hsmAD.SchemaVersion)
	}

	channelPub, err := p.curve.DecodePoint(hsmAD.ChannelPubKey)
	if err != nil {
		return nil, fmt.Errorf("channel public key: %w", err)
	}

	requestShared, err := p.curve.Multiply(channelPub, m.epochPriv)
	if err != nil {
		return nil, fmt.Errorf("request dh: %w", err)
	}

	requestKey := p.sessionKey(requestShared, hsmAD.ChannelPubKey, []byte(tag.RequestPayload), requestAD.RequestPayloadSalt)

	requestPlaintext, err := openPayload(requestKey, &payload)
	if err != nil {
		return nil, err
	}

	var requestPT RequestPlainText
	if err := cbor.Unmarshal(requestPlaintext, &requestPT); err != nil {
		return nil, fmt.Errorf("request plain text: %w", err)
	}

	ephemeralInvPub, err := p.curve.DecodePoint(requestPT.EphemeralInvPubKey)
	if err != nil {
		return nil, fmt.Errorf("ephemeral inverse key: %w", err)
	}

	publisherPub, err := p.curve.DecodePoint(hsmAD.PublisherPubKey)
	if err != nil {
		return nil, fmt.Errorf("publisher public key: %w", err)
	}

	hsmShared, err := p.curve.Multiply(publisherPub, m.priv)
	if err != nil {
		return nil, fmt.Errorf("hsm payload dh: %w", err)
	}

	hsmKey := p.sessionKey(hsmShared, hsmAD.PublisherPubKey, []byte(tag.HSMPayload), nil)

	hsmPlaintext, err := openPayload(hsmKey, &requestAD.HSMPayload)
	if err != nil {
		return nil, err
	}

	var hsmPT HSMPlainText
	if err := cbor.Unmarshal(hsmPlaintext, &hsmPT); err != nil {
		return nil, fmt.Errorf("hsm plain text: %w", err)
	}

	mediatorShare, err := p.curve.DecodeScalar(hsmPT.MediatorShare)
	if err != nil {
		return nil, fmt.Errorf("mediator share: %w", err)
	}

	dealerPub, err := p.curve.DecodePoint(hsmPT.DealerPubKey)
	if err != nil {
		return nil, fmt.Errorf("dealer public key: %w", err)
	}

	mediatorDH, err := p.curve.Multiply(dealerPub, mediatorShare)
	if err != nil {
		return nil, fmt.Errorf("mediator dh: %w", err)
	}

	mediated, err := p.curve.Add(mediatorDH, ephemeralInvPub)
	if err != nil {
		return nil, fmt.Errorf("mediated point: %w", err)
	}

	return m.respond(channelPub, hsmPT.DealerPubKey, mediated, hsmPT.KeyAuthValue)
}

func (m *Mediator) respond(
	channelPub *ec.Point,
	dealerPub []byte,
	mediated *ec.Point,
	keyAuthValue []byte,
) ([]byte, error) {
	p := m.protocol
	salt := internal.RandomBytes(SaltLength)

	associatedData, err := cborEncoding.Marshal(ResponseAssociatedData{
		SchemaVersion:       SchemaVersion,
		ResponsePayloadSalt: salt,
	})
	if err != nil {
		return nil, fmt.Errorf("response associated data: %w", err)
	}

	plaintext, err := cborEncoding.Marshal(ResponsePlainText{
		MediatedPoint: p.curve.EncodePoint(mediated),
		DealerPubKey:  dealerPub,
		KeyAuthValue:  keyAuthValue,
	})
	if err != nil {
		return nil, fmt.Errorf("response plain text: %w", err)
	}

	shared, err := p.curve.Multiply(channelPub, m.epochPriv)
	if err != nil {
		return nil, fmt.Errorf("response dh: %w", err)
	}

	key := p.sessionKey(shared, p.curve.EncodePoint(m.epochPub), []byte(tag.ResponsePayload), salt)

	payload, err := sealPayload(key, plaintext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("response payload: %w", err)
	}

	response, err := cborEncoding.Marshal(Response{ResponsePayload: *payload})
	if err != nil {
		return nil, fmt.Errorf("response encoding: %w", err)
	}

	return response, nil
}
