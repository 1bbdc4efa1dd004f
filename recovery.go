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

	group "github.com/bytemare/crypto"
	"github.com/rs/zerolog"

	"github.com/bytemare/vaultkey/internal/aead"
	"github.com/bytemare/vaultkey/internal/ec"
	"github.com/bytemare/vaultkey/internal/recovery"
)

// Metadata and message types exchanged with the mediation service.
type (
	// OnboardingMetadata is recorded when recovery is set up and echoed back
	// by the mediation service when recovery is exercised.
	OnboardingMetadata = recovery.OnboardingMetadata

	// RequestMetadata travels with a recovery request.
	RequestMetadata = recovery.RequestMetadata

	// AuthClaim carries the tokens backing a recovery request.
	AuthClaim = recovery.AuthClaim

	// EpochResponse is the mediation service's current epoch beacon.
	EpochResponse = recovery.EpochResponse

	// ResponsePlainText is the decrypted payload of a mediation response.
	ResponsePlainText = recovery.ResponsePlainText

	// UserType identifies the account type recorded in onboarding metadata.
	UserType = recovery.UserType
)

// User types exchanged with the mediation service.
const (
	UserUnknown = recovery.UserUnknown
	UserGaiaID  = recovery.UserGaiaID
)

// Recovery exposes the recovery protocol over byte-encoded values: public
// keys and DH outputs as uncompressed points, scalars and shares as
// fixed-width big-endian integers.
type Recovery struct {
	protocol *recovery.Protocol
	log      zerolog.Logger
}

// NewRecovery returns the recovery protocol over P-256 with HKDF-SHA256. If
// conf is nil, the default configuration is used.
func NewRecovery(conf *Configuration) (*Recovery, error) {
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	return &Recovery{protocol: recovery.P256Sha256(), log: ip.Logger}, nil
}

// GenerateShares deals a fresh secret in two: the encrypted share goes to
// the mediation service, the destination share stays on the device, and
// dealerPubKey publishes the dealt secret. hkdfInfo and hkdfSalt bind the
// share encryption to its context.
func (r *Recovery) GenerateShares(
	mediatorPubKey, hkdfInfo, hkdfSalt []byte,
) (encryptedShare, destinationShare, dealerPubKey []byte, err error) {
	mediatorPub, err := r.point(mediatorPubKey)
	if err != nil {
		return nil, nil, nil, err
	}

	encrypted, share, dealerPub, err := r.protocol.GenerateShares(mediatorPub, hkdfInfo, hkdfSalt)
	if err != nil {
		return nil, nil, nil, recoveryError(err)
	}

	encryptedShare, err = encrypted.Serialize()
	if err != nil {
		return nil, nil, nil, recoveryError(err)
	}

	curve := r.protocol.Curve()

	return encryptedShare, curve.EncodeScalar(share), curve.EncodePoint(dealerPub), nil
}

// GeneratePublisherKeys publishes a dealt secret: it samples a fresh scalar
// and returns its public point with the DH of the scalar against
// dealerPubKey.
func (r *Recovery) GeneratePublisherKeys(dealerPubKey []byte) (publisherPubKey, publisherDH []byte, err error) {
	dealerPub, err := r.point(dealerPubKey)
	if err != nil {
		return nil, nil, err
	}

	pub, dh, err := r.protocol.GeneratePublisherKeys(dealerPub)
	if err != nil {
		return nil, nil, recoveryError(err)
	}

	curve := r.protocol.Curve()

	return curve.EncodePoint(pub), curve.EncodePoint(dh), nil
}

// RecoverDestination reconstructs the publisher's DH value from the device
// share and the mediated point, without reconstructing the dealt secret.
// ephemeralPubKey undoes the masking applied before mediation; pass nil when
// no masking was applied.
func (r *Recovery) RecoverDestination(
	publisherPubKey, destinationShare, ephemeralPubKey, mediatedPublisherPubKey []byte,
) (destinationDH []byte, err error) {
	publisherPub, err := r.point(publisherPubKey)
	if err != nil {
		return nil, err
	}

	share, err := r.scalar(destinationShare)
	if err != nil {
		return nil, err
	}

	mediatedPub, err := r.point(mediatedPublisherPubKey)
	if err != nil {
		return nil, err
	}

	var ephemeralPub *ec.Point

	if len(ephemeralPubKey) != 0 {
		ephemeralPub, err = r.point(ephemeralPubKey)
		if err != nil {
			return nil, err
		}
	}

	destination, err := r.protocol.RecoverDestination(publisherPub, share, ephemeralPub, mediatedPub)
	if err != nil {
		return nil, recoveryError(err)
	}

	return r.protocol.Curve().EncodePoint(destination), nil
}

// MediateShare opens an encrypted mediator share with the service's private
// key and applies it to base, producing the mediated point the device folds
// into RecoverDestination. hkdfInfo and hkdfSalt must match the values used
// by GenerateShares.
func (r *Recovery) MediateShare(
	mediatorPrivKey, encryptedShare, base, hkdfInfo, hkdfSalt []byte,
) (mediatedPubKey []byte, err error) {
	priv, err := r.scalar(mediatorPrivKey)
	if err != nil {
		return nil, err
	}

	encrypted, err := recovery.DeserializeEncryptedShare(encryptedShare)
	if err != nil {
		return nil, recoveryError(err)
	}

	basePoint, err := r.point(base)
	if err != nil {
		return nil, err
	}

	mediated, err := r.protocol.MediateShare(priv, encrypted, basePoint, hkdfInfo, hkdfSalt)
	if err != nil {
		return nil, recoveryError(err)
	}

	return r.protocol.Curve().EncodePoint(mediated), nil
}

// RecoveryKey derives the wrapping key bound to bindingPubKey from a DH
// point produced by the exchange.
func (r *Recovery) RecoveryKey(destinationDH, bindingPubKey []byte) ([]byte, error) {
	dh, err := r.point(destinationDH)
	if err != nil {
		return nil, err
	}

	return r.protocol.RecoveryKey(dh, bindingPubKey), nil
}

// Onboarding is the outcome of GenerateHSMPayload: the sealed payload to
// hand to the mediation service, the secrets to keep for issuing and
// decrypting a recovery request, and the recovery key to wrap vault secrets
// with.
type Onboarding struct {
	// HSMPayload is the serialized sealed payload for the service.
	HSMPayload []byte

	// DestinationShare is the device share of the dealt secret.
	DestinationShare []byte

	// ChannelPrivKey and ChannelPubKey secure the request/response channel.
	ChannelPrivKey []byte
	ChannelPubKey  []byte

	// RecoveryKey wraps the vault secrets recovery should reacquire.
	RecoveryKey []byte
}

// GenerateHSMPayload runs the onboarding half of the full protocol: it deals
// a secret, seals the mediator share and dealer key to mediatorPubKey, and
// derives the recovery key.
func (r *Recovery) GenerateHSMPayload(
	mediatorPubKey, rsaPubKey []byte,
	metadata OnboardingMetadata,
) (*Onboarding, error) {
	mediatorPub, err := r.point(mediatorPubKey)
	if err != nil {
		return nil, err
	}

	onboarding, err := r.protocol.GenerateHSMPayload(mediatorPub, rsaPubKey, metadata)
	if err != nil {
		return nil, recoveryError(err)
	}

	payload, err := recovery.MarshalPayload(onboarding.HSMPayload)
	if err != nil {
		return nil, recoveryError(err)
	}

	curve := r.protocol.Curve()

	r.log.Debug().Msg("recovery onboarding dealt")

	return &Onboarding{
		HSMPayload:       payload,
		DestinationShare: curve.EncodeScalar(onboarding.DestinationShare),
		ChannelPrivKey:   curve.EncodeScalar(onboarding.ChannelPriv),
		ChannelPubKey:    curve.EncodePoint(onboarding.ChannelPubKey),
		RecoveryKey:      onboarding.RecoveryKey,
	}, nil
}

// GenerateRecoveryRequest builds a mediation request around the onboarded
// payload, masked with a fresh ephemeral key. It returns the serialized
// request and the ephemeral public key to pass to RecoverDestination once
// the response arrives.
func (r *Recovery) GenerateRecoveryRequest(
	hsmPayload []byte,
	metadata RequestMetadata,
	epoch *EpochResponse,
	channelPrivKey, channelPubKey []byte,
) (request, ephemeralPubKey []byte, err error) {
	payload, err := recovery.UnmarshalPayload(hsmPayload)
	if err != nil {
		return nil, nil, recoveryError(err)
	}

	priv, err := r.scalar(channelPrivKey)
	if err != nil {
		return nil, nil, err
	}

	pub, err := r.point(channelPubKey)
	if err != nil {
		return nil, nil, err
	}

	request, ephemeralPub, err := r.protocol.GenerateRecoveryRequest(payload, metadata, epoch, priv, pub)
	if err != nil {
		return nil, nil, recoveryError(err)
	}

	return request, r.protocol.Curve().EncodePoint(ephemeralPub), nil
}

// DecryptResponsePayload opens a mediation response with the channel private
// key and returns its plain text.
func (r *Recovery) DecryptResponsePayload(
	channelPrivKey []byte,
	epoch *EpochResponse,
	response []byte,
) (*ResponsePlainText, error) {
	priv, err := r.scalar(channelPrivKey)
	if err != nil {
		return nil, err
	}

	plain, err := r.protocol.DecryptResponsePayload(priv, epoch, response)
	if err != nil {
		return nil, recoveryError(err)
	}

	return plain, nil
}

// Mediator is a reference mediation service completing the protocol in
// process, for integration tests and development setups.
type Mediator struct {
	mediator *recovery.Mediator
	curve    *ec.Curve
}

// NewMediator returns a mediation service with fresh mediator and epoch
// keys.
func NewMediator() (*Mediator, error) {
	protocol := recovery.P256Sha256()

	mediator, err := recovery.NewMediator(protocol)
	if err != nil {
		return nil, recoveryError(err)
	}

	return &Mediator{mediator: mediator, curve: protocol.Curve()}, nil
}

// PubKey returns the mediator public key devices onboard against.
func (m *Mediator) PubKey() []byte {
	return m.curve.EncodePoint(m.mediator.PubKey())
}

// PrivKey returns the mediator private key, for setups running the simple
// share flow directly.
func (m *Mediator) PrivKey() []byte {
	return m.curve.EncodeScalar(m.mediator.PrivKey())
}

// Epoch returns the current epoch beacon.
func (m *Mediator) Epoch() *EpochResponse {
	return m.mediator.Epoch()
}

// MediateRequest performs the service side of the full protocol on a
// serialized request and returns the serialized response.
func (m *Mediator) MediateRequest(request []byte) ([]byte, error) {
	response, err := m.mediator.MediateRequest(request)
	if err != nil {
		return nil, recoveryError(err)
	}

	return response, nil
}

func (r *Recovery) point(in []byte) (*ec.Point, error) {
	p, err := r.protocol.Curve().DecodePoint(in)
	if err != nil {
		return nil, ErrProtocol.Join(err)
	}

	return p, nil
}

func (r *Recovery) scalar(in []byte) (*group.Scalar, error) {
	s, err := r.protocol.Curve().DecodeScalar(in)
	if err != nil {
		return nil, ErrProtocol.Join(err)
	}

	return s, nil
}

// recoveryError classifies a protocol failure: an authentication failure on
// a sealed message means tampering or the wrong key, anything else is a
// protocol violation.
func recoveryError(err error) error {
	if errors.Is(err, aead.ErrOpen) {
		return ErrDecryptionFailed.Join(err)
	}

	return ErrProtocol.Join(err)
}
