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
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/bytemare/vaultkey"
	"github.com/bytemare/vaultkey/internal/recovery"
	"github.com/bytemare/vaultkey/internal/tag"
)

var (
	testShareInfo = []byte("test share flow")
	testShareSalt = bytes.Repeat([]byte{0x42}, 32)
)

func newRecovery(t *testing.T) (*vaultkey.Recovery, *vaultkey.Mediator) {
	t.Helper()

	rec, err := vaultkey.NewRecovery(testConfiguration())
	if err != nil {
		t.Fatal(err)
	}

	mediator, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	return rec, mediator
}

func testMetadata() vaultkey.OnboardingMetadata {
	return vaultkey.OnboardingMetadata{
		User:         "user@example.com",
		DeviceUserID: "device-6e6f9a",
		BoardName:    "brya",
		ModelName:    "taniks",
		RecoveryID:   "8d2f5e30",
		UserType:     vaultkey.UserGaiaID,
	}
}

func TestRecovery_SimpleFlow(t *testing.T) {
	rec, mediator := newRecovery(t)

	encryptedShare, destinationShare, dealerPubKey, err := rec.GenerateShares(
		mediator.PubKey(), testShareInfo, testShareSalt)
	if err != nil {
		t.Fatal(err)
	}

	publisherPubKey, publisherDH, err := rec.GeneratePublisherKeys(dealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	mediatedPubKey, err := rec.MediateShare(
		mediator.PrivKey(), encryptedShare, publisherPubKey, testShareInfo, testShareSalt)
	if err != nil {
		t.Fatal(err)
	}

	destinationDH, err := rec.RecoverDestination(publisherPubKey, destinationShare, nil, mediatedPubKey)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(destinationDH, publisherDH) {
		t.Error("destination did not recover the publisher's key agreement point")
	}

	publisherKey, err := rec.RecoveryKey(publisherDH, publisherPubKey)
	if err != nil {
		t.Fatal(err)
	}

	destinationKey, err := rec.RecoveryKey(destinationDH, publisherPubKey)
	if err != nil {
		t.Fatal(err)
	}

	if len(publisherKey) != 32 {
		t.Errorf("want a 32 byte recovery key, got %d", len(publisherKey))
	}

	if !bytes.Equal(publisherKey, destinationKey) {
		t.Error("both sides must derive the same recovery key")
	}
}

func TestRecovery_ShareDealing(t *testing.T) {
	protocol := recovery.P256Sha256()
	curve := protocol.Curve()

	mediator, err := recovery.NewMediator(protocol)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 16; i++ {
		encrypted, destinationShare, dealerPub, err := protocol.GenerateShares(
			mediator.PubKey(), testShareInfo, testShareSalt)
		if err != nil {
			t.Fatal(err)
		}

		mediatorShare, err := protocol.DecryptShare(mediator.PrivKey(), encrypted, testShareInfo, testShareSalt)
		if err != nil {
			t.Fatal(err)
		}

		if destinationShare.IsZero() || mediatorShare.IsZero() {
			t.Fatal("shares must be non-zero")
		}

		secret := curve.ModAdd(destinationShare, mediatorShare)
		if secret.IsZero() {
			t.Fatal("the dealt secret must be non-zero")
		}

		dealt, err := curve.MultiplyWithGenerator(secret)
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(curve.EncodePoint(dealt), curve.EncodePoint(dealerPub)) {
			t.Fatal("shares must sum to the dealer secret")
		}
	}
}

func TestRecovery_HSMFlow(t *testing.T) {
	rec, mediator := newRecovery(t)

	onboarding, err := rec.GenerateHSMPayload(mediator.PubKey(), nil, testMetadata())
	if err != nil {
		t.Fatal(err)
	}

	if len(onboarding.HSMPayload) == 0 {
		t.Fatal("expected a serialized payload")
	}

	if len(onboarding.RecoveryKey) != 32 {
		t.Errorf("want a 32 byte recovery key, got %d", len(onboarding.RecoveryKey))
	}

	if len(onboarding.DestinationShare) != 32 || len(onboarding.ChannelPrivKey) != 32 {
		t.Error("scalars must encode to 32 bytes")
	}

	if len(onboarding.ChannelPubKey) != 65 {
		t.Errorf("want a 65 byte channel public key, got %d", len(onboarding.ChannelPubKey))
	}

	metadata := vaultkey.RequestMetadata{
		AuthClaim: vaultkey.AuthClaim{
			AccessToken:      "access-token",
			ReauthProofToken: "reauth-proof-token",
		},
		Requestor:     "user@example.com",
		RequestorType: vaultkey.UserGaiaID,
	}

	request, ephemeralPubKey, err := rec.GenerateRecoveryRequest(
		onboarding.HSMPayload,
		metadata,
		mediator.Epoch(),
		onboarding.ChannelPrivKey,
		onboarding.ChannelPubKey,
	)
	if err != nil {
		t.Fatal(err)
	}

	response, err := mediator.MediateRequest(request)
	if err != nil {
		t.Fatal(err)
	}

	plain, err := rec.DecryptResponsePayload(onboarding.ChannelPrivKey, mediator.Epoch(), response)
	if err != nil {
		t.Fatal(err)
	}

	if len(plain.MediatedPoint) != 65 || len(plain.DealerPubKey) != 65 {
		t.Fatal("response points must be uncompressed encodings")
	}

	destinationDH, err := rec.RecoverDestination(
		plain.DealerPubKey,
		onboarding.DestinationShare,
		ephemeralPubKey,
		plain.MediatedPoint,
	)
	if err != nil {
		t.Fatal(err)
	}

	recovered, err := rec.RecoveryKey(destinationDH, plain.DealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(recovered, onboarding.RecoveryKey) {
		t.Error("recovery must reproduce the onboarded key")
	}
}

func TestRecovery_MediateWrongKey(t *testing.T) {
	rec, mediator := newRecovery(t)

	other, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	encryptedShare, _, dealerPubKey, err := rec.GenerateShares(mediator.PubKey(), testShareInfo, testShareSalt)
	if err != nil {
		t.Fatal(err)
	}

	publisherPubKey, _, err := rec.GeneratePublisherKeys(dealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	_, err = rec.MediateShare(other.PrivKey(), encryptedShare, publisherPubKey, testShareInfo, testShareSalt)
	if err == nil {
		t.Fatal("expected an error for the wrong mediator key")
	}

	expectSentinel(t, err, vaultkey.ErrDecryptionFailed)
}

func TestRecovery_TamperedShare(t *testing.T) {
	rec, mediator := newRecovery(t)

	encryptedShare, _, dealerPubKey, err := rec.GenerateShares(mediator.PubKey(), testShareInfo, testShareSalt)
	if err != nil {
		t.Fatal(err)
	}

	publisherPubKey, _, err := rec.GeneratePublisherKeys(dealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	tampered := bytes.Clone(encryptedShare)
	tampered[0] ^= 1

	_, err = rec.MediateShare(mediator.PrivKey(), tampered, publisherPubKey, testShareInfo, testShareSalt)
	if err == nil {
		t.Fatal("expected an error for a tampered share")
	}

	expectSentinel(t, err, vaultkey.ErrDecryptionFailed)

	_, err = rec.MediateShare(
		mediator.PrivKey(), encryptedShare[:40], publisherPubKey, testShareInfo, testShareSalt)
	if err == nil {
		t.Fatal("expected an error for a truncated share")
	}

	expectSentinel(t, err, vaultkey.ErrProtocol)

	if !errors.Is(err, recovery.ErrShareEncoding) {
		t.Errorf("want %q in the chain, got %q", recovery.ErrShareEncoding, err)
	}
}

func TestRecovery_WrongInfo(t *testing.T) {
	rec, mediator := newRecovery(t)

	encryptedShare, _, dealerPubKey, err := rec.GenerateShares(mediator.PubKey(), testShareInfo, testShareSalt)
	if err != nil {
		t.Fatal(err)
	}

	publisherPubKey, _, err := rec.GeneratePublisherKeys(dealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	_, err = rec.MediateShare(
		mediator.PrivKey(), encryptedShare, publisherPubKey, []byte("another context"), testShareSalt)
	if err == nil {
		t.Fatal("expected an error for a mismatched info string")
	}

	expectSentinel(t, err, vaultkey.ErrDecryptionFailed)
}

func TestRecovery_BadEncodings(t *testing.T) {
	rec, mediator := newRecovery(t)

	badPoint := bytes.Repeat([]byte{0x04}, 65)
	badScalar := bytes.Repeat([]byte{0xFF}, 32)

	if _, _, _, err := rec.GenerateShares(nil, testShareInfo, nil); err == nil {
		t.Error("expected an error for an empty mediator key")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	if _, _, _, err := rec.GenerateShares(badPoint, testShareInfo, nil); err == nil {
		t.Error("expected an error for a point off the curve")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	if _, _, err := rec.GeneratePublisherKeys(badPoint); err == nil {
		t.Error("expected an error for a bad dealer key")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	encryptedShare, _, dealerPubKey, err := rec.GenerateShares(mediator.PubKey(), testShareInfo, nil)
	if err != nil {
		t.Fatal(err)
	}

	publisherPubKey, _, err := rec.GeneratePublisherKeys(dealerPubKey)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rec.MediateShare(badScalar, encryptedShare, publisherPubKey, testShareInfo, nil); err == nil {
		t.Error("expected an error for an out of range private key")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	if _, err := rec.RecoverDestination(publisherPubKey, badScalar, nil, publisherPubKey); err == nil {
		t.Error("expected an error for an out of range share")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	if _, err := rec.RecoveryKey(badPoint, publisherPubKey); err == nil {
		t.Error("expected an error for a bad key agreement point")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}
}

func TestRecovery_EpochMismatch(t *testing.T) {
	rec, mediator := newRecovery(t)

	other, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	onboarding, err := rec.GenerateHSMPayload(mediator.PubKey(), nil, testMetadata())
	if err != nil {
		t.Fatal(err)
	}

	request, _, err := rec.GenerateRecoveryRequest(
		onboarding.HSMPayload,
		vaultkey.RequestMetadata{Requestor: "user@example.com", RequestorType: vaultkey.UserGaiaID},
		mediator.Epoch(),
		onboarding.ChannelPrivKey,
		onboarding.ChannelPubKey,
	)
	if err != nil {
		t.Fatal(err)
	}

	response, err := mediator.MediateRequest(request)
	if err != nil {
		t.Fatal(err)
	}

	_, err = rec.DecryptResponsePayload(onboarding.ChannelPrivKey, other.Epoch(), response)
	if err == nil {
		t.Fatal("expected an error for a mismatched epoch")
	}

	expectSentinel(t, err, vaultkey.ErrDecryptionFailed)
}

func TestRecovery_MediationError(t *testing.T) {
	rec, _ := newRecovery(t)

	response, err := cbor.Marshal(recovery.Response{ErrorCode: 404, ErrorString: "unknown device"})
	if err != nil {
		t.Fatal(err)
	}

	key := bytes.Repeat([]byte{0x01}, 32)

	_, err = rec.DecryptResponsePayload(key, &vaultkey.EpochResponse{}, response)
	if err == nil {
		t.Fatal("expected an error for a mediation failure")
	}

	expectSentinel(t, err, vaultkey.ErrProtocol)

	if !errors.Is(err, recovery.ErrMediation) {
		t.Errorf("want %q in the chain, got %q", recovery.ErrMediation, err)
	}
}

func TestMediator_GarbageRequest(t *testing.T) {
	_, mediator := newRecovery(t)

	if _, err := mediator.MediateRequest([]byte("not cbor")); err == nil {
		t.Error("expected an error for a malformed request")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}
}

func TestRecoveryBlock_CreateDerive(t *testing.T) {
	conf := testConfiguration()

	mediator, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	block, err := vaultkey.NewRecoveryBlock(conf, mediator.PubKey())
	if err != nil {
		t.Fatal(err)
	}

	state, blobs, err := block.Create(nil)
	if err != nil {
		t.Fatal(err)
	}

	if state.Recovery == nil {
		t.Fatal("expected a recovery state")
	}

	if len(blobs.VKK) != vaultkey.SecretLength ||
		len(blobs.VKKIV) != vaultkey.BlockIVLength ||
		len(blobs.ChapsIV) != vaultkey.BlockIVLength {
		t.Fatal("unexpected key blob geometry")
	}

	rs := state.Recovery

	if len(rs.Salt) != conf.SaltLength {
		t.Errorf("want a %d byte salt, got %d", conf.SaltLength, len(rs.Salt))
	}

	if len(rs.DestinationShare) != 32 || len(rs.PublisherPubKey) != 65 {
		t.Error("unexpected share encoding geometry")
	}

	if len(rs.EncryptedMediatorShare) != recovery.EncryptedShareLength {
		t.Errorf("want a %d byte encrypted share, got %d",
			recovery.EncryptedShareLength, len(rs.EncryptedMediatorShare))
	}

	rec, err := vaultkey.NewRecovery(conf)
	if err != nil {
		t.Fatal(err)
	}

	mediatedPubKey, err := rec.MediateShare(
		mediator.PrivKey(), rs.EncryptedMediatorShare, rs.PublisherPubKey, []byte(tag.HSMPayload), nil)
	if err != nil {
		t.Fatal(err)
	}

	derived, err := block.Derive(
		&vaultkey.AuthInput{Recovery: &vaultkey.RecoveryAuthInput{MediatedPublisherPubKey: mediatedPubKey}},
		state,
	)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(derived.VKK, blobs.VKK) ||
		!bytes.Equal(derived.VKKIV, blobs.VKKIV) ||
		!bytes.Equal(derived.ChapsIV, blobs.ChapsIV) {
		t.Error("mediation must reproduce the key blobs from setup")
	}
}

func TestRecoveryBlock_StatePersistence(t *testing.T) {
	conf := testConfiguration()

	mediator, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	block, err := vaultkey.NewRecoveryBlock(conf, mediator.PubKey())
	if err != nil {
		t.Fatal(err)
	}

	state, blobs, err := block.Create(nil)
	if err != nil {
		t.Fatal(err)
	}

	data, err := state.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := vaultkey.DeserializeAuthBlockState(data)
	if err != nil {
		t.Fatal(err)
	}

	rec, err := vaultkey.NewRecovery(conf)
	if err != nil {
		t.Fatal(err)
	}

	mediatedPubKey, err := rec.MediateShare(
		mediator.PrivKey(),
		restored.Recovery.EncryptedMediatorShare,
		restored.Recovery.PublisherPubKey,
		[]byte(tag.HSMPayload),
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	derived, err := block.Derive(
		&vaultkey.AuthInput{Recovery: &vaultkey.RecoveryAuthInput{MediatedPublisherPubKey: mediatedPubKey}},
		restored,
	)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(derived.VKK, blobs.VKK) {
		t.Error("a reloaded state must derive the same key blobs")
	}
}

func TestRecoveryBlock_Errors(t *testing.T) {
	conf := testConfiguration()

	mediator, err := vaultkey.NewMediator()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := vaultkey.NewRecoveryBlock(conf, []byte("not a point")); err == nil {
		t.Error("expected an error for a bad mediator key")
	} else {
		expectSentinel(t, err, vaultkey.ErrProtocol)
	}

	block, err := vaultkey.NewRecoveryBlock(conf, mediator.PubKey())
	if err != nil {
		t.Fatal(err)
	}

	state, _, err := block.Create(nil)
	if err != nil {
		t.Fatal(err)
	}

	input := &vaultkey.AuthInput{Recovery: &vaultkey.RecoveryAuthInput{
		MediatedPublisherPubKey: state.Recovery.PublisherPubKey,
	}}

	t.Run("missing input", func(t *testing.T) {
		for _, in := range []*vaultkey.AuthInput{nil, {}, {Credential: []byte("password")}} {
			if _, err := block.Derive(in, state); err == nil {
				t.Error("expected an error without mediated input")
			} else {
				expectCode(t, err, vaultkey.ErrCodeDerivation)
			}
		}
	})

	t.Run("missing state", func(t *testing.T) {
		states := []*vaultkey.AuthBlockState{
			nil,
			{},
			{Scrypt: &vaultkey.ScryptState{Salt: []byte("0123456789abcdef")}},
			{Recovery: &vaultkey.RecoveryState{
				DestinationShare: state.Recovery.DestinationShare,
				PublisherPubKey:  state.Recovery.PublisherPubKey,
			}},
			{Recovery: &vaultkey.RecoveryState{
				Salt:            state.Recovery.Salt,
				PublisherPubKey: state.Recovery.PublisherPubKey,
			}},
			{Recovery: &vaultkey.RecoveryState{
				Salt:             state.Recovery.Salt,
				DestinationShare: state.Recovery.DestinationShare,
			}},
		}

		for _, st := range states {
			if _, err := block.Derive(input, st); err == nil {
				t.Error("expected an error for an unusable state")
			} else {
				expectSentinel(t, err, vaultkey.ErrInvalidState)
			}
		}
	})

	t.Run("bad mediated point", func(t *testing.T) {
		bad := &vaultkey.AuthInput{Recovery: &vaultkey.RecoveryAuthInput{
			MediatedPublisherPubKey: bytes.Repeat([]byte{0x04}, 65),
		}}

		if _, err := block.Derive(bad, state); err == nil {
			t.Error("expected an error for a bad mediated point")
		} else {
			expectSentinel(t, err, vaultkey.ErrProtocol)
		}
	})
}
