// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package recovery

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/bytemare/vaultkey/internal/aead"
)

// SchemaVersion is stamped into every associated data map and checked on the
// receiving side.
const SchemaVersion = 1

var (
	// ErrSchemaVersion indicates associated data from an incompatible schema.
	ErrSchemaVersion = errors.New("unsupported schema version")

	// ErrMediation indicates a response carrying a mediation error instead of
	// a payload.
	ErrMediation = errors.New("mediation failed")
)

// Associated data travels in clear but authenticated, so both parties must
// serialize the same values to identical bytes: encoding is deterministic.
var cborEncoding = newCborEncoding()

func newCborEncoding() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("cbor encoder setup: %w", err))
	}

	return em
}

// Payload is the AEAD envelope every protocol message travels in.
type Payload struct {
	Tag            []byte `cbor:"tag"`
	IV             []byte `cbor:"iv"`
	AssociatedData []byte `cbor:"associated_data"`
	CipherText     []byte `cbor:"cipher_text"`
}

func sealPayload(key, plaintext, associatedData []byte) (*Payload, error) {
	ciphertext, iv, gcmTag, err := aead.Seal(key, plaintext, associatedData)
	if err != nil {
		return nil, err
	}

	return &Payload{Tag: gcmTag, IV: iv, AssociatedData: associatedData, CipherText: ciphertext}, nil
}

func openPayload(key []byte, payload *Payload) ([]byte, error) {
	return aead.Open(key, payload.CipherText, payload.IV, payload.Tag, payload.AssociatedData)
}

// MarshalPayload serializes a payload envelope with the deterministic
// encoder, so equal envelopes yield equal bytes.
func MarshalPayload(p *Payload) ([]byte, error) {
	out, err := cborEncoding.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("payload encoding: %w", err)
	}

	return out, nil
}

// UnmarshalPayload parses a serialized payload envelope.
func UnmarshalPayload(data []byte) (*Payload, error) {
	payload := &Payload{}
	if err := cbor.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("payload encoding: %w", err)
	}

	return payload, nil
}

// UserType identifies the account type recorded in the onboarding metadata.
type UserType int

// User types exchanged with the mediation service.
const (
	UserUnknown UserType = iota
	UserGaiaID
)

// OnboardingMetadata is recorded when recovery is set up and logged by the
// mediation service when recovery is exercised.
type OnboardingMetadata struct {
	User         string   `cbor:"cryptohome_user"`
	DeviceUserID string   `cbor:"device_user_id"`
	BoardName    string   `cbor:"board_name"`
	ModelName    string   `cbor:"model_name"`
	RecoveryID   string   `cbor:"recovery_id"`
	UserType     UserType `cbor:"cryptohome_user_type"`
}

// AuthClaim proves the requestor's identity to the mediation service.
type AuthClaim struct {
	AccessToken      string `cbor:"gaia_access_token"`
	ReauthProofToken string `cbor:"gaia_reauth_proof_token"`
}

// RequestMetadata is logged by the mediation service alongside each recovery
// request.
type RequestMetadata struct {
	AuthClaim     AuthClaim `cbor:"auth_claim"`
	Requestor     string    `cbor:"requestor_user_id"`
	RequestorType UserType  `cbor:"requestor_user_id_type"`
}

// EpochResponse is the current epoch beacon published by the mediation
// service: the epoch public key and an opaque metadata map the device passes
// back unread.
type EpochResponse struct {
	EpochPubKey   []byte          `cbor:"epoch_pub_key"`
	EpochMetaData cbor.RawMessage `cbor:"epoch_meta_data,omitempty"`
}

// HSMAssociatedData is the clear part of the HSM payload.
type HSMAssociatedData struct {
	PublisherPubKey    []byte             `cbor:"publisher_pub_key"`
	ChannelPubKey      []byte             `cbor:"channel_pub_key"`
	RSAPublicKey       []byte             `cbor:"rsa_public_key,omitempty"`
	OnboardingMetaData OnboardingMetadata `cbor:"onboarding_meta_data"`
	SchemaVersion      int                `cbor:"schema_version"`
}

// HSMPlainText is the secret part of the HSM payload, readable only by the
// mediation service.
type HSMPlainText struct {
	MediatorShare []byte `cbor:"mediator_share"`
	DealerPubKey  []byte `cbor:"dealer_pub_key"`
	KeyAuthValue  []byte `cbor:"key_auth_value,omitempty"`
}

// RequestAssociatedData is the clear part of the recovery request payload.
// It carries the HSM payload through to the mediation service untouched.
type RequestAssociatedData struct {
	HSMPayload         Payload         `cbor:"hsm_payload"`
	RequestMetaData    RequestMetadata `cbor:"request_meta_data"`
	EpochMetaData      cbor.RawMessage `cbor:"epoch_meta_data,omitempty"`
	EpochPubKey        []byte          `cbor:"epoch_pub_key"`
	RequestPayloadSalt []byte          `cbor:"request_payload_salt"`
	SchemaVersion      int             `cbor:"schema_version"`
}

// RequestPlainText is the secret part of the recovery request payload.
type RequestPlainText struct {
	EphemeralInvPubKey []byte `cbor:"ephemeral_pub_inv_key"`
}

// Request is the complete message sent to the mediation service. The payload
// is nested in serialized form so it can be signed as a unit.
type Request struct {
	RequestPayload []byte `cbor:"request_payload"`
	RSASignature   []byte `cbor:"rsa_signature,omitempty"`
}

// ResponseAssociatedData is the clear part of the response payload.
type ResponseAssociatedData struct {
	ResponsePayloadSalt []byte `cbor:"response_payload_salt"`
	SchemaVersion       int    `cbor:"schema_version"`
}

// ResponsePlainText is the secret part of the response payload: the mediated
// point the destination needs, with the dealer key it belongs to.
type ResponsePlainText struct {
	MediatedPoint []byte `cbor:"mediated_point"`
	DealerPubKey  []byte `cbor:"dealer_pub_key"`
	KeyAuthValue  []byte `cbor:"key_auth_value,omitempty"`
}

// Response is the complete message returned by the mediation service. A
// non-zero error code means mediation failed and no payload is present.
type Response struct {
	ResponsePayload Payload `cbor:"response_payload"`
	ErrorString     string  `cbor:"error_string,omitempty"`
	ErrorCode       int     `cbor:"error_code,omitempty"`
}
