// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"bytes"
	"errors"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/bytemare/vaultkey/internal/serialized"
)

var (
	errNoVariant      = errors.New("no state variant is set")
	errManyVariants   = errors.New("more than one state variant is set")
	errUnknownVariant = errors.New("unknown state variant")
	errTruncatedState = errors.New("truncated or corrupt state")
	errWrongVariant   = errors.New("state does not belong to this block")
	errStateSalt      = errors.New("state is missing its salt")
	errStateTPMKey    = errors.New("state is missing its sealed secret")
	errStateShare     = errors.New("state is missing its destination share")
	errStatePublisher = errors.New("state is missing its publisher public key")
	errStateMediator  = errors.New("state is missing its encrypted mediator share")
)

// Serialize encodes the state into its persisted form.
func (s *AuthBlockState) Serialize() ([]byte, error) {
	if s == nil {
		return nil, ErrInvalidState.Join(errNoVariant)
	}

	count := 0

	for _, set := range []bool{s.TPMNotBoundToPCR != nil, s.Scrypt != nil, s.Recovery != nil} {
		if set {
			count++
		}
	}

	if count == 0 {
		return nil, ErrInvalidState.Join(errNoVariant)
	}

	if count > 1 {
		return nil, ErrInvalidState.Join(errManyVariants)
	}

	builder := flatbuffers.NewBuilder(0)

	var (
		variant serialized.AuthBlockState
		offset  flatbuffers.UOffsetT
	)

	switch {
	case s.TPMNotBoundToPCR != nil:
		variant = serialized.AuthBlockStateTpmNotBoundToPcrState
		offset = appendTPMNotBoundToPCRState(builder, s.TPMNotBoundToPCR)
	case s.Scrypt != nil:
		variant = serialized.AuthBlockStateScryptState
		offset = appendScryptState(builder, s.Scrypt)
	default:
		variant = serialized.AuthBlockStateRecoveryState
		offset = appendRecoveryState(builder, s.Recovery)
	}

	serialized.SerializedAuthBlockStateStart(builder)
	serialized.SerializedAuthBlockStateAddStateType(builder, variant)
	serialized.SerializedAuthBlockStateAddState(builder, offset)
	builder.Finish(serialized.SerializedAuthBlockStateEnd(builder))

	return builder.FinishedBytes(), nil
}

// DeserializeAuthBlockState decodes a state produced by Serialize, rejecting
// buffers with no variant, an unknown variant, or a broken encoding.
func DeserializeAuthBlockState(data []byte) (state *AuthBlockState, err error) {
	defer func() {
		if recover() != nil {
			state, err = nil, ErrInvalidState.Join(errTruncatedState)
		}
	}()

	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, ErrInvalidState.Join(errTruncatedState)
	}

	root := serialized.GetRootAsSerializedAuthBlockState(data, 0)

	var table flatbuffers.Table
	if !root.State(&table) {
		return nil, ErrInvalidState.Join(errNoVariant)
	}

	switch root.StateType() {
	case serialized.AuthBlockStateTpmNotBoundToPcrState:
		var tpm serialized.TpmNotBoundToPcrState

		tpm.Init(table.Bytes, table.Pos)

		return &AuthBlockState{TPMNotBoundToPCR: &TPMNotBoundToPCRState{
			Salt:             bytes.Clone(tpm.SaltBytes()),
			TPMKey:           bytes.Clone(tpm.TpmKeyBytes()),
			TPMPublicKeyHash: bytes.Clone(tpm.TpmPublicKeyHashBytes()),
			PasswordRounds:   tpm.PasswordRounds(),
			ScryptDerived:    tpm.ScryptDerived(),
		}}, nil
	case serialized.AuthBlockStateScryptState:
		var scrypt serialized.ScryptState

		scrypt.Init(table.Bytes, table.Pos)

		return &AuthBlockState{Scrypt: &ScryptState{
			Salt:           bytes.Clone(scrypt.SaltBytes()),
			WorkFactor:     scrypt.WorkFactor(),
			BlockSize:      scrypt.BlockSize(),
			ParallelFactor: scrypt.ParallelFactor(),
		}}, nil
	case serialized.AuthBlockStateRecoveryState:
		var recovery serialized.RecoveryState

		recovery.Init(table.Bytes, table.Pos)

		return &AuthBlockState{Recovery: &RecoveryState{
			Salt:                   bytes.Clone(recovery.SaltBytes()),
			DestinationShare:       bytes.Clone(recovery.DestinationShareBytes()),
			PublisherPubKey:        bytes.Clone(recovery.PublisherPubKeyBytes()),
			EncryptedMediatorShare: bytes.Clone(recovery.EncryptedMediatorShareBytes()),
		}}, nil
	default:
		return nil, ErrInvalidState.Join(errUnknownVariant)
	}
}

func appendTPMNotBoundToPCRState(
	builder *flatbuffers.Builder,
	state *TPMNotBoundToPCRState,
) flatbuffers.UOffsetT {
	salt := createByteVector(builder, state.Salt)
	tpmKey := createByteVector(builder, state.TPMKey)
	hash := createByteVector(builder, state.TPMPublicKeyHash)

	serialized.TpmNotBoundToPcrStateStart(builder)
	serialized.TpmNotBoundToPcrStateAddScryptDerived(builder, state.ScryptDerived)

	if salt != 0 {
		serialized.TpmNotBoundToPcrStateAddSalt(builder, salt)
	}

	serialized.TpmNotBoundToPcrStateAddPasswordRounds(builder, state.PasswordRounds)

	if tpmKey != 0 {
		serialized.TpmNotBoundToPcrStateAddTpmKey(builder, tpmKey)
	}

	if hash != 0 {
		serialized.TpmNotBoundToPcrStateAddTpmPublicKeyHash(builder, hash)
	}

	return serialized.TpmNotBoundToPcrStateEnd(builder)
}

func appendScryptState(builder *flatbuffers.Builder, state *ScryptState) flatbuffers.UOffsetT {
	salt := createByteVector(builder, state.Salt)

	serialized.ScryptStateStart(builder)

	if salt != 0 {
		serialized.ScryptStateAddSalt(builder, salt)
	}

	serialized.ScryptStateAddWorkFactor(builder, state.WorkFactor)
	serialized.ScryptStateAddBlockSize(builder, state.BlockSize)
	serialized.ScryptStateAddParallelFactor(builder, state.ParallelFactor)

	return serialized.ScryptStateEnd(builder)
}

func appendRecoveryState(builder *flatbuffers.Builder, state *RecoveryState) flatbuffers.UOffsetT {
	salt := createByteVector(builder, state.Salt)
	share := createByteVector(builder, state.DestinationShare)
	pub := createByteVector(builder, state.PublisherPubKey)
	mediator := createByteVector(builder, state.EncryptedMediatorShare)

	serialized.RecoveryStateStart(builder)

	if salt != 0 {
		serialized.RecoveryStateAddSalt(builder, salt)
	}

	if share != 0 {
		serialized.RecoveryStateAddDestinationShare(builder, share)
	}

	if pub != 0 {
		serialized.RecoveryStateAddPublisherPubKey(builder, pub)
	}

	if mediator != 0 {
		serialized.RecoveryStateAddEncryptedMediatorShare(builder, mediator)
	}

	return serialized.RecoveryStateEnd(builder)
}

func createByteVector(builder *flatbuffers.Builder, data []byte) flatbuffers.UOffsetT {
	if len(data) == 0 {
		return 0
	}

	return builder.CreateByteVector(data)
}
