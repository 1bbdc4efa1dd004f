// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package stash reads and writes the user secret stash's persisted binary
// layouts and validates their structure. Encryption stays with the caller;
// this package only guards the shape of what goes to and comes from disk.
package stash

import (
	"bytes"
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/bytemare/vaultkey/internal/serialized"
)

// Algorithm identifies the authenticated encryption scheme of a persisted
// record. AESGCM256 is the only recognized value; None marks the field as
// unset.
type Algorithm = serialized.UserSecretStashEncryptionAlgorithm

// Recognized Algorithm values.
const (
	None      = serialized.UserSecretStashEncryptionAlgorithmNONE
	AESGCM256 = serialized.UserSecretStashEncryptionAlgorithmAES_GCM_256
)

var (
	// ErrMalformed indicates a persisted record failing structural validation.
	ErrMalformed = errors.New("malformed user secret stash record")

	errTruncated     = fmt.Errorf("%w: truncated buffer", ErrMalformed)
	errNoAlgorithm   = fmt.Errorf("%w: container has no algorithm set", ErrMalformed)
	errBadAlgorithm  = fmt.Errorf("%w: container uses an unknown algorithm", ErrMalformed)
	errMissingFields = fmt.Errorf("%w: container is missing fields", ErrMalformed)
	errEmptyFields   = fmt.Errorf("%w: container has empty fields", ErrMalformed)
)

// WrappedKeyBlock is one independently wrapped copy of the stash main key,
// as persisted. Parsing copies blocks verbatim; per-block validation is the
// caller's concern so that damaged blocks can be skipped instead of failing
// the whole container.
type WrappedKeyBlock struct {
	WrappingID   string
	EncryptedKey []byte
	IV           []byte
	Tag          []byte
	Algorithm    Algorithm
}

// Container mirrors the outer persisted record: the encrypted payload and
// the wrapped copies of the main key.
type Container struct {
	Ciphertext       []byte
	IV               []byte
	Tag              []byte
	WrappedKeyBlocks []WrappedKeyBlock
	Algorithm        Algorithm
}

// Payload mirrors the inner record, visible only after decryption. Absent
// fields stay nil.
type Payload struct {
	FileSystemKey []byte
	ResetSecret   []byte
}

// SerializeContainer flattens c into the persisted container layout. Empty
// byte fields are left absent rather than written empty.
func SerializeContainer(c *Container) []byte {
	builder := flatbuffers.NewBuilder(0)

	blocks := make([]flatbuffers.UOffsetT, len(c.WrappedKeyBlocks))
	for i := range c.WrappedKeyBlocks {
		blocks[i] = appendWrappedKeyBlock(builder, &c.WrappedKeyBlocks[i])
	}

	serialized.UserSecretStashContainerStartWrappedKeyBlocksVector(builder, len(blocks))

	for i := len(blocks) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(blocks[i])
	}

	blockVector := builder.EndVector(len(blocks))

	ciphertext := appendBytes(builder, c.Ciphertext)
	iv := appendBytes(builder, c.IV)
	gcmTag := appendBytes(builder, c.Tag)

	serialized.UserSecretStashContainerStart(builder)
	serialized.UserSecretStashContainerAddEncryptionAlgorithm(builder, c.Algorithm)
	addBytes(builder, serialized.UserSecretStashContainerAddCiphertext, ciphertext)
	addBytes(builder, serialized.UserSecretStashContainerAddIv, iv)
	addBytes(builder, serialized.UserSecretStashContainerAddAesGcmTag, gcmTag)
	serialized.UserSecretStashContainerAddWrappedKeyBlocks(builder, blockVector)
	builder.Finish(serialized.UserSecretStashContainerEnd(builder))

	return builder.FinishedBytes()
}

func appendWrappedKeyBlock(builder *flatbuffers.Builder, block *WrappedKeyBlock) flatbuffers.UOffsetT {
	var wrappingID flatbuffers.UOffsetT
	if block.WrappingID != "" {
		wrappingID = builder.CreateString(block.WrappingID)
	}

	encryptedKey := appendBytes(builder, block.EncryptedKey)
	iv := appendBytes(builder, block.IV)
	gcmTag := appendBytes(builder, block.Tag)

	serialized.UserSecretStashWrappedKeyBlockStart(builder)
	addBytes(builder, serialized.UserSecretStashWrappedKeyBlockAddWrappingId, wrappingID)
	serialized.UserSecretStashWrappedKeyBlockAddEncryptionAlgorithm(builder, block.Algorithm)
	addBytes(builder, serialized.UserSecretStashWrappedKeyBlockAddEncryptedKey, encryptedKey)
	addBytes(builder, serialized.UserSecretStashWrappedKeyBlockAddIv, iv)
	addBytes(builder, serialized.UserSecretStashWrappedKeyBlockAddGcmTag, gcmTag)

	return serialized.UserSecretStashWrappedKeyBlockEnd(builder)
}

// ParseContainer validates the outer structure of a serialized container:
// algorithm, ciphertext, IV, and tag must all be present, the algorithm must
// be recognized, and none of the three byte fields may be empty. Wrapped key
// blocks are copied verbatim.
func ParseContainer(data []byte) (container *Container, err error) {
	defer recoverMalformed(&container, &err)

	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, errTruncated
	}

	root := serialized.GetRootAsUserSecretStashContainer(data, 0)

	algorithm := root.EncryptionAlgorithm()

	switch algorithm {
	case AESGCM256:
	case None:
		return nil, errNoAlgorithm
	default:
		return nil, errBadAlgorithm
	}

	ciphertext := root.CiphertextBytes()
	iv := root.IvBytes()
	gcmTag := root.AesGcmTagBytes()

	if ciphertext == nil || iv == nil || gcmTag == nil {
		return nil, errMissingFields
	}

	if len(ciphertext) == 0 || len(iv) == 0 || len(gcmTag) == 0 {
		return nil, errEmptyFields
	}

	blocks := make([]WrappedKeyBlock, 0, root.WrappedKeyBlocksLength())

	var block serialized.UserSecretStashWrappedKeyBlock

	for i := 0; i < root.WrappedKeyBlocksLength(); i++ {
		if !root.WrappedKeyBlocks(&block, i) {
			return nil, errMissingFields
		}

		blocks = append(blocks, WrappedKeyBlock{
			WrappingID:   string(block.WrappingId()),
			Algorithm:    block.EncryptionAlgorithm(),
			EncryptedKey: bytes.Clone(block.EncryptedKeyBytes()),
			IV:           bytes.Clone(block.IvBytes()),
			Tag:          bytes.Clone(block.GcmTagBytes()),
		})
	}

	return &Container{
		Algorithm:        algorithm,
		Ciphertext:       bytes.Clone(ciphertext),
		IV:               bytes.Clone(iv),
		Tag:              bytes.Clone(gcmTag),
		WrappedKeyBlocks: blocks,
	}, nil
}

// SerializePayload flattens p into the inner record layout. Empty fields are
// left absent.
func SerializePayload(p *Payload) []byte {
	builder := flatbuffers.NewBuilder(0)

	fileSystemKey := appendBytes(builder, p.FileSystemKey)
	resetSecret := appendBytes(builder, p.ResetSecret)

	serialized.UserSecretStashPayloadStart(builder)
	addBytes(builder, serialized.UserSecretStashPayloadAddFileSystemKey, fileSystemKey)
	addBytes(builder, serialized.UserSecretStashPayloadAddResetSecret, resetSecret)
	builder.Finish(serialized.UserSecretStashPayloadEnd(builder))

	return builder.FinishedBytes()
}

// ParsePayload parses a decrypted inner record. Fields are populated only
// when present and non-empty, so absent secrets stay absent instead of
// turning into zero values.
func ParsePayload(data []byte) (payload *Payload, err error) {
	defer recoverMalformed(&payload, &err)

	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, errTruncated
	}

	root := serialized.GetRootAsUserSecretStashPayload(data, 0)
	payload = &Payload{}

	if key := root.FileSystemKeyBytes(); len(key) != 0 {
		payload.FileSystemKey = bytes.Clone(key)
	}

	if secret := root.ResetSecretBytes(); len(secret) != 0 {
		payload.ResetSecret = bytes.Clone(secret)
	}

	return payload, nil
}

// recoverMalformed converts the out-of-bounds panics the generated accessors
// raise on corrupt input into ErrMalformed.
func recoverMalformed[T any](out **T, err *error) {
	if recover() != nil {
		*out, *err = nil, errTruncated
	}
}

func appendBytes(builder *flatbuffers.Builder, b []byte) flatbuffers.UOffsetT {
	if len(b) == 0 {
		return 0
	}

	return builder.CreateByteVector(b)
}

func addBytes(builder *flatbuffers.Builder, add func(*flatbuffers.Builder, flatbuffers.UOffsetT), offset flatbuffers.UOffsetT) {
	if offset != 0 {
		add(builder, offset)
	}
}
