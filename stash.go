// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package vaultkey

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/aead"
	"github.com/bytemare/vaultkey/internal/stash"
)

// NewStashMainKey returns a fresh random stash main key.
func NewStashMainKey() []byte {
	return internal.RandomBytes(MainKeyLength)
}

// UserSecretStash holds the filesystem keys of a user vault. At rest the
// stash is one encrypted container; the main key sealing it is itself stored
// wrapped, once per credential, so any credential can open the same stash.
type UserSecretStash struct {
	wrappedBlocks map[string]stash.WrappedKeyBlock
	fileSystemKey []byte
	resetSecret   []byte
	log           zerolog.Logger
}

// NewRandomStash returns a stash with fresh filesystem keys and no wrapped
// main keys yet.
func (c *Configuration) NewRandomStash() (*UserSecretStash, error) {
	conf := c
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	return &UserSecretStash{
		wrappedBlocks: make(map[string]stash.WrappedKeyBlock),
		fileSystemKey: internal.RandomBytes(FileSystemKeyLength),
		resetSecret:   internal.RandomBytes(ResetSecretLength),
		log:           ip.Logger,
	}, nil
}

// StashFromEncryptedContainer opens a persisted container with the stash
// main key.
func (c *Configuration) StashFromEncryptedContainer(container, mainKey []byte) (*UserSecretStash, error) {
	conf := c
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	parsed, err := stash.ParseContainer(container)
	if err != nil {
		return nil, ErrMalformedContainer.Join(err)
	}

	return stashFromParsed(ip, parsed, mainKey)
}

// StashFromEncryptedContainerWithWrappingKey opens a persisted container
// without the main key: it unwraps the copy stored under wrappingID with
// wrappingKey first, and returns the stash with the recovered main key.
func (c *Configuration) StashFromEncryptedContainerWithWrappingKey(
	container []byte,
	wrappingID string,
	wrappingKey []byte,
) (*UserSecretStash, []byte, error) {
	conf := c
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, nil, err
	}

	parsed, err := stash.ParseContainer(container)
	if err != nil {
		return nil, nil, ErrMalformedContainer.Join(err)
	}

	mainKey, err := unwrapMainKeyFromBlocks(parsed.WrappedKeyBlocks, wrappingID, wrappingKey)
	if err != nil {
		return nil, nil, err
	}

	s, err := stashFromParsed(ip, parsed, mainKey)
	if err != nil {
		return nil, nil, err
	}

	return s, mainKey, nil
}

func stashFromParsed(
	conf *internal.Configuration,
	container *stash.Container,
	mainKey []byte,
) (*UserSecretStash, error) {
	if len(mainKey) != MainKeyLength {
		return nil, ErrCodeStructural.New("wrong main key length")
	}

	plaintext, err := aead.Open(mainKey, container.Ciphertext, container.IV, container.Tag, nil)
	if err != nil {
		return nil, ErrDecryptionFailed.Join(err)
	}

	payload, err := stash.ParsePayload(plaintext)
	if err != nil {
		return nil, ErrMalformedContainer.Join(err)
	}

	return &UserSecretStash{
		wrappedBlocks: loadWrappedBlocks(conf.Logger, container.WrappedKeyBlocks),
		fileSystemKey: payload.FileSystemKey,
		resetSecret:   payload.ResetSecret,
		log:           conf.Logger,
	}, nil
}

// loadWrappedBlocks keeps the valid wrapped key blocks of a parsed container
// and skips damaged ones, so one bad block does not lose access through the
// others.
func loadWrappedBlocks(log zerolog.Logger, blocks []stash.WrappedKeyBlock) map[string]stash.WrappedKeyBlock {
	out := make(map[string]stash.WrappedKeyBlock, len(blocks))

	for _, block := range blocks {
		if block.WrappingID == "" {
			log.Warn().Msg("ignoring a wrapped key block without a wrapping id")
			continue
		}

		if _, duplicate := out[block.WrappingID]; duplicate {
			log.Warn().Str("wrapping_id", block.WrappingID).
				Msg("ignoring a wrapped key block with a duplicate wrapping id")

			continue
		}

		if block.Algorithm != stash.AESGCM256 {
			log.Warn().Str("wrapping_id", block.WrappingID).Str("algorithm", block.Algorithm.String()).
				Msg("ignoring a wrapped key block with an unusable algorithm")

			continue
		}

		if len(block.EncryptedKey) == 0 || len(block.IV) == 0 || len(block.Tag) == 0 {
			log.Warn().Str("wrapping_id", block.WrappingID).Msg("ignoring an incomplete wrapped key block")
			continue
		}

		out[block.WrappingID] = block
	}

	return out
}

// unwrapMainKeyFromBlocks opens the wrapped main key copy stored under
// wrappingID. It does not reveal whether the id was absent or the key was
// wrong.
func unwrapMainKeyFromBlocks(
	blocks []stash.WrappedKeyBlock,
	wrappingID string,
	wrappingKey []byte,
) ([]byte, error) {
	if len(wrappingKey) != aead.KeySize {
		return nil, ErrCodeStructural.New("wrong wrapping key length")
	}

	for i := range blocks {
		block := &blocks[i]
		if block.WrappingID != wrappingID || block.Algorithm != stash.AESGCM256 {
			continue
		}

		mainKey, err := aead.Open(wrappingKey, block.EncryptedKey, block.IV, block.Tag, nil)
		if err != nil {
			break
		}

		return mainKey, nil
	}

	return nil, ErrMainKeyUnwrap
}

// GetEncryptedContainer seals the stash under mainKey and returns the bytes
// to persist.
func (s *UserSecretStash) GetEncryptedContainer(mainKey []byte) ([]byte, error) {
	plaintext := stash.SerializePayload(&stash.Payload{
		FileSystemKey: s.fileSystemKey,
		ResetSecret:   s.resetSecret,
	})

	ciphertext, iv, gcmTag, err := aead.Seal(mainKey, plaintext, nil)
	if err != nil {
		return nil, ErrCodeStructural.New("wrong main key length", err)
	}

	container := &stash.Container{
		Ciphertext: ciphertext,
		IV:         iv,
		Tag:        gcmTag,
		Algorithm:  stash.AESGCM256,
	}

	for _, id := range slices.Sorted(maps.Keys(s.wrappedBlocks)) {
		container.WrappedKeyBlocks = append(container.WrappedKeyBlocks, s.wrappedBlocks[id])
	}

	return stash.SerializeContainer(container), nil
}

// AddWrappedMainKey stores a copy of mainKey wrapped under wrappingKey,
// keyed by wrappingID. Adding an id that already exists fails without
// changing the stash.
func (s *UserSecretStash) AddWrappedMainKey(mainKey []byte, wrappingID string, wrappingKey []byte) error {
	if len(mainKey) == 0 {
		return ErrCodeStructural.New("empty main key")
	}

	if wrappingID == "" {
		return ErrCodeStructural.New("empty wrapping id")
	}

	if len(wrappingKey) != aead.KeySize {
		return ErrCodeStructural.New("wrong wrapping key length")
	}

	if _, exists := s.wrappedBlocks[wrappingID]; exists {
		return ErrDuplicateWrappingID
	}

	ciphertext, iv, gcmTag, err := aead.Seal(wrappingKey, mainKey, nil)
	if err != nil {
		return ErrCodeStructural.New("wrapping the main key failed", err)
	}

	s.wrappedBlocks[wrappingID] = stash.WrappedKeyBlock{
		WrappingID:   wrappingID,
		EncryptedKey: ciphertext,
		IV:           iv,
		Tag:          gcmTag,
		Algorithm:    stash.AESGCM256,
	}

	s.log.Debug().Str("wrapping_id", wrappingID).Msg("added a wrapped main key")

	return nil
}

// RemoveWrappedMainKey deletes the wrapped key block stored under
// wrappingID.
func (s *UserSecretStash) RemoveWrappedMainKey(wrappingID string) error {
	if _, exists := s.wrappedBlocks[wrappingID]; !exists {
		return ErrUnknownWrappingID
	}

	delete(s.wrappedBlocks, wrappingID)

	s.log.Debug().Str("wrapping_id", wrappingID).Msg("removed a wrapped main key")

	return nil
}

// UnwrapMainKey opens the wrapped main key copy stored under wrappingID. It
// does not reveal whether the id was absent or the key was wrong.
func (s *UserSecretStash) UnwrapMainKey(wrappingID string, wrappingKey []byte) ([]byte, error) {
	if len(wrappingKey) != aead.KeySize {
		return nil, ErrCodeStructural.New("wrong wrapping key length")
	}

	block, exists := s.wrappedBlocks[wrappingID]
	if !exists {
		return nil, ErrMainKeyUnwrap
	}

	mainKey, err := aead.Open(wrappingKey, block.EncryptedKey, block.IV, block.Tag, nil)
	if err != nil {
		return nil, ErrMainKeyUnwrap
	}

	return mainKey, nil
}

// HasWrappedMainKey reports whether a wrapped key block exists under
// wrappingID.
func (s *UserSecretStash) HasWrappedMainKey(wrappingID string) bool {
	_, exists := s.wrappedBlocks[wrappingID]
	return exists
}

// WrappedMainKeyIDs returns the wrapping ids present, sorted.
func (s *UserSecretStash) WrappedMainKeyIDs() []string {
	return slices.Sorted(maps.Keys(s.wrappedBlocks))
}

// FileSystemKey returns the vault filesystem encryption key.
func (s *UserSecretStash) FileSystemKey() []byte {
	return s.fileSystemKey
}

// SetFileSystemKey replaces the vault filesystem encryption key.
func (s *UserSecretStash) SetFileSystemKey(key []byte) {
	s.fileSystemKey = key
}

// ResetSecret returns the secret resetting rate limiters on behalf of the
// user.
func (s *UserSecretStash) ResetSecret() []byte {
	return s.resetSecret
}

// SetResetSecret replaces the reset secret.
func (s *UserSecretStash) SetResetSecret(secret []byte) {
	s.resetSecret = secret
}
