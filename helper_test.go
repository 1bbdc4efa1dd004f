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
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/bytemare/vaultkey"
	"github.com/bytemare/vaultkey/internal/aead"
)

const testHandle = vaultkey.KeyHandle(7)

// testConfiguration returns a configuration with cheap scrypt parameters, so
// derivations stay fast.
func testConfiguration() *vaultkey.Configuration {
	c := vaultkey.DefaultConfiguration()
	c.ScryptN = 16
	c.ScryptR = 1
	c.ScryptP = 1
	c.PasswordRounds = 3

	return c
}

func expectCode(t *testing.T, err error, code vaultkey.ErrorCode) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected an error with code %q, got nil", code)
	}

	var got vaultkey.ErrorCode
	if !errors.As(err, &got) {
		t.Fatalf("error carries no code: %v", err)
	}

	if got != code {
		t.Fatalf("wrong error code: want %q, got %q (%v)", code, got, err)
	}
}

func expectSentinel(t *testing.T, err, sentinel error) {
	t.Helper()

	if !errors.Is(err, sentinel) {
		t.Fatalf("want %q in the error chain, got %v", sentinel, err)
	}
}

func expectActions(t *testing.T, err error, actions vaultkey.Action) {
	t.Helper()

	var vkErr *vaultkey.Error
	if !errors.As(err, &vkErr) {
		t.Fatalf("error is not a vaultkey error: %v", err)
	}

	if !vkErr.Actions.Has(actions) {
		t.Fatalf("want actions %q, got %q", actions, vkErr.Actions)
	}
}

func retriable(message string) error {
	return &vaultkey.DeviceError{Err: errors.New(message), Class: vaultkey.DeviceRetriable}
}

func unavailable(message string) error {
	return &vaultkey.DeviceError{Err: errors.New(message), Class: vaultkey.DeviceUnavailable}
}

func fatal(message string) error {
	return &vaultkey.DeviceError{Err: errors.New(message), Class: vaultkey.DeviceFatal}
}

func handleBytes(handle vaultkey.KeyHandle) []byte {
	var b [4]byte

	binary.BigEndian.PutUint32(b[:], uint32(handle))

	return b[:]
}

// fakeModule emulates a security module with real authenticated encryption:
// blobs seal under a key derived from the session key and are bound to the
// handle, so only the original session key opens them. Scripted failures are
// consumed one per encrypt or decrypt call.
type fakeModule struct {
	hashErr    error
	pubKeyHash []byte
	failures   []error
	encrypts   int
	decrypts   int
}

func newFakeModule() *fakeModule {
	return &fakeModule{pubKeyHash: bytes.Repeat([]byte{0xA5}, 32)}
}

func (m *fakeModule) nextFailure() error {
	if len(m.failures) == 0 {
		return nil
	}

	err := m.failures[0]
	m.failures = m.failures[1:]

	return err
}

func (m *fakeModule) EncryptBlob(handle vaultkey.KeyHandle, plaintext, sessionKey []byte) ([]byte, error) {
	m.encrypts++

	if err := m.nextFailure(); err != nil {
		return nil, err
	}

	key := sha256.Sum256(sessionKey)

	ciphertext, iv, gcmTag, err := aead.Seal(key[:], plaintext, handleBytes(handle))
	if err != nil {
		return nil, &vaultkey.DeviceError{Err: err, Class: vaultkey.DeviceFatal}
	}

	out := make([]byte, 0, len(iv)+len(gcmTag)+len(ciphertext))
	out = append(out, iv...)
	out = append(out, gcmTag...)
	out = append(out, ciphertext...)

	return out, nil
}

func (m *fakeModule) DecryptBlob(handle vaultkey.KeyHandle, blob, sessionKey []byte) ([]byte, error) {
	m.decrypts++

	if err := m.nextFailure(); err != nil {
		return nil, err
	}

	if len(blob) < aead.IVSize+aead.TagSize {
		return nil, &vaultkey.DeviceError{Err: errors.New("short blob"), Class: vaultkey.DeviceFatal}
	}

	key := sha256.Sum256(sessionKey)
	iv := blob[:aead.IVSize]
	gcmTag := blob[aead.IVSize : aead.IVSize+aead.TagSize]
	ciphertext := blob[aead.IVSize+aead.TagSize:]

	plaintext, err := aead.Open(key[:], ciphertext, iv, gcmTag, handleBytes(handle))
	if err != nil {
		return nil, &vaultkey.DeviceError{Err: err, Class: vaultkey.DeviceFatal}
	}

	return plaintext, nil
}

func (m *fakeModule) GetPublicKeyHash(_ vaultkey.KeyHandle) ([]byte, error) {
	if m.hashErr != nil {
		return nil, m.hashErr
	}

	return m.pubKeyHash, nil
}

// fakeLoader keeps the wrapping key handle stable across reloads, like a
// loader reloading the same key would.
type fakeLoader struct {
	initErr   error
	reloadErr error
	inits     int
	reloads   int
	loaded    bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{loaded: true}
}

func (l *fakeLoader) HasKey() bool {
	return l.loaded
}

func (l *fakeLoader) Init() error {
	l.inits++

	if l.initErr != nil {
		return l.initErr
	}

	l.loaded = true

	return nil
}

func (l *fakeLoader) ReloadKey() error {
	l.reloads++

	if l.reloadErr != nil {
		return l.reloadErr
	}

	l.loaded = true

	return nil
}

func (l *fakeLoader) Key() vaultkey.KeyHandle {
	return testHandle
}

func newTPMBlock(t *testing.T, conf *vaultkey.Configuration) (*vaultkey.TPMNotBoundToPCRBlock, *fakeModule, *fakeLoader) {
	t.Helper()

	module := newFakeModule()
	loader := newFakeLoader()

	block, err := vaultkey.NewTPMNotBoundToPCRBlock(conf, module, loader)
	if err != nil {
		t.Fatal(err)
	}

	return block, module, loader
}
