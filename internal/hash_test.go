// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal_test

import (
	"bytes"
	"crypto"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/bytemare/vaultkey/internal"
	"github.com/bytemare/vaultkey/internal/kdf"
)

var (
	testSecret = []byte("input keying material")
	testSalt   = []byte("0123456789abcdef")
	testInfo   = []byte("application info")
)

func TestKDF(t *testing.T) {
	k := internal.NewKDF(crypto.SHA256)

	if k.Size() != sha256.Size {
		t.Fatalf("want %d, got %d", sha256.Size, k.Size())
	}

	prk := k.Extract(testSalt, testSecret)
	if len(prk) != k.Size() {
		t.Fatalf("want %d bytes, got %d", k.Size(), len(prk))
	}

	// HKDF-Extract is HMAC keyed with the salt over the keying material.
	mac := hmac.New(sha256.New, testSalt)
	mac.Write(testSecret)

	if !bytes.Equal(prk, mac.Sum(nil)) {
		t.Fatal("extraction does not match the hmac construction")
	}

	okm := k.Expand(prk, testInfo, 64)
	if len(okm) != 64 {
		t.Fatalf("want 64 bytes, got %d", len(okm))
	}

	if !bytes.Equal(k.Derive(testSecret, testSalt, testInfo, 64), okm) {
		t.Fatal("derivation does not match extract-then-expand")
	}

	if bytes.Equal(okm, k.Expand(prk, []byte("other info"), 64)) {
		t.Fatal("info did not separate the expansions")
	}
}

func TestMac(t *testing.T) {
	m := internal.NewMac(crypto.SHA256)
	key := bytes.Repeat([]byte{0x0b}, 32)
	message := []byte("message to authenticate")

	out := m.MAC(key, message)
	if len(out) != m.Size() {
		t.Fatalf("want %d bytes, got %d", m.Size(), len(out))
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(message)

	if !bytes.Equal(out, mac.Sum(nil)) {
		t.Fatal("mac does not match the hmac construction")
	}

	if !m.Equal(out, m.MAC(key, message)) {
		t.Fatal("equal macs compared as different")
	}

	if m.Equal(out, m.MAC(key, []byte("another message"))) {
		t.Fatal("different messages compared as equal")
	}

	if m.Equal(out, m.MAC(bytes.Repeat([]byte{0x0c}, 32), message)) {
		t.Fatal("different keys compared as equal")
	}
}

func TestConfiguration_SecretSchedule(t *testing.T) {
	conf := &internal.Configuration{Scrypt: kdf.Params{N: 16, R: 1, P: 1}}
	credential := []byte("correct horse battery staple")

	aesSKey, kdfSKey, iv, err := conf.SecretSchedule(credential, testSalt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(aesSKey) != internal.SecretLength || len(kdfSKey) != internal.SecretLength {
		t.Fatalf("want %d byte keys, got %d and %d", internal.SecretLength, len(aesSKey), len(kdfSKey))
	}

	if len(iv) != internal.BlockIVLength {
		t.Fatalf("want a %d byte iv, got %d", internal.BlockIVLength, len(iv))
	}

	if bytes.Equal(aesSKey, kdfSKey) {
		t.Fatal("the schedule repeated a secret")
	}

	aesSKey2, kdfSKey2, iv2, err := conf.SecretSchedule(credential, testSalt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(aesSKey, aesSKey2) || !bytes.Equal(kdfSKey, kdfSKey2) || !bytes.Equal(iv, iv2) {
		t.Fatal("the schedule is not deterministic")
	}

	// The schedule is a single stretched pass split in order.
	secrets, err := kdf.DeriveSecrets(credential, testSalt, conf.Scrypt,
		internal.SecretLength, internal.SecretLength, internal.BlockIVLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(aesSKey, secrets[0]) || !bytes.Equal(kdfSKey, secrets[1]) || !bytes.Equal(iv, secrets[2]) {
		t.Fatal("the schedule diverged from the underlying derivation")
	}

	if _, _, _, err := conf.SecretSchedule(nil, testSalt); !errors.Is(err, kdf.ErrEmptyCredential) {
		t.Fatalf("want %q, got %v", kdf.ErrEmptyCredential, err)
	}
}

func TestRandomBytes(t *testing.T) {
	for _, length := range []int{0, 16, 32, 64} {
		if got := len(internal.RandomBytes(length)); got != length {
			t.Fatalf("want %d bytes, got %d", length, got)
		}
	}

	if bytes.Equal(internal.RandomBytes(32), internal.RandomBytes(32)) {
		t.Fatal("sampled the same bytes twice")
	}
}
