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

	"github.com/bytemare/vaultkey/internal"
)

var (
	errNoModule     = errors.New("a security module and a key loader are required")
	errKeyNotLoaded = errors.New("wrapping key could not be loaded")
	errReloadFailed = errors.New("wrapping key could not be reloaded")
)

// KeyWrapper seals secrets under the security module's wrapping key. It
// retries transient module failures up to the configured bound, reloading
// the key between attempts.
type KeyWrapper struct {
	module SecurityModule
	loader KeyLoader
	conf   *internal.Configuration
}

// NewKeyWrapper returns a KeyWrapper over module and loader. If conf is nil,
// the default configuration is used.
func NewKeyWrapper(conf *Configuration, module SecurityModule, loader KeyLoader) (*KeyWrapper, error) {
	if conf == nil {
		conf = DefaultConfiguration()
	}

	ip, err := conf.toInternal()
	if err != nil {
		return nil, err
	}

	return newKeyWrapper(ip, module, loader)
}

func newKeyWrapper(conf *internal.Configuration, module SecurityModule, loader KeyLoader) (*KeyWrapper, error) {
	if module == nil || loader == nil {
		return nil, ErrConfiguration.Join(errNoModule)
	}

	return &KeyWrapper{module: module, loader: loader, conf: conf}, nil
}

// ensureKey loads the wrapping key if the loader has none cached.
func (w *KeyWrapper) ensureKey() error {
	if w.loader.HasKey() {
		return nil
	}

	if err := w.loader.Init(); err != nil {
		return ErrDevice.WithActions(ActionRetry, ActionPowerwash).Join(errKeyNotLoaded, err)
	}

	if !w.loader.HasKey() {
		return ErrDevice.WithActions(ActionRetry, ActionPowerwash).Join(errKeyNotLoaded)
	}

	return nil
}

// run calls op with the loaded key handle, reloading the key and retrying
// after every transient failure, at most DeviceRetries times. A definitive
// failure returns fatal with the cause attached; exhausting the bound
// escalates the last transient failure.
func (w *KeyWrapper) run(op string, fatal *Error, call func(handle KeyHandle) ([]byte, error)) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= w.conf.DeviceRetries; attempt++ {
		out, err := call(w.loader.Key())
		if err == nil {
			return out, nil
		}

		if classifyDeviceError(err) == DeviceFatal {
			return nil, fatal.Join(err)
		}

		lastErr = ErrCodeRetriableDevice.New("transient security module failure", err)

		if reloadErr := w.loader.ReloadKey(); reloadErr != nil {
			return nil, ErrDevice.Join(errReloadFailed, reloadErr)
		}

		w.conf.Logger.Debug().
			Str("op", op).
			Int("attempt", attempt).
			Err(err).
			Msg("security module failed, retrying with a reloaded key")
	}

	return nil, ErrRetriesExhausted.Join(lastErr)
}

// WrapSecret seals secret under the wrapping key, bound to sessionKey, and
// reads the wrapping key's fingerprint for later readiness checks. A missing
// fingerprint is logged but not an error: the sealed secret stays usable
// without it.
func (w *KeyWrapper) WrapSecret(secret, sessionKey []byte) (wrapped, pubKeyHash []byte, err error) {
	if err = w.ensureKey(); err != nil {
		return nil, nil, err
	}

	wrapped, err = w.run("wrap", ErrDevice, func(handle KeyHandle) ([]byte, error) {
		return w.module.EncryptBlob(handle, secret, sessionKey)
	})
	if err != nil {
		return nil, nil, err
	}

	pubKeyHash, hashErr := w.module.GetPublicKeyHash(w.loader.Key())
	if hashErr != nil {
		w.conf.Logger.Warn().Err(hashErr).Msg("sealed a secret without a public key hash")

		pubKeyHash = nil
	}

	return wrapped, pubKeyHash, nil
}

// UnwrapSecret opens a blob sealed by WrapSecret. The module verifies the
// session key, so a definitive rejection means the credential behind it is
// wrong.
func (w *KeyWrapper) UnwrapSecret(wrapped, sessionKey []byte) ([]byte, error) {
	if err := w.ensureKey(); err != nil {
		return nil, err
	}

	return w.run("unwrap", ErrIncorrectCredential, func(handle KeyHandle) ([]byte, error) {
		return w.module.DecryptBlob(handle, wrapped, sessionKey)
	})
}

// CheckReadiness verifies the module still holds the wrapping key a secret
// was sealed with. An empty expectedHash skips the fingerprint comparison
// and only checks that a key is loaded.
func (w *KeyWrapper) CheckReadiness(expectedHash []byte) error {
	if err := w.ensureKey(); err != nil {
		return err
	}

	if len(expectedHash) == 0 {
		return nil
	}

	hash, err := w.module.GetPublicKeyHash(w.loader.Key())
	if err != nil {
		if classifyDeviceError(err) == DeviceFatal {
			return ErrDevice.Join(err)
		}

		return ErrCodeRetriableDevice.New("public key hash unavailable", err)
	}

	if !w.conf.MAC.Equal(hash, expectedHash) {
		return ErrKeyMismatch
	}

	return nil
}
