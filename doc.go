// Package vaultkey implements the credential-to-key-material core of a user
// vault: hardware-backed auth blocks that turn a passkey into vault keyset
// keys, an elliptic-curve secret sharing protocol for recovery without a
// password, and an authenticated multi-wrapped container for per-user
// secrets.
//
// Auth blocks are pluggable strategies with two entry points, Create and
// Derive. The TPM-backed block wraps a random secret with a hardware-resident
// key and bounded retries; the scrypt block is software only; the recovery
// block deals its secret between a mediator and the device so that a
// mediated exchange can stand in for the password.
package vaultkey
