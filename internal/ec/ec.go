// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ec binds the P-256 scalar field to affine point arithmetic and the
// uncompressed wire encoding. Scalars ride the prime-order group abstraction;
// points use the standard affine implementation because the persisted formats
// mandate 65-byte uncompressed encodings.
package ec

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/vaultkey/internal/encoding"
)

// Wire sizes for P-256, in bytes.
const (
	// ScalarLength is the fixed big-endian scalar encoding length.
	ScalarLength = 32

	// PointLength is the uncompressed point encoding length: 0x04 || X || Y.
	PointLength = 65
)

var (
	// ErrScalarDecode indicates a scalar encoding that is mis-sized or out of range.
	ErrScalarDecode = errors.New("invalid scalar encoding")

	// ErrScalarZero indicates a zero scalar where a non-zero one is required.
	ErrScalarZero = errors.New("scalar is zero")

	// ErrPointDecode indicates a point encoding that is mis-sized, not in
	// uncompressed form, or not on the curve.
	ErrPointDecode = errors.New("invalid point encoding")

	// ErrPointAtInfinity indicates a computation degenerating to the identity.
	ErrPointAtInfinity = errors.New("point at infinity")
)

// Point is an affine curve point. The zero value is not valid; points are only
// produced by Curve operations or DecodePoint.
type Point struct {
	x, y *big.Int
}

// Equal returns whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}

	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

func (p *Point) infinity() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

// Curve exposes the group operations the recovery protocol needs over P-256.
type Curve struct {
	curve   elliptic.Curve
	scalars group.Group
}

// P256 returns the P-256 instantiation.
func P256() *Curve {
	return &Curve{curve: elliptic.P256(), scalars: group.P256Sha256}
}

// NewScalar returns a zero scalar of the curve's scalar field.
func (c *Curve) NewScalar() *group.Scalar {
	return c.scalars.NewScalar()
}

// RandomNonZeroScalar samples a uniform non-zero scalar.
func (c *Curve) RandomNonZeroScalar() *group.Scalar {
	return c.scalars.NewScalar().Random()
}

// ModAdd returns a + b in the scalar field, leaving the operands untouched.
func (c *Curve) ModAdd(a, b *group.Scalar) *group.Scalar {
	return a.Copy().Add(b)
}

// EncodeScalar serializes s as a fixed-width big-endian integer.
func (c *Curve) EncodeScalar(s *group.Scalar) []byte {
	return encoding.PadLeft(s.Encode(), ScalarLength)
}

// DecodeScalar deserializes a fixed-width big-endian scalar, rejecting
// out-of-range and zero values. No scalar this protocol serializes is zero.
func (c *Curve) DecodeScalar(in []byte) (*group.Scalar, error) {
	if len(in) != ScalarLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrScalarDecode, len(in), ScalarLength)
	}

	s := c.scalars.NewScalar()
	if err := s.Decode(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScalarDecode, err)
	}

	if s.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrScalarDecode, ErrScalarZero)
	}

	return s, nil
}

// MultiplyWithGenerator returns s * G.
func (c *Curve) MultiplyWithGenerator(s *group.Scalar) (*Point, error) {
	x, y := c.curve.ScalarBaseMult(c.EncodeScalar(s))

	return c.checked(x, y)
}

// Multiply returns s * p.
func (c *Curve) Multiply(p *Point, s *group.Scalar) (*Point, error) {
	x, y := c.curve.ScalarMult(p.x, p.y, c.EncodeScalar(s))

	return c.checked(x, y)
}

// Add returns p + q.
func (c *Curve) Add(p, q *Point) (*Point, error) {
	x, y := c.curve.Add(p.x, p.y, q.x, q.y)

	return c.checked(x, y)
}

// InvertPoint returns -p.
func (c *Curve) InvertPoint(p *Point) *Point {
	y := new(big.Int).Sub(c.curve.Params().P, p.y)
	y.Mod(y, c.curve.Params().P)

	return &Point{x: new(big.Int).Set(p.x), y: y}
}

// GenerateKey samples a fresh non-zero scalar and returns it with its public point.
func (c *Curve) GenerateKey() (*group.Scalar, *Point, error) {
	priv := c.RandomNonZeroScalar()

	pub, err := c.MultiplyWithGenerator(priv)
	if err != nil {
		return nil, nil, err
	}

	return priv, pub, nil
}

// EncodePoint serializes p in uncompressed form.
func (c *Curve) EncodePoint(p *Point) []byte {
	return elliptic.Marshal(c.curve, p.x, p.y) //nolint:staticcheck // the persisted formats mandate this encoding
}

// DecodePoint deserializes an uncompressed point, rejecting off-curve inputs
// and the point at infinity.
func (c *Curve) DecodePoint(in []byte) (*Point, error) {
	if len(in) != PointLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPointDecode, len(in), PointLength)
	}

	x, y := elliptic.Unmarshal(c.curve, in) //nolint:staticcheck // the persisted formats mandate this encoding
	if x == nil {
		return nil, ErrPointDecode
	}

	return &Point{x: x, y: y}, nil
}

// AffineX returns the fixed-width big-endian X coordinate of p, the shared
// secret material of a Diffie-Hellman exchange.
func (c *Curve) AffineX(p *Point) []byte {
	return encoding.PadLeft(p.x.Bytes(), ScalarLength)
}

func (c *Curve) checked(x, y *big.Int) (*Point, error) {
	p := &Point{x: x, y: y}
	if p.infinity() {
		return nil, ErrPointAtInfinity
	}

	return p, nil
}
