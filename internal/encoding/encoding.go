// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides byte assembly helpers for key schedules and wire layouts.
package encoding

// Concat returns the concatenation of a and b in a new buffer.
func Concat(a, b []byte) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}

// SuffixString returns a with the string b appended, in a new buffer.
func SuffixString(a []byte, b string) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}

// Concatenate takes the variadic array of input and returns a concatenation of it.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// PadLeft prepends zero bytes to in until it reaches length. Inputs already at
// or above length are returned unchanged.
func PadLeft(in []byte, length int) []byte {
	if len(in) >= length {
		return in
	}

	out := make([]byte, length-len(in), length)

	return append(out, in...)
}
