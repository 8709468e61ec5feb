// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bits contains the small register bit helpers used by the drivers.
//
// Bit positions are 0 based, 0 being the least significant bit.
package bits

// Set returns v with bit n set.
func Set(v byte, n uint) byte {
	return v | 1<<n
}

// Clear returns v with bit n cleared.
func Clear(v byte, n uint) byte {
	return v &^ (1 << n)
}

// Toggle returns v with bit n inverted.
func Toggle(v byte, n uint) byte {
	return v ^ 1<<n
}

// IsSet returns true if bit n of v is set.
func IsSet(v byte, n uint) bool {
	return v&(1<<n) != 0
}

// Assign returns v with bit n set to b.
func Assign(v byte, n uint, b bool) byte {
	if b {
		return Set(v, n)
	}
	return Clear(v, n)
}

// Field returns the width bits of v starting at bit lsb.
func Field(v byte, lsb, width uint) byte {
	return (v >> lsb) & mask(width)
}

// SetField returns v with the width bits starting at lsb replaced by f.
//
// Bits of f that do not fit in width are ignored.
func SetField(v byte, lsb, width uint, f byte) byte {
	m := mask(width) << lsb
	return v&^m | (f<<lsb)&m
}

// Word returns the 16 bits word made of hi and lo.
func Word(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// Split returns the high and low bytes of w.
func Split(w uint16) (hi, lo byte) {
	return byte(w >> 8), byte(w)
}

// SignExtend interprets the low n bits of v as a two's complement number.
func SignExtend(v uint16, n uint) int16 {
	shift := 16 - n
	return int16(v<<shift) >> shift
}

func mask(width uint) byte {
	if width >= 8 {
		return 0xFF
	}
	return byte(1)<<width - 1
}
