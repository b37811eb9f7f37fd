// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, merging a bit-field into a shared configuration register.
package common

// Field describes a group of bits inside a byte-wide register. Mask is the
// unshifted mask of the field, so a 2 bit field at bits 5-4 is
// Field{Mask: 0x03, Shift: 4}.
type Field struct {
	Mask  byte
	Shift uint
}

// Bit returns a single bit field at position n.
func Bit(n uint) Field {
	return Field{Mask: 0x01, Shift: n}
}

// InPlace returns the mask of the field at its position in the register.
func (f Field) InPlace() byte {
	return f.Mask << f.Shift
}

// Merge clears the bits of f in reg and ORs in v. Bits of v outside the
// field mask are discarded. All other bits of reg are returned unchanged.
func (f Field) Merge(reg, v byte) byte {
	return (reg &^ f.InPlace()) | ((v & f.Mask) << f.Shift)
}

// Extract returns the value of f in reg, shifted down to bit 0.
func (f Field) Extract(reg byte) byte {
	return (reg >> f.Shift) & f.Mask
}

// Fits reports whether v can be stored in f without truncation.
func (f Field) Fits(v byte) bool {
	return v&^f.Mask == 0
}
