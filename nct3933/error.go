// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nct3933

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID is returned by CheckID when the identification registers
	// do not hold 0x39, 0x33.
	ErrInvalidID = errors.New("nct3933: invalid device id")
	// ErrInvalidChannel is returned for a channel outside 1-3. It is also
	// returned for out of range watchdog arguments.
	ErrInvalidChannel = errors.New("nct3933: invalid channel")
	// ErrInvalidMode is returned when an enable or gain argument is not 0 or 1.
	ErrInvalidMode = errors.New("nct3933: invalid mode")
	// ErrInvalidCurrent is returned for a current outside ±2540µA.
	ErrInvalidCurrent = errors.New("nct3933: current out of range")
)

// BusError is returned when an I²C transaction fails. The transport error is
// available through errors.Unwrap.
type BusError struct {
	// Op is "read" or "write".
	Op string
	// Reg is the register being accessed.
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("nct3933: %s register 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
