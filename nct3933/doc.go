// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nct3933 controls a Nuvoton NCT3933U over I²C.
//
// The NCT3933U has three current DACs, each able to sink or source current.
// Every output has 128 sink and 128 source settings, in steps of 10µA
// (±1270µA) or, with the channel's gain doubled, 20µA (±2540µA). The device
// also has a watchdog timer and a power saving mode that reduces standby
// consumption by about 60%.
//
// SetCurrent picks the finer range whenever the requested value fits in it,
// updates the channel gain, then writes the current register. The gain and
// the current are written in separate transactions.
//
// # Datasheet
//
// https://item.szlcsc.com/246282.html
package nct3933
