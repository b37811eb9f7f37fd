// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nct3933

import (
	"fmt"

	"github.com/GermanBionicSystems/currentdac/common"
	"periph.io/x/conn/v3/physic"
)

// Channel selects one of the three current outputs.
type Channel byte

const (
	Channel1 Channel = iota + 1
	Channel2
	Channel3
)

// State is an enable flag as stored by the device. Only Disable and Enable
// are valid.
type State byte

const (
	Disable State = iota
	Enable
)

// Gain selects the current range of a channel.
type Gain byte

const (
	// Gain10uA is the ±1270µA range with 10µA per step.
	Gain10uA Gain = iota
	// Gain20uA is the ±2540µA range with 20µA per step.
	Gain20uA
)

// WatchdogDelay is the 2 bit watchdog timeout code.
type WatchdogDelay byte

const (
	Delay1400ms WatchdogDelay = iota
	Delay2800ms
	Delay5500ms
	Delay11000ms
)

const (
	// Register addresses. The current registers are at the channel number.
	_REG_SETTING1 byte = 0x04
	_REG_SETTING2 byte = 0x05
	_REG_ID1      byte = 0x5d
	_REG_ID2      byte = 0x5e

	_ID1 byte = 0x39
	_ID2 byte = 0x33

	// Current register layout. Bit 7 set means the channel sources current.
	_SOURCE_BIT     byte = 0x80
	_MAGNITUDE_MASK byte = 0x7f

	// Widest request accepted by each gain range, in µA.
	_MAX_10UA = 1270
	_MAX_20UA = 2540
)

var (
	wdtEnableField   = common.Bit(7)
	wdtStateField    = common.Bit(6)
	wdtDelayField    = common.Field{Mask: 0x03, Shift: 4}
	powerSaveField   = common.Bit(6)
	setting1Reserved = common.Field{Mask: 0x0f}
)

// gainField returns the gain selector of ch in SETTING2. Channels 1, 2 and 3
// use bits 0, 2 and 4.
func gainField(ch Channel) common.Field {
	return common.Bit(2 * uint(ch-1))
}

func (ch Channel) valid() bool {
	return ch >= Channel1 && ch <= Channel3
}

// Register returns the address of the current register for ch.
func (ch Channel) Register() byte {
	return byte(ch)
}

func (s State) String() string {
	switch s {
	case Disable:
		return "disabled"
	case Enable:
		return "enabled"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// Step returns the output current represented by one count in the current
// register.
func (g Gain) Step() physic.ElectricCurrent {
	if g == Gain20uA {
		return 20 * physic.MicroAmpere
	}
	return 10 * physic.MicroAmpere
}

// Range returns the largest magnitude the gain range can output.
func (g Gain) Range() physic.ElectricCurrent {
	return g.Step() * physic.ElectricCurrent(_MAGNITUDE_MASK)
}

func (g Gain) divisor() int {
	if g == Gain20uA {
		return 20
	}
	return 10
}

func (g Gain) String() string {
	switch g {
	case Gain10uA:
		return "10uA/step"
	case Gain20uA:
		return "20uA/step"
	}
	return fmt.Sprintf("Gain(%d)", byte(g))
}

func (d WatchdogDelay) String() string {
	switch d {
	case Delay1400ms:
		return "1400ms"
	case Delay2800ms:
		return "2800ms"
	case Delay5500ms:
		return "5500ms"
	case Delay11000ms:
		return "11000ms"
	}
	return fmt.Sprintf("WatchdogDelay(%d)", byte(d))
}

// encodeWatchdog returns SETTING1 with the watchdog enable and delay fields
// replaced. Only the low nibble of setting1 survives; bit 6 is written as 0.
//
// An out of range enable or delay returns ErrInvalidChannel.
func encodeWatchdog(setting1 byte, enable State, delay WatchdogDelay) (byte, error) {
	if !wdtEnableField.Fits(byte(enable)) || !wdtDelayField.Fits(byte(delay)) {
		return 0, ErrInvalidChannel
	}
	v := setting1Reserved.Merge(0, setting1)
	v = wdtEnableField.Merge(v, byte(enable))
	return wdtDelayField.Merge(v, byte(delay)), nil
}

// decodeWatchdogState returns bit 6 of SETTING1. Enable is written to bit 7.
// TODO: confirm against the datasheet which bit reports the watchdog state.
func decodeWatchdogState(setting1 byte) State {
	return State(wdtStateField.Extract(setting1))
}

func decodeWatchdogDelay(setting1 byte) WatchdogDelay {
	return WatchdogDelay(wdtDelayField.Extract(setting1))
}

func encodePowerSave(setting2 byte, enable State) (byte, error) {
	if !powerSaveField.Fits(byte(enable)) {
		return 0, ErrInvalidMode
	}
	return powerSaveField.Merge(setting2, byte(enable)), nil
}

func decodePowerSave(setting2 byte) State {
	return State(powerSaveField.Extract(setting2))
}

// checkGain validates the arguments of a gain change. The mode is checked
// before the channel.
func checkGain(ch Channel, mode Gain) error {
	if mode > Gain20uA {
		return ErrInvalidMode
	}
	if !ch.valid() {
		return ErrInvalidChannel
	}
	return nil
}

func encodeGain(setting2 byte, ch Channel, mode Gain) (byte, error) {
	if err := checkGain(ch, mode); err != nil {
		return 0, err
	}
	return gainField(ch).Merge(setting2, byte(mode)), nil
}

func decodeGain(setting2 byte, ch Channel) Gain {
	return Gain(gainField(ch).Extract(setting2))
}

// encodeCurrent returns the gain range and register value for a current of
// microamps on ch. The 10µA range is preferred whenever the value fits in it.
// Remainders below one step are truncated toward zero.
func encodeCurrent(ch Channel, microamps int) (Gain, byte, error) {
	if !ch.valid() {
		return 0, 0, ErrInvalidChannel
	}
	var g Gain
	switch {
	case microamps >= -_MAX_10UA && microamps <= _MAX_10UA:
		g = Gain10uA
	case microamps >= -_MAX_20UA && microamps <= _MAX_20UA:
		g = Gain20uA
	default:
		return 0, 0, ErrInvalidCurrent
	}
	steps := microamps / g.divisor()
	if microamps <= 0 {
		return g, byte(-steps) & _MAGNITUDE_MASK, nil
	}
	return g, byte(steps) + _SOURCE_BIT, nil
}

// decodeCurrent converts a current register value back to microamps using
// the gain range currently selected for the channel.
func decodeCurrent(g Gain, b byte) int {
	magnitude := int(b&_MAGNITUDE_MASK) * g.divisor()
	if b&_SOURCE_BIT == 0 {
		return -magnitude
	}
	return magnitude
}
