// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nct3933

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestEncodeCurrent(t *testing.T) {
	tests := []struct {
		ch        Channel
		microamps int
		gain      Gain
		expected  byte
		err       error
	}{
		{Channel1, 0, Gain10uA, 0x00, nil},
		{Channel1, 10, Gain10uA, 0x81, nil},
		{Channel1, -10, Gain10uA, 0x01, nil},
		{Channel2, 15, Gain10uA, 0x81, nil},
		{Channel2, -15, Gain10uA, 0x01, nil},
		// Less than one step, but still sourcing.
		{Channel2, 5, Gain10uA, 0x80, nil},
		{Channel3, 1270, Gain10uA, 0xff, nil},
		{Channel3, -1270, Gain10uA, 0x7f, nil},
		{Channel1, 1271, Gain20uA, 0xbf, nil},
		{Channel1, -1271, Gain20uA, 0x3f, nil},
		{Channel2, 1500, Gain20uA, 0xcb, nil},
		{Channel3, 2540, Gain20uA, 0xff, nil},
		{Channel3, -2540, Gain20uA, 0x7f, nil},
		{Channel1, 2541, 0, 0, ErrInvalidCurrent},
		{Channel1, -2541, 0, 0, ErrInvalidCurrent},
		{0, 10, 0, 0, ErrInvalidChannel},
		{4, 10, 0, 0, ErrInvalidChannel},
		// The channel is checked before the current.
		{4, 5000, 0, 0, ErrInvalidChannel},
	}
	for _, test := range tests {
		g, b, err := encodeCurrent(test.ch, test.microamps)
		if !errors.Is(err, test.err) {
			t.Errorf("encodeCurrent(%d, %d) error %v expected %v", test.ch, test.microamps, err, test.err)
			continue
		}
		if err != nil {
			continue
		}
		if g != test.gain || b != test.expected {
			t.Errorf("encodeCurrent(%d, %d) = %s, 0x%02x expected %s, 0x%02x", test.ch, test.microamps, g, b, test.gain, test.expected)
		}
	}
}

func TestEncodeCurrentRanges(t *testing.T) {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	for c := -_MAX_20UA; c <= _MAX_20UA; c++ {
		g, b, err := encodeCurrent(Channel2, c)
		if err != nil {
			t.Fatalf("encodeCurrent(%d) failed: %v", c, err)
		}
		expectedGain := Gain10uA
		if abs(c) > _MAX_10UA {
			expectedGain = Gain20uA
		}
		if g != expectedGain {
			t.Fatalf("encodeCurrent(%d) selected %s expected %s", c, g, expectedGain)
		}
		if magnitude := int(b & _MAGNITUDE_MASK); magnitude != abs(c/g.divisor()) {
			t.Fatalf("encodeCurrent(%d) magnitude %d expected %d", c, magnitude, abs(c/g.divisor()))
		}
		if source := b&_SOURCE_BIT != 0; source != (c > 0) {
			t.Fatalf("encodeCurrent(%d) source bit %t", c, source)
		}
		// Decoding gives back the value truncated to a whole step.
		if got := decodeCurrent(g, b); got != c/g.divisor()*g.divisor() {
			t.Fatalf("decodeCurrent(%s, 0x%02x) = %d expected %d", g, b, got, c/g.divisor()*g.divisor())
		}
	}
}

func TestDecodeCurrent(t *testing.T) {
	tests := []struct {
		g        Gain
		b        byte
		expected int
	}{
		{Gain10uA, 0x00, 0},
		{Gain10uA, 0x80, 0},
		{Gain10uA, 0x81, 10},
		{Gain10uA, 0x01, -10},
		{Gain10uA, 0xff, 1270},
		{Gain20uA, 0xff, 2540},
		{Gain20uA, 0x7f, -2540},
		{Gain20uA, 0xcb, 1500},
	}
	for _, test := range tests {
		if got := decodeCurrent(test.g, test.b); got != test.expected {
			t.Errorf("decodeCurrent(%s, 0x%02x) = %d expected %d", test.g, test.b, got, test.expected)
		}
	}
}

func TestEncodeWatchdog(t *testing.T) {
	tests := []struct {
		setting1 byte
		enable   State
		delay    WatchdogDelay
		expected byte
		err      error
	}{
		{0xff, Disable, Delay1400ms, 0x0f, nil},
		{0x00, Enable, Delay11000ms, 0xb0, nil},
		{0x05, Enable, Delay1400ms, 0x85, nil},
		{0x40, Disable, Delay5500ms, 0x20, nil},
		{0x3a, Enable, Delay2800ms, 0x9a, nil},
		{0x00, 2, Delay1400ms, 0, ErrInvalidChannel},
		{0x00, Enable, 4, 0, ErrInvalidChannel},
	}
	for _, test := range tests {
		got, err := encodeWatchdog(test.setting1, test.enable, test.delay)
		if !errors.Is(err, test.err) {
			t.Errorf("encodeWatchdog(0x%02x, %d, %d) error %v expected %v", test.setting1, test.enable, test.delay, err, test.err)
			continue
		}
		if got != test.expected {
			t.Errorf("encodeWatchdog(0x%02x, %d, %d) = 0x%02x expected 0x%02x", test.setting1, test.enable, test.delay, got, test.expected)
		}
	}
}

func TestDecodeWatchdog(t *testing.T) {
	// The state comes from bit 6, not from the enable bit.
	if s := decodeWatchdogState(0x40); s != Enable {
		t.Errorf("decodeWatchdogState(0x40) = %s", s)
	}
	if s := decodeWatchdogState(0x80); s != Disable {
		t.Errorf("decodeWatchdogState(0x80) = %s", s)
	}
	if d := decodeWatchdogDelay(0xa0); d != Delay5500ms {
		t.Errorf("decodeWatchdogDelay(0xa0) = %s", d)
	}
}

func TestEncodePowerSave(t *testing.T) {
	if v, err := encodePowerSave(0x15, Enable); err != nil || v != 0x55 {
		t.Errorf("encodePowerSave(0x15, Enable) = 0x%02x, %v", v, err)
	}
	if v, err := encodePowerSave(0xff, Disable); err != nil || v != 0xbf {
		t.Errorf("encodePowerSave(0xff, Disable) = 0x%02x, %v", v, err)
	}
	if _, err := encodePowerSave(0x00, 2); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
	if decodePowerSave(0x40) != Enable || decodePowerSave(0xbf) != Disable {
		t.Error("decodePowerSave wrong")
	}
}

func TestEncodeGain(t *testing.T) {
	tests := []struct {
		setting2 byte
		ch       Channel
		mode     Gain
		expected byte
		err      error
	}{
		{0x00, Channel1, Gain20uA, 0x01, nil},
		{0x00, Channel2, Gain20uA, 0x04, nil},
		{0x00, Channel3, Gain20uA, 0x10, nil},
		{0xff, Channel1, Gain10uA, 0xfe, nil},
		{0xff, Channel2, Gain10uA, 0xfb, nil},
		{0xff, Channel3, Gain10uA, 0xef, nil},
		{0x40, Channel2, Gain20uA, 0x44, nil},
		{0x00, Channel1, 2, 0, ErrInvalidMode},
		{0x00, 0, Gain10uA, 0, ErrInvalidChannel},
		{0x00, 4, Gain20uA, 0, ErrInvalidChannel},
		// The mode is checked before the channel.
		{0x00, 4, 2, 0, ErrInvalidMode},
	}
	for _, test := range tests {
		got, err := encodeGain(test.setting2, test.ch, test.mode)
		if !errors.Is(err, test.err) {
			t.Errorf("encodeGain(0x%02x, %d, %d) error %v expected %v", test.setting2, test.ch, test.mode, err, test.err)
			continue
		}
		if got != test.expected {
			t.Errorf("encodeGain(0x%02x, %d, %d) = 0x%02x expected 0x%02x", test.setting2, test.ch, test.mode, got, test.expected)
		}
		if err == nil {
			if again, _ := encodeGain(got, test.ch, test.mode); again != got {
				t.Errorf("encodeGain not idempotent: 0x%02x then 0x%02x", got, again)
			}
			if g := decodeGain(got, test.ch); g != test.mode {
				t.Errorf("decodeGain(0x%02x, %d) = %s expected %s", got, test.ch, g, test.mode)
			}
		}
	}
}

func TestGainRange(t *testing.T) {
	if r := Gain10uA.Range(); r != 1270*physic.MicroAmpere {
		t.Errorf("Gain10uA.Range() = %s", r)
	}
	if r := Gain20uA.Range(); r != 2540*physic.MicroAmpere {
		t.Errorf("Gain20uA.Range() = %s", r)
	}
	if s := Gain20uA.Step(); s != 20*physic.MicroAmpere {
		t.Errorf("Gain20uA.Step() = %s", s)
	}
	if s := Gain(7).String(); s != "Gain(7)" {
		t.Errorf("unexpected %q", s)
	}
}
