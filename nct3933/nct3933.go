// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nct3933

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the raw 8 bit address of the NCT3933U with the address
// pins strapped low. New shifts it right by one, giving the bus address 0x15.
const DefaultAddress byte = 0x2a

// Dev represents an NCT3933U current DAC.
//
// Every method talks to the device; no register values are cached. Methods
// that change a configuration field read the shared register and write it
// back. Another bus master modifying the register between the two
// transactions will have its change overwritten.
type Dev struct {
	d  *i2c.Dev
	mu sync.Mutex
}

// Opts holds settings applied by New.
type Opts struct {
	// VerifyID runs CheckID before New returns.
	VerifyID bool
	// PowerSave, if not nil, is written to the device.
	PowerSave *State
}

// Settings is a decoded snapshot of the two configuration registers.
type Settings struct {
	// Setting1 and Setting2 are the raw register values.
	Setting1 byte
	Setting2 byte
	// WatchdogState is bit 6 of SETTING1, as returned by ReadWatchdogState.
	WatchdogState State
	WatchdogDelay WatchdogDelay
	PowerSave     State
	// Gains is indexed by channel number minus one.
	Gains [3]Gain
}

// New returns a driver for the NCT3933U at addr on bus. addr is the raw 8 bit
// address including the read/write bit, which is discarded.
//
// With nil opts no I/O is performed.
func New(bus i2c.Bus, addr byte, opts *Opts) (*Dev, error) {
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: uint16(addr >> 1)}}
	if opts == nil {
		return dev, nil
	}
	if opts.VerifyID {
		if err := dev.CheckID(); err != nil {
			return nil, err
		}
	}
	if opts.PowerSave != nil {
		if err := dev.SetPowerSaveMode(*opts.PowerSave); err != nil {
			return nil, err
		}
	}
	return dev, nil
}

// Addr returns the 7 bit bus address in use.
func (dev *Dev) Addr() uint16 {
	return dev.d.Addr
}

func (dev *Dev) readRegister(reg byte) (byte, error) {
	r := make([]byte, 1)
	if err := dev.d.Tx([]byte{reg}, r); err != nil {
		return 0, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return r[0], nil
}

func (dev *Dev) writeRegister(reg, value byte) error {
	if err := dev.d.Tx([]byte{reg, value}, nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func (dev *Dev) readID() (id1, id2 byte, err error) {
	if id1, err = dev.readRegister(_REG_ID1); err != nil {
		return
	}
	id2, err = dev.readRegister(_REG_ID2)
	return
}

// CheckID verifies the identification registers. It returns ErrInvalidID if
// the device is not an NCT3933U.
func (dev *Dev) CheckID() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	id1, id2, err := dev.readID()
	if err != nil {
		return err
	}
	if id1 != _ID1 || id2 != _ID2 {
		return ErrInvalidID
	}
	return nil
}

// ReadID returns both identification bytes, the first in the high byte. For
// an NCT3933U this is 0x3933.
func (dev *Dev) ReadID() (uint16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	id1, id2, err := dev.readID()
	if err != nil {
		return 0, err
	}
	return uint16(id1)<<8 | uint16(id2), nil
}

// ReadWatchdogState returns bit 6 of the SETTING1 register.
//
// Note that SetWatchdogState writes the enable flag to bit 7, so the value
// returned here does not necessarily reflect the last enable written.
func (dev *Dev) ReadWatchdogState() (State, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting1, err := dev.readRegister(_REG_SETTING1)
	if err != nil {
		return 0, err
	}
	return decodeWatchdogState(setting1), nil
}

// SetWatchdogState enables or disables the watchdog timer and sets its
// delay. The low 4 bits of SETTING1 are preserved.
//
// Out of range values return ErrInvalidChannel without any I/O.
func (dev *Dev) SetWatchdogState(enable State, delay WatchdogDelay) error {
	if _, err := encodeWatchdog(0, enable, delay); err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting1, err := dev.readRegister(_REG_SETTING1)
	if err != nil {
		return err
	}
	v, err := encodeWatchdog(setting1, enable, delay)
	if err != nil {
		return err
	}
	return dev.writeRegister(_REG_SETTING1, v)
}

// SetPowerSaveMode enables or disables power saving mode, which reduces
// standby consumption.
func (dev *Dev) SetPowerSaveMode(enable State) error {
	if _, err := encodePowerSave(0, enable); err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting2, err := dev.readRegister(_REG_SETTING2)
	if err != nil {
		return err
	}
	v, err := encodePowerSave(setting2, enable)
	if err != nil {
		return err
	}
	return dev.writeRegister(_REG_SETTING2, v)
}

// ReadPowerSaveMode returns the power saving flag.
func (dev *Dev) ReadPowerSaveMode() (State, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting2, err := dev.readRegister(_REG_SETTING2)
	if err != nil {
		return 0, err
	}
	return decodePowerSave(setting2), nil
}

// SetGain selects the current range of a channel. Gain changes take effect
// immediately and rescale whatever value the current register holds.
func (dev *Dev) SetGain(ch Channel, mode Gain) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.setGain(ch, mode)
}

func (dev *Dev) setGain(ch Channel, mode Gain) error {
	if err := checkGain(ch, mode); err != nil {
		return err
	}
	setting2, err := dev.readRegister(_REG_SETTING2)
	if err != nil {
		return err
	}
	v, err := encodeGain(setting2, ch, mode)
	if err != nil {
		return err
	}
	return dev.writeRegister(_REG_SETTING2, v)
}

// ReadGain returns the current range selected for ch.
func (dev *Dev) ReadGain(ch Channel) (Gain, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting2, err := dev.readRegister(_REG_SETTING2)
	if err != nil {
		return 0, err
	}
	return decodeGain(setting2, ch), nil
}

// SetCurrent programs ch to output microamps. Positive values source
// current, negative values sink it. Values within ±1270µA use the 10µA
// range, values up to ±2540µA use the 20µA range. The remainder below one
// step is truncated.
//
// The gain is written first, then the current register. The two writes are
// separate transactions: if the second fails, the channel is left with the
// new gain and its previous count.
func (dev *Dev) SetCurrent(ch Channel, microamps int) error {
	g, v, err := encodeCurrent(ch, microamps)
	if err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.setGain(ch, g); err != nil {
		return err
	}
	return dev.writeRegister(ch.Register(), v)
}

// SetOutput is SetCurrent using physic units. c is truncated to whole
// microamps.
func (dev *Dev) SetOutput(ch Channel, c physic.ElectricCurrent) error {
	if !ch.valid() {
		return ErrInvalidChannel
	}
	ua := c / physic.MicroAmpere
	if ua < -_MAX_20UA || ua > _MAX_20UA {
		return ErrInvalidCurrent
	}
	return dev.SetCurrent(ch, int(ua))
}

// ReadCurrent returns the output current of ch in microamps, decoded with
// the gain range selected at the time of the call.
func (dev *Dev) ReadCurrent(ch Channel) (int, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	setting2, err := dev.readRegister(_REG_SETTING2)
	if err != nil {
		return 0, err
	}
	v, err := dev.readRegister(ch.Register())
	if err != nil {
		return 0, err
	}
	return decodeCurrent(decodeGain(setting2, ch), v), nil
}

// ReadSettings reads and decodes both configuration registers.
func (dev *Dev) ReadSettings() (Settings, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	var s Settings
	var err error
	if s.Setting1, err = dev.readRegister(_REG_SETTING1); err != nil {
		return s, err
	}
	if s.Setting2, err = dev.readRegister(_REG_SETTING2); err != nil {
		return s, err
	}
	s.WatchdogState = decodeWatchdogState(s.Setting1)
	s.WatchdogDelay = decodeWatchdogDelay(s.Setting1)
	s.PowerSave = decodePowerSave(s.Setting2)
	for ch := Channel1; ch <= Channel3; ch++ {
		s.Gains[ch-1] = decodeGain(s.Setting2, ch)
	}
	return s, nil
}

// Halt sets all three outputs to 0µA. The configuration registers are not
// changed. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	for ch := Channel1; ch <= Channel3; ch++ {
		if err := dev.writeRegister(ch.Register(), 0); err != nil {
			return err
		}
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("nct3933: %s", dev.d.String())
}

var _ conn.Resource = &Dev{}
