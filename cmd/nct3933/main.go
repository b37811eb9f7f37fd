// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// nct3933 programs and inspects an NCT3933U current DAC.
//
// Examples:
//
//	nct3933 -id
//	nct3933 -ch 2 -ua -1500
//	nct3933 -wdt 1 -wdt-delay 2 -ps 0
//	nct3933 -halt
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/GermanBionicSystems/currentdac/nct3933"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type config struct {
	bus      string
	addr     uint
	loglevel int
	id       bool
	wdt      int
	wdtDelay uint
	ps       int
	ch       uint
	ua       int
	setUA    bool
	halt     bool
}

func parseFlags(args []string) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("nct3933", flag.ContinueOnError)
	fs.StringVar(&c.bus, "bus", "", "I²C bus to use")
	fs.UintVar(&c.addr, "addr", uint(nct3933.DefaultAddress), "raw 8 bit device address, the low bit is ignored")
	fs.IntVar(&c.loglevel, "loglevel", int(logrus.InfoLevel), "log level, 0 to 6")
	fs.BoolVar(&c.id, "id", false, "verify the device identification")
	fs.IntVar(&c.wdt, "wdt", -1, "watchdog enable, 0 or 1")
	fs.UintVar(&c.wdtDelay, "wdt-delay", 0, "watchdog delay code, 0:1400ms 1:2800ms 2:5500ms 3:11000ms")
	fs.IntVar(&c.ps, "ps", -1, "power saving mode, 0 or 1")
	fs.UintVar(&c.ch, "ch", 1, "channel, 1 to 3")
	fs.IntVar(&c.ua, "ua", 0, "output current in µA, positive sources, negative sinks")
	fs.BoolVar(&c.halt, "halt", false, "set all outputs to 0µA")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "ua" {
			c.setUA = true
		}
	})
	if fs.NArg() != 0 {
		return nil, errors.New("unexpected arguments")
	}
	if c.addr > 0xff {
		return nil, fmt.Errorf("invalid address 0x%x", c.addr)
	}
	if c.wdt > 1 || c.ps > 1 || c.wdtDelay > 0xff || c.ch > 0xff {
		return nil, errors.New("flag value out of range")
	}
	return c, nil
}

func newLogger(level int) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.Level(level))
	logger.SetOutput(colorable.NewColorableStdout())
	f := new(prefixed.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05"
	f.FullTimestamp = true
	logger.SetFormatter(f)
	return logger.WithField("prefix", "nct3933")
}

func run(c *config, log *logrus.Entry) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(c.bus)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := nct3933.New(bus, byte(c.addr), &nct3933.Opts{VerifyID: c.id})
	if err != nil {
		return err
	}
	log.Debugf("opened %s", dev)
	if c.id {
		log.Info("device identification ok")
	}
	if c.wdt >= 0 {
		if err = dev.SetWatchdogState(nct3933.State(c.wdt), nct3933.WatchdogDelay(c.wdtDelay)); err != nil {
			return err
		}
		log.WithField("delay", nct3933.WatchdogDelay(c.wdtDelay)).Infof("watchdog %s", nct3933.State(c.wdt))
	}
	if c.ps >= 0 {
		if err = dev.SetPowerSaveMode(nct3933.State(c.ps)); err != nil {
			return err
		}
		log.Infof("power saving %s", nct3933.State(c.ps))
	}
	if c.halt {
		if err = dev.Halt(); err != nil {
			return err
		}
		log.Info("all outputs set to 0µA")
	} else if c.setUA {
		ch := nct3933.Channel(c.ch)
		if err = dev.SetCurrent(ch, c.ua); err != nil {
			return err
		}
		log.WithField("channel", c.ch).Infof("requested %dµA", c.ua)
	}

	s, err := dev.ReadSettings()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"setting1":  fmt.Sprintf("0x%02x", s.Setting1),
		"setting2":  fmt.Sprintf("0x%02x", s.Setting2),
		"wdt":       s.WatchdogState,
		"wdtDelay":  s.WatchdogDelay,
		"powerSave": s.PowerSave,
	}).Info("settings")
	for ch := nct3933.Channel1; ch <= nct3933.Channel3; ch++ {
		ua, err := dev.ReadCurrent(ch)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"channel": ch,
			"gain":    s.Gains[ch-1],
		}).Infof("%dµA", ua)
	}
	return nil
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "nct3933: %s.\n", err)
		os.Exit(2)
	}
	log := newLogger(c.loglevel)
	if err := run(c, log); err != nil {
		log.WithError(err).Error("failed")
		os.Exit(1)
	}
}
