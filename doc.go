// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the NCT3933U current DAC driver and
// the helpers it shares.
//
// The driver lives in package nct3933; a command line tool is in
// cmd/nct3933.
package devices
