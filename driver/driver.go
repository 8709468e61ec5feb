// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package driver defines the capability surface shared by the click board
// drivers.
//
// Every driver is constructed on a socket with a *hardware.Registry, claims
// its pins before touching the hardware and releases them on Close.
// Capabilities a chip doesn't have fail with errcode.Unsupported.
package driver

import (
	"strconv"

	"periph.io/x/mikrobus/errcode"
	"periph.io/x/periph/conn"
)

// PowerMode is the power state of a device.
type PowerMode uint8

// Power modes.
const (
	On PowerMode = iota
	Low
	Off
)

const powerModeName = "OnLowOff"

var powerModeIndex = [...]uint8{0, 2, 5, 8}

func (p PowerMode) String() string {
	if p >= PowerMode(len(powerModeIndex)-1) {
		return "PowerMode(" + strconv.Itoa(int(p)) + ")"
	}
	return powerModeName[powerModeIndex[p]:powerModeIndex[p+1]]
}

// ResetMode selects how a device is reset.
type ResetMode uint8

// Reset modes.
const (
	// Soft resets the device with a command over its bus.
	Soft ResetMode = iota
	// Hard resets the device by pulsing its RST line.
	Hard
)

func (r ResetMode) String() string {
	switch r {
	case Soft:
		return "Soft"
	case Hard:
		return "Hard"
	default:
		return "ResetMode(" + strconv.Itoa(int(r)) + ")"
	}
}

// Driver is the surface every click board driver implements.
type Driver interface {
	conn.Resource
	// PowerMode returns the current power mode.
	PowerMode() PowerMode
	// SetPowerMode changes the power mode.
	SetPowerMode(m PowerMode) error
	// Reset resets the device.
	Reset(m ResetMode) error
	// Version is the version of the driver implementation.
	Version() string
	// Close halts the device and releases its pins.
	Close() error
}

// Unsupported returns the error drivers return for a capability the chip
// doesn't have.
func Unsupported(d conn.Resource, op string) error {
	return errcode.New(errcode.Unsupported, d.String(), op+" is not supported")
}
