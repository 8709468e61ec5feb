// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"time"

	"periph.io/x/mikrobus/errcode"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// unresolvedPin stands for a pin named in a board file that the host does not
// expose, e.g. when inspecting a board description on a workstation.
//
// It carries the name so ownership bookkeeping still works, but every I/O
// fails.
type unresolvedPin struct {
	n string
}

// String implements conn.Resource.
func (p *unresolvedPin) String() string {
	return p.n
}

// Halt implements conn.Resource.
func (p *unresolvedPin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *unresolvedPin) Name() string {
	return p.n
}

// Number implements pin.Pin.
func (p *unresolvedPin) Number() int {
	return -1
}

// Function implements pin.Pin.
func (p *unresolvedPin) Function() string {
	return ""
}

// In implements gpio.PinIn.
func (p *unresolvedPin) In(pull gpio.Pull, e gpio.Edge) error {
	return errcode.New(errcode.UnknownPin, "board", p.n+" is not available on this host")
}

// Read implements gpio.PinIn.
func (p *unresolvedPin) Read() gpio.Level {
	return gpio.Low
}

// WaitForEdge implements gpio.PinIn.
func (p *unresolvedPin) WaitForEdge(t time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *unresolvedPin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// DefaultPull implements gpio.PinIn.
func (p *unresolvedPin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
func (p *unresolvedPin) Out(l gpio.Level) error {
	return errcode.New(errcode.UnknownPin, "board", p.n+" is not available on this host")
}

// PWM implements gpio.PinOut.
func (p *unresolvedPin) PWM(d gpio.Duty, f physic.Frequency) error {
	return errcode.New(errcode.UnknownPin, "board", p.n+" is not available on this host")
}

var _ gpio.PinIO = &unresolvedPin{}
