// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thumbstick controls a 2 axis thumbstick click board.
//
// The axes are read through an MCP3204 12 bits ADC on the shared SPI port,
// the push button is wired to the INT line and is active low.
package thumbstick

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/conn/bits"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// Position is the stick position on each axis, 0 at rest, in [-2048, 2047].
type Position struct {
	X, Y int16
}

// State is a snapshot of the thumbstick.
type State struct {
	Position
	Pressed bool
}

func (s State) String() string {
	return fmt.Sprintf("X:%d Y:%d pressed:%t", s.X, s.Y, s.Pressed)
}

// Opts holds the configuration options.
type Opts struct {
	Speed physic.Frequency
	// Timeout of each bus transaction; 0 means none.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Speed:   physic.MegaHertz,
	Timeout: 100 * time.Millisecond,
}

// Dev is a handle to the thumbstick.
type Dev struct {
	c      *bus.SPIDev
	name   string
	button gpio.PinIO
	pins   *driver.Pins
	poll   driver.Poller

	// OnChange is raised on the polling goroutine when the state changes.
	OnChange driver.Event[State]

	mu     sync.Mutex
	center Position
	last   State
}

// New claims the SPI port and the CS and INT lines of socket s.
func New(r *hardware.Registry, s *board.Socket, opts *Opts) (*Dev, error) {
	pins, err := driver.Claim(r, s, "thumbstick", board.SPI, board.CS, board.INT)
	if err != nil {
		return nil, err
	}
	cs := s.Pin(board.CS)
	d := &Dev{
		c:      r.SPI().Dev(bus.SPIConfig{Speed: opts.Speed, Mode: spi.Mode0, CS: cs}, opts.Timeout),
		name:   "Thumbstick{" + s.String() + "}",
		button: s.Pin(board.INT),
		pins:   pins,
	}
	if err := cs.Out(gpio.High); err != nil {
		pins.Release()
		return nil, err
	}
	if err := d.button.In(gpio.PullUp, gpio.NoEdge); err != nil {
		pins.Release()
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Position returns the stick position relative to the calibrated center.
func (d *Dev) Position() (Position, error) {
	x, err := d.sample(0)
	if err != nil {
		return Position{}, err
	}
	y, err := d.sample(1)
	if err != nil {
		return Position{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return Position{X: axis(x, d.center.X), Y: axis(y, d.center.Y)}, nil
}

// Pressed returns true while the button is pushed.
func (d *Dev) Pressed() bool {
	return d.button.Read() == gpio.Low
}

// Calibrate records the current position as the rest position.
func (d *Dev) Calibrate() error {
	d.mu.Lock()
	d.center = Position{}
	d.mu.Unlock()
	p, err := d.Position()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.center = p
	d.mu.Unlock()
	return nil
}

// Start starts sampling every interval on a background goroutine.
//
// OnChange is raised with the first sample and then on every change.
func (d *Dev) Start(interval time.Duration) error {
	first := true
	return d.poll.Start(interval, func() {
		p, err := d.Position()
		if err != nil {
			return
		}
		s := State{Position: p, Pressed: d.Pressed()}
		d.mu.Lock()
		changed := first || s != d.last
		d.last = s
		d.mu.Unlock()
		first = false
		if changed {
			d.OnChange.Emit(s)
		}
	})
}

// Stop stops sampling and waits for the polling goroutine to exit.
func (d *Dev) Stop() {
	d.poll.Stop()
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	d.Stop()
	return nil
}

// PowerMode implements driver.Driver.
func (d *Dev) PowerMode() driver.PowerMode {
	return driver.On
}

// SetPowerMode implements driver.Driver.
func (d *Dev) SetPowerMode(m driver.PowerMode) error {
	if m == driver.On {
		return nil
	}
	return driver.Unsupported(d, "power mode "+m.String())
}

// Reset implements driver.Driver.
func (d *Dev) Reset(m driver.ResetMode) error {
	return driver.Unsupported(d, m.String()+" reset")
}

// Version implements driver.Driver.
func (d *Dev) Version() string {
	return "1.0"
}

// Close stops sampling and releases the CS and INT lines.
func (d *Dev) Close() error {
	d.Stop()
	if !d.pins.Release() {
		return errors.New("thumbstick: failed to release pins")
	}
	return nil
}

// sample converts single ended channel ch.
// axis centers the raw 12 bits sample v on center, saturating to
// [-2048, 2047].
func axis(v uint16, center int16) int16 {
	return int16(max(-2048, min(2047, int32(v)-2048-int32(center))))
}

func (d *Dev) sample(ch uint8) (uint16, error) {
	// Start bit, single ended, then D2..D0 over the first two bytes.
	w := []byte{0x06 | ch>>2, ch << 6, 0}
	r := make([]byte, 3)
	if err := d.c.Tx(w, r); err != nil {
		return 0, err
	}
	return bits.Word(bits.Field(r[1], 0, 4), r[2]), nil
}

var _ driver.Driver = &Dev{}
