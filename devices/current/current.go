// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package current controls a current sense click board read through an
// MCP3201 12 bits ADC on the shared SPI port.
package current

import (
	"errors"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/conn/bits"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// Max is the largest raw sample.
const Max = 4095

// Opts holds the configuration options.
type Opts struct {
	Speed physic.Frequency
	// FullScale is the current measured at Max.
	FullScale physic.ElectricCurrent
	// Oversampling is the number of samples averaged by Read.
	Oversampling int
	// Timeout of each bus transaction; 0 means none.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
//
// The full scale matches a 50mΩ shunt with a gain of 20 and a 3.3V
// reference.
var DefaultOpts = Opts{
	Speed:        physic.MegaHertz,
	FullScale:    3300 * physic.MilliAmpere,
	Oversampling: 1,
	Timeout:      100 * time.Millisecond,
}

// Dev is a handle to the current sensor.
type Dev struct {
	c         *bus.SPIDev
	name      string
	fullScale physic.ElectricCurrent
	samples   int
	pins      *driver.Pins
}

// New claims the SPI port and the CS line of socket s.
func New(r *hardware.Registry, s *board.Socket, opts *Opts) (*Dev, error) {
	if opts.Oversampling < 1 || opts.FullScale <= 0 {
		return nil, errcode.New(errcode.InvalidParams, "mcp3201", "invalid options")
	}
	pins, err := driver.Claim(r, s, "mcp3201", board.SPI, board.CS)
	if err != nil {
		return nil, err
	}
	cs := s.Pin(board.CS)
	if err := cs.Out(gpio.High); err != nil {
		pins.Release()
		return nil, err
	}
	return &Dev{
		c:         r.SPI().Dev(bus.SPIConfig{Speed: opts.Speed, Mode: spi.Mode0, CS: cs}, opts.Timeout),
		name:      "MCP3201{" + s.String() + "}",
		fullScale: opts.FullScale,
		samples:   opts.Oversampling,
		pins:      pins,
	}, nil
}

func (d *Dev) String() string {
	return d.name
}

// ReadRaw returns one 12 bits sample.
func (d *Dev) ReadRaw() (uint16, error) {
	var r [2]byte
	if err := d.c.Tx(make([]byte, 2), r[:]); err != nil {
		return 0, err
	}
	// Two clocks to sample, a null bit, then B11 to B0 MSB first.
	return (bits.Word(r[0], r[1]) >> 1) & Max, nil
}

// Stats returns the mean and standard deviation of n raw samples.
func (d *Dev) Stats(n int) (mean, std float64, err error) {
	if n < 1 {
		return 0, 0, errcode.New(errcode.InvalidParams, d.name, "invalid sample count "+strconv.Itoa(n))
	}
	xs := make([]float64, n)
	for i := range xs {
		v, err := d.ReadRaw()
		if err != nil {
			return 0, 0, err
		}
		xs[i] = float64(v)
	}
	if n == 1 {
		return xs[0], 0, nil
	}
	mean, std = stat.MeanStdDev(xs, nil)
	return mean, std, nil
}

// Read returns the current, averaged over the configured oversampling.
func (d *Dev) Read() (physic.ElectricCurrent, error) {
	xs := make([]float64, d.samples)
	for i := range xs {
		v, err := d.ReadRaw()
		if err != nil {
			return 0, err
		}
		xs[i] = float64(v)
	}
	return physic.ElectricCurrent(stat.Mean(xs, nil) * float64(d.fullScale) / Max), nil
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return nil
}

// PowerMode implements driver.Driver.
func (d *Dev) PowerMode() driver.PowerMode {
	return driver.On
}

// SetPowerMode implements driver.Driver.
//
// The ADC powers down between conversions on its own.
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

// Close releases the CS line.
func (d *Dev) Close() error {
	if !d.pins.Release() {
		return errors.New("current: failed to release pins")
	}
	return nil
}

var _ driver.Driver = &Dev{}
