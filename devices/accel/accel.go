// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel controls an ADXL345 3-axis accelerometer click board over
// the shared I²C bus.
//
// Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package accel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/conn/bits"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/mmr"
	"periph.io/x/periph/conn/physic"
)

// Range is the measurement range.
type Range uint8

// Measurement ranges, in g.
const (
	G2  Range = 0
	G4  Range = 1
	G8  Range = 2
	G16 Range = 3
)

func (r Range) String() string {
	if r > G16 {
		return "Range(" + strconv.Itoa(int(r)) + ")"
	}
	return "±" + strconv.Itoa(2<<r) + "g"
}

// Opts holds the configuration options.
type Opts struct {
	// Addr is 0x1D when the ALT ADDRESS pin is high, 0x53 when low.
	Addr  uint16
	Range Range
	Speed physic.Frequency
	// Timeout of each bus transaction; 0 means none.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr:    0x1D,
	Range:   G2,
	Speed:   400 * physic.KiloHertz,
	Timeout: 100 * time.Millisecond,
}

// Acceleration is a measurement, in milli-g on each axis.
type Acceleration struct {
	X, Y, Z int32
}

func (a Acceleration) String() string {
	return fmt.Sprintf("X:%dmg Y:%dmg Z:%dmg", a.X, a.Y, a.Z)
}

// Dev is a handle to an ADXL345.
type Dev struct {
	c    mmr.Dev8
	name string
	pins *driver.Pins
	intr gpio.PinIO
	poll driver.Poller

	// OnSample is raised on the polling goroutine for every sample.
	OnSample driver.Event[Acceleration]

	mu      sync.Mutex
	mode    driver.PowerMode
	last    Acceleration
	lastErr error
}

// New claims the I²C bus and the INT line of socket s and initializes the
// accelerometer.
func New(r *hardware.Registry, s *board.Socket, opts *Opts) (*Dev, error) {
	if opts.Addr != 0x1D && opts.Addr != 0x53 {
		return nil, errcode.New(errcode.InvalidParams, "adxl345", "invalid address "+strconv.FormatUint(uint64(opts.Addr), 16))
	}
	if opts.Range > G16 {
		return nil, errcode.New(errcode.InvalidParams, "adxl345", "invalid range")
	}
	pins, err := driver.Claim(r, s, "adxl345", board.I2C, board.INT)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		c: mmr.Dev8{
			Conn:  r.I2C().Dev(bus.I2CConfig{Addr: opts.Addr, Speed: opts.Speed}, opts.Timeout),
			Order: binary.LittleEndian,
		},
		name: "ADXL345{" + s.String() + "}",
		pins: pins,
		intr: s.Pin(board.INT),
	}
	if err := d.init(opts); err != nil {
		pins.Release()
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Read returns one measurement.
func (d *Dev) Read() (Acceleration, error) {
	var b [6]byte
	if err := d.c.Conn.Tx([]byte{regDataX0}, b[:]); err != nil {
		return Acceleration{}, err
	}
	// In full resolution mode the scale is 3.9mg/LSB in every range.
	return Acceleration{
		X: int32(int16(bits.Word(b[1], b[0]))) * 39 / 10,
		Y: int32(int16(bits.Word(b[3], b[2]))) * 39 / 10,
		Z: int32(int16(bits.Word(b[5], b[4]))) * 39 / 10,
	}, nil
}

// Start starts sampling every interval on a background goroutine.
//
// Every sample is raised on OnSample.
func (d *Dev) Start(interval time.Duration) error {
	return d.poll.Start(interval, func() {
		a, err := d.Read()
		d.mu.Lock()
		d.lastErr = err
		if err == nil {
			d.last = a
		}
		d.mu.Unlock()
		if err == nil {
			d.OnSample.Emit(a)
		}
	})
}

// Stop stops sampling and waits for the polling goroutine to exit.
func (d *Dev) Stop() {
	d.poll.Stop()
}

// Last returns the last sample and sampling error.
func (d *Dev) Last() (Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.lastErr
}

// Halt implements conn.Resource.
//
// It stops sampling and puts the device in standby.
func (d *Dev) Halt() error {
	d.Stop()
	return d.SetPowerMode(driver.Off)
}

// PowerMode implements driver.Driver.
func (d *Dev) PowerMode() driver.PowerMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetPowerMode implements driver.Driver.
//
// Low selects the reduced power sampling mode, Off is standby.
func (d *Dev) SetPowerMode(m driver.PowerMode) error {
	var rate, ctl uint8
	switch m {
	case driver.On:
		rate, ctl = rate100Hz, measure
	case driver.Low:
		rate, ctl = rate100Hz|lowPower, measure
	case driver.Off:
		rate, ctl = rate100Hz, 0
	default:
		return errcode.New(errcode.InvalidParams, d.name, "invalid power mode "+m.String())
	}
	if err := d.c.WriteUint8(regBWRate, rate); err != nil {
		return err
	}
	if err := d.c.WriteUint8(regPowerCtl, ctl); err != nil {
		return err
	}
	d.mu.Lock()
	d.mode = m
	d.mu.Unlock()
	return nil
}

// Reset implements driver.Driver.
//
// The chip has neither a reset command nor a reset line.
func (d *Dev) Reset(m driver.ResetMode) error {
	return driver.Unsupported(d, m.String()+" reset")
}

// Version implements driver.Driver.
func (d *Dev) Version() string {
	return "1.0"
}

// Close halts the device and releases its pins.
func (d *Dev) Close() error {
	err := d.Halt()
	if !d.pins.Release() {
		err = errors.Join(err, errors.New("adxl345: failed to release pins"))
	}
	return err
}

func (d *Dev) init(opts *Opts) error {
	id, err := d.c.ReadUint8(regDevID)
	if err != nil {
		return err
	}
	if id != devID {
		return errcode.New(errcode.NotDetected, d.name, fmt.Sprintf("unexpected device id %#02x", id))
	}
	if err := d.intr.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return err
	}
	if err := d.c.WriteUint8(regDataFormat, bits.SetField(fullRes, 0, 2, byte(opts.Range))); err != nil {
		return err
	}
	return d.SetPowerMode(driver.On)
}

const (
	regDevID      = 0x00
	regBWRate     = 0x2C
	regPowerCtl   = 0x2D
	regDataFormat = 0x31
	regDataX0     = 0x32

	devID     = 0xE5
	fullRes   = 0x08
	measure   = 0x08
	lowPower  = 0x10
	rate100Hz = 0x0A
)

var _ driver.Driver = &Dev{}
