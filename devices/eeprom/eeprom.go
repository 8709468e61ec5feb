// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eeprom controls a 24C08 1 KiB I²C EEPROM click board.
//
// The memory is organized as 4 blocks of 256 bytes, each answering on its
// own I²C address, and written by pages of 16 bytes. The PWM line of the
// socket drives the write protect input.
package eeprom

import (
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// Size is the memory size in bytes.
const Size = 1024

const (
	blockSize = 256
	pageSize  = 16
)

// Opts holds the configuration options.
type Opts struct {
	// Addr is the address of the first block; the other blocks follow.
	Addr  uint16
	Speed physic.Frequency
	// WriteCycle is how long to wait after each page write.
	WriteCycle time.Duration
	// Timeout of each bus transaction; 0 means none.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr:       0x50,
	Speed:      400 * physic.KiloHertz,
	WriteCycle: 5 * time.Millisecond,
	Timeout:    100 * time.Millisecond,
}

// Dev is a handle to the EEPROM.
//
// It implements io.ReaderAt and io.WriterAt.
type Dev struct {
	name   string
	blocks [Size / blockSize]*bus.I2CDev
	wp     gpio.PinIO
	cycle  time.Duration
	pins   *driver.Pins

	mu sync.Mutex
}

// New claims the I²C bus and the write protect line of socket s.
//
// The memory is left write protected.
func New(r *hardware.Registry, s *board.Socket, opts *Opts) (*Dev, error) {
	pins, err := driver.Claim(r, s, "24c08", board.I2C, board.PWM)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		name:  "24C08{" + s.String() + "}",
		wp:    s.Pin(board.PWM),
		cycle: opts.WriteCycle,
		pins:  pins,
	}
	for i := range d.blocks {
		d.blocks[i] = r.I2C().Dev(bus.I2CConfig{Addr: opts.Addr + uint16(i), Speed: opts.Speed}, opts.Timeout)
	}
	if err := d.wp.Out(gpio.High); err != nil {
		pins.Release()
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Size returns the memory size in bytes.
func (d *Dev) Size() int64 {
	return Size
}

// ReadAt implements io.ReaderAt.
func (d *Dev) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("eeprom: negative offset")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for n < len(p) && off < Size {
		c := min(len(p)-n, blockSize-int(off%blockSize))
		if err := d.blocks[off/blockSize].Tx([]byte{byte(off)}, p[n:n+c]); err != nil {
			return n, err
		}
		n += c
		off += int64(c)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
//
// Writes are split on page boundaries and wait for the write cycle of each
// page to complete.
func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > Size {
		return 0, errors.New("eeprom: write out of range at " + strconv.FormatInt(off, 10))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.wp.Out(gpio.Low); err != nil {
		return 0, err
	}
	n := 0
	var err error
	for n < len(p) {
		c := min(len(p)-n, pageSize-int(off%pageSize))
		w := make([]byte, 1+c)
		w[0] = byte(off)
		copy(w[1:], p[n:n+c])
		if err = d.blocks[off/blockSize].Tx(w, nil); err != nil {
			break
		}
		n += c
		off += int64(c)
		time.Sleep(d.cycle)
	}
	if err2 := d.wp.Out(gpio.High); err == nil {
		err = err2
	}
	return n, err
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
// The chip idles in standby on its own, only On is accepted.
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

// Close releases the write protect line.
func (d *Dev) Close() error {
	if !d.pins.Release() {
		return errors.New("eeprom: failed to release pins")
	}
	return nil
}

var _ driver.Driver = &Dev{}
var _ io.ReaderAt = &Dev{}
var _ io.WriterAt = &Dev{}
