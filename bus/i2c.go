// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

// I2CConfig is the per-device configuration installed for each transaction.
type I2CConfig struct {
	// Addr is the 7 bits device address.
	Addr uint16
	// Speed is the bus clock to use for this device. 0 keeps the current bus
	// speed.
	Speed physic.Frequency
}

// I2C is the I²C bus shared by every I²C device of a board.
type I2C struct {
	handle
	bus   i2c.Bus
	speed physic.Frequency
}

// NewI2C returns a shared handle around b.
func NewI2C(b i2c.Bus) *I2C {
	return &I2C{bus: b}
}

func (b *I2C) String() string {
	return b.bus.String()
}

// Lock acquires the bus lock.
//
// It is only needed to hold the bus across multiple Execute calls from
// outside this package, e.g. to inject contention. Execute must not be called
// while holding it.
func (b *I2C) Lock() {
	b.mu.Lock()
}

// Unlock releases the bus lock acquired with Lock.
func (b *I2C) Unlock() {
	b.mu.Unlock()
}

// Execute installs cfg, runs ops in order and returns the number of bytes
// written and read by the ops that completed.
//
// A timeout of 0 means no timeout.
func (b *I2C) Execute(cfg I2CConfig, ops []Op, timeout time.Duration) (int, error) {
	return b.execute("i2c", ops, timeout, func(ops []Op, n *atomic.Int64) error {
		if cfg.Speed != 0 && cfg.Speed != b.speed {
			if err := b.bus.SetSpeed(cfg.Speed); err != nil {
				return fmt.Errorf("bus: %s: set speed %s: %w", b.bus, cfg.Speed, err)
			}
			b.speed = cfg.Speed
		}
		for i := range ops {
			if err := b.bus.Tx(cfg.Addr, ops[i].W, ops[i].R); err != nil {
				return fmt.Errorf("bus: %s: tx %d to %#x: %w", b.bus, i, cfg.Addr, err)
			}
			n.Add(int64(len(ops[i].W) + len(ops[i].R)))
		}
		return nil
	})
}

// Dev returns a connection to the device described by cfg.
func (b *I2C) Dev(cfg I2CConfig, timeout time.Duration) *I2CDev {
	return &I2CDev{b: b, cfg: cfg, timeout: timeout}
}

// Close closes the underlying bus if it is an i2c.BusCloser.
//
// Execute fails with errcode.Closed afterward.
func (b *I2C) Close() error {
	return b.close(b.bus)
}

// I2CDev is a device on the shared I²C bus.
//
// It implements conn.Conn, so register helpers like mmr.Dev8 can be layered
// on top of it.
type I2CDev struct {
	b       *I2C
	cfg     I2CConfig
	timeout time.Duration
}

func (d *I2CDev) String() string {
	return d.b.String() + "(" + strconv.FormatUint(uint64(d.cfg.Addr), 16) + ")"
}

// Halt implements conn.Resource.
func (d *I2CDev) Halt() error {
	return nil
}

// Tx implements conn.Conn.
func (d *I2CDev) Tx(w, r []byte) error {
	_, err := d.b.Execute(d.cfg, []Op{{W: w, R: r}}, d.timeout)
	return err
}

// Write implements io.Writer.
func (d *I2CDev) Write(b []byte) (int, error) {
	return d.b.Execute(d.cfg, []Op{{W: b}}, d.timeout)
}

// Duplex implements conn.Conn.
func (d *I2CDev) Duplex() conn.Duplex {
	return conn.Half
}

// Execute runs ops as one transaction.
func (d *I2CDev) Execute(ops ...Op) (int, error) {
	return d.b.Execute(d.cfg, ops, d.timeout)
}

// Addr returns the device address.
func (d *I2CDev) Addr() uint16 {
	return d.cfg.Addr
}

// Bus returns the shared bus.
func (d *I2CDev) Bus() *I2C {
	return d.b
}

var _ conn.Conn = &I2CDev{}
