// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// SPIConfig is the per-device configuration installed for each transaction.
type SPIConfig struct {
	Speed physic.Frequency
	Mode  spi.Mode
	// Bits is the word size; 8 if 0.
	Bits int
	// CS is the socket chip select line. It is driven low for the whole
	// transaction and high afterward. If nil, the port's own chip select is
	// relied upon.
	CS gpio.PinOut
}

func (c *SPIConfig) bits() int {
	if c.Bits == 0 {
		return 8
	}
	return c.Bits
}

// SPI is the SPI port shared by every SPI device of a board.
//
// The port is reconnected whenever a transaction needs a different speed,
// mode or word size than the previous one, so the port must accept multiple
// Connect calls.
type SPI struct {
	handle
	port spi.Port

	c     spi.Conn
	speed physic.Frequency
	mode  spi.Mode
	bits  int
}

// NewSPI returns a shared handle around p.
func NewSPI(p spi.Port) *SPI {
	return &SPI{port: p}
}

func (s *SPI) String() string {
	return s.port.String()
}

// Lock acquires the port lock. See I2C.Lock.
func (s *SPI) Lock() {
	s.mu.Lock()
}

// Unlock releases the port lock acquired with Lock.
func (s *SPI) Unlock() {
	s.mu.Unlock()
}

// Execute installs cfg, asserts the chip select, runs ops in order and returns
// the number of bytes written and read by the ops that completed.
//
// A timeout of 0 means no timeout.
func (s *SPI) Execute(cfg SPIConfig, ops []Op, timeout time.Duration) (int, error) {
	return s.execute("spi", ops, timeout, func(ops []Op, n *atomic.Int64) (err error) {
		if err := s.connect(&cfg); err != nil {
			return err
		}
		if cfg.CS != nil {
			if err := cfg.CS.Out(gpio.Low); err != nil {
				return fmt.Errorf("bus: %s: assert %s: %w", s.port, cfg.CS, err)
			}
			defer func() {
				if err2 := cfg.CS.Out(gpio.High); err == nil && err2 != nil {
					err = fmt.Errorf("bus: %s: release %s: %w", s.port, cfg.CS, err2)
				}
			}()
		}
		for i := range ops {
			if err := s.c.Tx(ops[i].W, ops[i].R); err != nil {
				return fmt.Errorf("bus: %s: tx %d: %w", s.port, i, err)
			}
			n.Add(int64(len(ops[i].W) + len(ops[i].R)))
		}
		return nil
	})
}

// connect must be called with mu held.
func (s *SPI) connect(cfg *SPIConfig) error {
	b := cfg.bits()
	if s.c != nil && s.speed == cfg.Speed && s.mode == cfg.Mode && s.bits == b {
		return nil
	}
	c, err := s.port.Connect(cfg.Speed, cfg.Mode, b)
	if err != nil {
		s.c = nil
		return fmt.Errorf("bus: %s: connect %s mode %d: %w", s.port, cfg.Speed, cfg.Mode, err)
	}
	s.c, s.speed, s.mode, s.bits = c, cfg.Speed, cfg.Mode, b
	return nil
}

// Dev returns a connection to the device described by cfg.
func (s *SPI) Dev(cfg SPIConfig, timeout time.Duration) *SPIDev {
	return &SPIDev{s: s, cfg: cfg, timeout: timeout}
}

// Close closes the underlying port if it is a spi.PortCloser.
//
// Execute fails with errcode.Closed afterward.
func (s *SPI) Close() error {
	return s.close(s.port)
}

// SPIDev is a device on the shared SPI port.
//
// It implements conn.Conn.
type SPIDev struct {
	s       *SPI
	cfg     SPIConfig
	timeout time.Duration
}

func (d *SPIDev) String() string {
	if d.cfg.CS == nil {
		return d.s.String()
	}
	return d.s.String() + "(" + d.cfg.CS.String() + ")"
}

// Halt implements conn.Resource.
func (d *SPIDev) Halt() error {
	return nil
}

// Tx implements conn.Conn.
func (d *SPIDev) Tx(w, r []byte) error {
	_, err := d.s.Execute(d.cfg, []Op{{W: w, R: r}}, d.timeout)
	return err
}

// Write implements io.Writer.
func (d *SPIDev) Write(b []byte) (int, error) {
	return d.s.Execute(d.cfg, []Op{{W: b}}, d.timeout)
}

// Duplex implements conn.Conn.
func (d *SPIDev) Duplex() conn.Duplex {
	return conn.Full
}

// Execute runs ops as one transaction with the chip select held.
func (d *SPIDev) Execute(ops ...Op) (int, error) {
	return d.s.Execute(d.cfg, ops, d.timeout)
}

// Port returns the shared port.
func (d *SPIDev) Port() *SPI {
	return d.s
}

var _ conn.Conn = &SPIDev{}
