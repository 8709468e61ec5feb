// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"strconv"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/pin"
)

// SocketOpts describes the wiring of a socket.
type SocketOpts struct {
	// Name is the symbolic name of the socket, e.g. "1".
	Name string
	// Number is the 1 based position of the socket on the board family.
	Number int
	// I2C is the name of the I²C bus the SCL/SDA lines are wired to, as known
	// to i2creg.
	I2C string
	// SPI is the name of the SPI port the SCK/MISO/MOSI lines are wired to, as
	// known to spireg.
	SPI string
	// Pins maps each wired role to its pin. Roles missing from the map are
	// unbound.
	Pins map[Role]gpio.PinIO
}

// Socket is an immutable descriptor of one physical mikroBUS connector.
type Socket struct {
	name   string
	number int
	i2c    string
	spi    string
	pins   [numRoles]gpio.PinIO
}

// NewSocket returns a Socket wired as described by opts.
func NewSocket(opts *SocketOpts) *Socket {
	s := &Socket{name: opts.Name, number: opts.Number, i2c: opts.I2C, spi: opts.SPI}
	if s.name == "" {
		s.name = strconv.Itoa(opts.Number)
	}
	for r, p := range opts.Pins {
		if r != None && r < numRoles && p != nil && p != gpio.INVALID {
			s.pins[r] = p
		}
	}
	return s
}

func (s *Socket) String() string {
	return "socket " + s.name
}

// Name returns the symbolic name of the socket.
func (s *Socket) Name() string {
	return s.name
}

// Number returns the 1 based socket number.
func (s *Socket) Number() int {
	return s.number
}

// I2CBus returns the name of the I²C bus wired to this socket.
func (s *Socket) I2CBus() string {
	return s.i2c
}

// SPIPort returns the name of the SPI port wired to this socket.
func (s *Socket) SPIPort() string {
	return s.spi
}

// Pin returns the pin bound to role r, or nil if the role is not wired on
// this socket.
func (s *Socket) Pin(r Role) gpio.PinIO {
	if r >= numRoles {
		return nil
	}
	return s.pins[r]
}

// Bound returns true if role r is wired on this socket.
func (s *Socket) Bound(r Role) bool {
	return s.Pin(r) != nil
}

// Header returns one row per role, in header order, unbound roles being
// reported as pin.INVALID.
func (s *Socket) Header() [][]pin.Pin {
	out := make([][]pin.Pin, len(Roles))
	for i, r := range Roles {
		if p := s.pins[r]; p != nil {
			out[i] = []pin.Pin{p}
		} else {
			out[i] = []pin.Pin{pin.INVALID}
		}
	}
	return out
}

// PinID returns the identity of the physical pin behind p.
//
// Aliases registered in gpioreg resolve to their real pin, so two sockets
// naming the same line differently are still recognized as sharing it.
func PinID(p pin.Pin) string {
	if p == nil {
		return ""
	}
	if r, ok := p.(gpio.RealPin); ok {
		if real := r.Real(); real != nil {
			return real.Name()
		}
	}
	return p.Name()
}
