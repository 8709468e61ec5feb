// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hardwaretest provides a fake board for driver tests.
package hardwaretest

import (
	"errors"
	"strconv"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/spi"
)

// Board returns a board with n sockets wired to gpiotest pins.
//
// The bus lines are shared by every socket. Every other line idles high.
func Board(n int) *board.Board {
	shared := map[board.Role]gpio.PinIO{}
	for _, r := range []board.Role{board.SCL, board.SDA, board.SCK, board.MISO, board.MOSI} {
		shared[r] = &gpiotest.Pin{N: r.String(), Num: int(r), L: gpio.High}
	}
	sockets := make([]*board.Socket, n)
	for i := range sockets {
		pins := map[board.Role]gpio.PinIO{}
		for _, r := range board.Roles {
			if p, ok := shared[r]; ok {
				pins[r] = p
				continue
			}
			name := r.String() + strconv.Itoa(i+1)
			pins[r] = &gpiotest.Pin{N: name, Num: 100*(i+1) + int(r), L: gpio.High}
		}
		sockets[i] = board.NewSocket(&board.SocketOpts{Number: i + 1, I2C: "I2C1", SPI: "SPI1", Pins: pins})
	}
	return board.New("test", "1", sockets...)
}

// Pin returns the fake pin bound to r on s.
func Pin(s *board.Socket, r board.Role) *gpiotest.Pin {
	p, _ := s.Pin(r).(*gpiotest.Pin)
	return p
}

// Registry returns a registry for b opening b as the I²C bus and p as the
// SPI port.
//
// A nil bus or port fails to open.
func Registry(brd *board.Board, b i2c.Bus, p spi.Port) *hardware.Registry {
	return hardware.New(brd,
		hardware.WithI2COpener(func(*board.Socket) (i2c.Bus, error) {
			if b == nil {
				return nil, errors.New("hardwaretest: no I²C bus")
			}
			return b, nil
		}),
		hardware.WithSPIOpener(func(*board.Socket) (spi.Port, error) {
			if p == nil {
				return nil, errors.New("hardwaretest: no SPI port")
			}
			return p, nil
		}))
}
