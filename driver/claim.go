// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package driver

import (
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/gpio"
)

// Pins is the set of pins a driver claimed on its socket.
type Pins struct {
	r     *hardware.Registry
	s     *board.Socket
	owner string
	roles []board.Role
	done  bool
}

// Claim claims the bus lines of kind plus the extra roles on s for owner.
//
// kind is board.NoBus for a device only using GPIOs.
func Claim(r *hardware.Registry, s *board.Socket, owner string, kind board.BusKind, extra ...board.Role) (*Pins, error) {
	var err error
	if kind == board.NoBus {
		err = r.ClaimPins(s, owner, extra...)
	} else {
		err = r.ClaimPinsForBus(s, owner, kind, extra...)
	}
	if err != nil {
		return nil, err
	}
	return &Pins{r: r, s: s, owner: owner, roles: extra}, nil
}

// Pin returns the pin bound to role on the socket.
func (p *Pins) Pin(role board.Role) gpio.PinIO {
	return p.s.Pin(role)
}

// Socket returns the socket the pins were claimed on.
func (p *Pins) Socket() *board.Socket {
	return p.s
}

// Registry returns the registry the pins were claimed from.
func (p *Pins) Registry() *hardware.Registry {
	return p.r
}

// Release releases the non-bus pins. It is a no-op once released.
//
// Bus lines stay claimed by the shared bus.
func (p *Pins) Release() bool {
	if p.done {
		return true
	}
	p.done = true
	return p.r.ReleasePins(p.s, p.owner, p.roles...)
}
