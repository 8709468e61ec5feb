// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package board describes mikroBUS boards: which sockets a board revision
// wires and which pin sits behind each role of each socket.
//
// Boards and sockets are immutable once created. They are usually loaded from
// a YAML board file with Load or taken from the descriptions built into this
// package with Builtin.
package board

import (
	"errors"

	"periph.io/x/periph/conn/pin/pinreg"
)

// Board is one revision of a board family.
type Board struct {
	name     string
	revision string
	sockets  []*Socket
	usb      USBID
}

// USBID identifies a board revision on the USB bus.
type USBID struct {
	VID uint16 `yaml:"vid"`
	PID uint16 `yaml:"pid"`
}

// New returns a board exposing sockets, in order.
func New(name, revision string, sockets ...*Socket) *Board {
	b := &Board{name: name, revision: revision, sockets: make([]*Socket, len(sockets))}
	copy(b.sockets, sockets)
	return b
}

func (b *Board) String() string {
	if b.revision == "" {
		return b.name
	}
	return b.name + " rev " + b.revision
}

// Name returns the board family name.
func (b *Board) Name() string {
	return b.name
}

// Revision returns the board revision.
func (b *Board) Revision() string {
	return b.revision
}

// USB returns the USB identifiers of this revision, zero if unknown.
func (b *Board) USB() USBID {
	return b.usb
}

// Sockets returns the sockets wired on this revision.
func (b *Board) Sockets() []*Socket {
	out := make([]*Socket, len(b.sockets))
	copy(out, b.sockets)
	return out
}

// Socket returns the socket named name, or nil.
func (b *Board) Socket(name string) *Socket {
	for _, s := range b.sockets {
		if s.name == name {
			return s
		}
	}
	return nil
}

// ByNumber returns the socket at 1 based position n, or nil.
func (b *Board) ByNumber(n int) *Socket {
	for _, s := range b.sockets {
		if s.number == n {
			return s
		}
	}
	return nil
}

// Has returns true if s is physically present on this board revision.
//
// A socket descriptor of the same family but of a larger revision is not.
func (b *Board) Has(s *Socket) bool {
	for _, x := range b.sockets {
		if x == s {
			return true
		}
	}
	return false
}

// Register publishes every socket as a pinreg header named "<board>/<socket>".
func (b *Board) Register() error {
	for i, s := range b.sockets {
		if err := pinreg.Register(b.headerName(s), s.Header()); err != nil {
			for _, x := range b.sockets[:i] {
				_ = pinreg.Unregister(b.headerName(x))
			}
			return err
		}
	}
	return nil
}

// Unregister removes the headers published by Register.
func (b *Board) Unregister() error {
	var errs []error
	for _, s := range b.sockets {
		if err := pinreg.Unregister(b.headerName(s)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Board) headerName(s *Socket) string {
	return b.name + "/" + s.name
}
