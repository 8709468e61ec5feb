// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// Resolver returns the pin named name, or nil if there is none.
type Resolver func(name string) gpio.PinIO

// ByName resolves pin names through gpioreg.
func ByName(name string) gpio.PinIO {
	return gpioreg.ByName(name)
}

// Lenient resolves pin names through gpioreg and falls back to a placeholder
// pin that keeps the name but fails every I/O.
//
// It is meant to inspect board files on a host that does not have the pins.
func Lenient(name string) gpio.PinIO {
	if p := gpioreg.ByName(name); p != nil {
		return p
	}
	return &unresolvedPin{n: name}
}

// Load reads board families from a YAML board file and returns one Board per
// revision.
//
// Revisions of the same family share their *Socket values, so a socket taken
// from one revision is recognized by Board.Has on every other revision that
// wires it.
//
// If resolve is nil, ByName is used.
func Load(r io.Reader, resolve Resolver) ([]*Board, error) {
	if resolve == nil {
		resolve = ByName
	}
	var fams []familyFile
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&fams); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("board: %w", err)
	}
	var out []*Board
	for i := range fams {
		b, err := fams[i].boards(resolve)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Builtin returns the built-in board family revision, resolving pins with
// Lenient.
func Builtin(family, revision string) (*Board, error) {
	all, err := BuiltinAll()
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		if b.name == family && b.revision == revision {
			return b, nil
		}
	}
	return nil, errcode.New(errcode.NotDetected, "board", "unknown board "+family+" rev "+revision)
}

// BuiltinAll returns every built-in board revision.
//
// The descriptions are parsed once; every call returns the same *Board
// values.
func BuiltinAll() ([]*Board, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Load(bytes.NewReader(boardsYAML), Lenient)
	})
	out := make([]*Board, len(builtin))
	copy(out, builtin)
	return out, builtinErr
}

//go:embed boards.yaml
var boardsYAML []byte

var (
	builtinOnce sync.Once
	builtin     []*Board
	builtinErr  error
)

type familyFile struct {
	Family    string         `yaml:"family"`
	I2C       string         `yaml:"i2c"`
	SPI       string         `yaml:"spi"`
	Sockets   []socketFile   `yaml:"sockets"`
	Revisions []revisionFile `yaml:"revisions"`
}

type socketFile struct {
	Number int               `yaml:"number"`
	Name   string            `yaml:"name"`
	I2C    string            `yaml:"i2c"`
	SPI    string            `yaml:"spi"`
	Pins   map[string]string `yaml:"pins"`
}

type revisionFile struct {
	Name    string `yaml:"name"`
	USB     USBID  `yaml:"usb"`
	Sockets []int  `yaml:"sockets"`
}

func (f *familyFile) boards(resolve Resolver) ([]*Board, error) {
	if f.Family == "" {
		return nil, errcode.New(errcode.InvalidParams, "board", "family without a name")
	}
	sockets := map[int]*Socket{}
	for _, sf := range f.Sockets {
		if _, ok := sockets[sf.Number]; ok {
			return nil, fmt.Errorf("board: %s: duplicate socket %d", f.Family, sf.Number)
		}
		o := SocketOpts{Name: sf.Name, Number: sf.Number, I2C: f.I2C, SPI: f.SPI, Pins: map[Role]gpio.PinIO{}}
		if sf.I2C != "" {
			o.I2C = sf.I2C
		}
		if sf.SPI != "" {
			o.SPI = sf.SPI
		}
		for k, v := range sf.Pins {
			r, err := ParseRole(k)
			if err != nil {
				return nil, fmt.Errorf("board: %s socket %d: %w", f.Family, sf.Number, err)
			}
			p := resolve(v)
			if p == nil {
				return nil, errcode.New(errcode.UnknownPin, "board", f.Family+" socket "+strconv.Itoa(sf.Number)+": pin "+v+" not found")
			}
			o.Pins[r] = p
		}
		sockets[sf.Number] = NewSocket(&o)
	}
	var out []*Board
	for _, rf := range f.Revisions {
		b := &Board{name: f.Family, revision: rf.Name, usb: rf.USB}
		for _, n := range rf.Sockets {
			s := sockets[n]
			if s == nil {
				return nil, fmt.Errorf("board: %s rev %s: unknown socket %d", f.Family, rf.Name, n)
			}
			b.sockets = append(b.sockets, s)
		}
		out = append(out, b)
	}
	return out, nil
}
