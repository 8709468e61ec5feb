// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/devices/screen"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/mikrobus/hardware/hardwaretest"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/spi"
)

// commands returns the transfers sending cmds and whether each is data.
func commands(cmds ...[]byte) ([]hardwaretest.IO, []bool) {
	var ops []hardwaretest.IO
	var data []bool
	for _, c := range cmds {
		ops = append(ops, hardwaretest.IO{W: c[:1]})
		data = append(data, false)
		if len(c) > 1 {
			ops = append(ops, hardwaretest.IO{W: c[1:]})
			data = append(data, true)
		}
	}
	return ops, data
}

func TestNewDraw(t *testing.T) {
	b := hardwaretest.Board(1)
	s := b.Sockets()[0]
	ops, data := commands(initSequence...)
	frame, fdata := commands([]byte{0x15, 16, 111}, []byte{0x75, 0, 95}, []byte{0x5C})
	ops, data = append(ops, frame...), append(data, fdata...)
	red := bytes.Repeat([]byte{0xF8, 0x00}, W*H)
	for i := 0; i < len(red); i += maxTx {
		ops = append(ops, hardwaretest.IO{W: red[i:min(i+maxTx, len(red))]})
		data = append(data, true)
	}
	off, odata := commands([]byte{0xAE})
	ops, data = append(ops, off...), append(data, odata...)

	dc := hardwaretest.Pin(s, board.PWM)
	var got []bool
	port := &hardwaretest.Port{
		Ops: ops,
		OnTx: func([]byte) {
			got = append(got, dc.Read() == gpio.High)
		},
	}
	r := hardwaretest.Registry(b, nil, port)
	var out bytes.Buffer
	mirror, err := screen.New(&screen.Opts{W: W, H: H, Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOpts
	opts.Mirror = mirror
	d, err := New(r, s, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if hardwaretest.Pin(s, board.RST).Read() != gpio.High {
		t.Fatal("RST must be released")
	}
	if d.PowerMode() != driver.On {
		t.Fatal(d.PowerMode())
	}
	src := image.NewNRGBA(d.Bounds())
	draw.Draw(src, src.Bounds(), &image.Uniform{C: color.NRGBA{255, 0, 0, 255}}, image.Point{}, draw.Src)
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if out.Len() == 0 {
		t.Fatal("frame must be mirrored")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if d.PowerMode() != driver.Off {
		t.Fatal(d.PowerMode())
	}
	if err := port.Done(); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Fatalf("%d transfers; want %d", len(got), len(data))
	}
	for i := range got {
		if got[i] != data[i] {
			t.Fatalf("transfer #%d: data = %t", i, got[i])
		}
	}
	if len(port.Connects) != 1 || port.Connects[0].Mode != spi.Mode3 {
		t.Fatalf("unexpected connects %v", port.Connects)
	}
	if r.Len() != 3 {
		t.Fatalf("only the SPI lines must stay claimed: %v", r.Claims())
	}
}

func TestCapabilities(t *testing.T) {
	b := hardwaretest.Board(1)
	s := b.Sockets()[0]
	ops, _ := commands(initSequence...)
	r := hardwaretest.Registry(b, nil, &hardwaretest.Port{Ops: ops})
	d, err := New(r, s, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetPowerMode(driver.Low); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("unexpected %v", err)
	}
	if err := d.Reset(driver.Soft); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("unexpected %v", err)
	}
	if err := d.Reset(driver.Hard); err != nil {
		t.Fatal(err)
	}
	// RST and PWM are taken.
	if err := r.ClaimPins(s, "button", board.PWM); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("unexpected %v", err)
	}
}

func TestRGB565(t *testing.T) {
	data := []struct {
		c    color.Color
		want uint16
	}{
		{color.NRGBA{255, 0, 0, 255}, 0xF800},
		{color.NRGBA{0, 255, 0, 255}, 0x07E0},
		{color.NRGBA{0, 0, 255, 255}, 0x001F},
		{color.White, 0xFFFF},
		{color.Black, 0},
	}
	for _, line := range data {
		if got := rgb565(line.c); got != line.want {
			t.Fatalf("rgb565(%v) = %#04x; want %#04x", line.c, got, line.want)
		}
	}
}
