// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package current

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/mikrobus/hardware/hardwaretest"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// sample returns the 2 bytes frame carrying v.
func sample(v uint16) hardwaretest.IO {
	w := v << 1
	return hardwaretest.IO{W: []byte{0, 0}, R: []byte{byte(w>>8) | 0xE0, byte(w)}}
}

func TestRead(t *testing.T) {
	b := hardwaretest.Board(2)
	s := b.Sockets()[0]
	cs := hardwaretest.Pin(s, board.CS)
	port := &hardwaretest.Port{
		Ops: []hardwaretest.IO{sample(0xABC), sample(Max), sample(1000), sample(3000), sample(1000), sample(3000)},
		OnTx: func([]byte) {
			if cs.Read() != gpio.Low {
				t.Error("CS must be asserted")
			}
		},
	}
	r := hardwaretest.Registry(b, nil, port)
	opts := DefaultOpts
	opts.Oversampling = 2
	d, err := New(r, s, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := d.ReadRaw(); v != 0xABC || err != nil {
		t.Fatalf("ReadRaw() = %#x, %v", v, err)
	}
	if v, err := d.ReadRaw(); v != Max || err != nil {
		t.Fatalf("ReadRaw() = %#x, %v", v, err)
	}
	i, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if want := 3300 * physic.MilliAmpere * 2000 / Max; i != want {
		t.Fatalf("Read() = %s; want %s", i, want)
	}
	mean, std, err := d.Stats(2)
	if err != nil {
		t.Fatal(err)
	}
	if mean != 2000 || math.Abs(std-math.Sqrt2*1000) > 1e-9 {
		t.Fatalf("Stats() = %g, %g", mean, std)
	}
	if cs.Read() != gpio.High {
		t.Fatal("CS must be released")
	}
	if len(port.Connects) != 1 || port.Connects[0] != (hardwaretest.Connect{F: physic.MegaHertz, Mode: spi.Mode0, Bits: 8}) {
		t.Fatalf("unexpected connects %v", port.Connects)
	}
	if err := port.Done(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.Stats(0); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("unexpected %v", err)
	}
	if err := d.SetPowerMode(driver.Off); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("unexpected %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Owner(cs); ok {
		t.Fatal("CS must be released")
	}
}

func TestNewErrors(t *testing.T) {
	b := hardwaretest.Board(1)
	s := b.Sockets()[0]
	r := hardwaretest.Registry(b, nil, &hardwaretest.Port{})
	if _, err := New(r, s, &Opts{FullScale: physic.Ampere}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("unexpected %v", err)
	}
	if err := r.ClaimPins(s, "oled", board.CS); err != nil {
		t.Fatal(err)
	}
	if _, err := New(r, s, &DefaultOpts); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("unexpected %v", err)
	}
	r = hardwaretest.Registry(b, nil, nil)
	if _, err := New(r, s, &DefaultOpts); err == nil {
		t.Fatal("expected error")
	}
}
