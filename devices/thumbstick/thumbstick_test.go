// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thumbstick

import (
	"errors"
	"sync"
	"testing"
	"time"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/devices/current"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/mikrobus/hardware/hardwaretest"
	"periph.io/x/periph/conn/gpio"
)

func sample(ch uint8, v uint16) hardwaretest.IO {
	return hardwaretest.IO{W: []byte{0x06, ch << 6, 0}, R: []byte{0xFF, 0xE0 | byte(v>>8), byte(v)}}
}

func TestPosition(t *testing.T) {
	b := hardwaretest.Board(2)
	s := b.Sockets()[1]
	port := &hardwaretest.Port{
		Ops: []hardwaretest.IO{
			sample(0, 2048), sample(1, 2048),
			sample(0, 4095), sample(1, 0),
			sample(0, 2058), sample(1, 2038),
			sample(0, 2068), sample(1, 2038),
			sample(0, 4095), sample(1, 4095),
			sample(0, 0), sample(1, 0),
		},
	}
	r := hardwaretest.Registry(b, nil, port)
	d, err := New(r, s, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	btn := hardwaretest.Pin(s, board.INT)
	if btn.Pull() != gpio.PullUp {
		t.Fatal("button must be pulled up")
	}
	data := []Position{{0, 0}, {2047, -2048}}
	for i, want := range data {
		if p, err := d.Position(); p != want || err != nil {
			t.Fatalf("#%d: Position() = %v, %v", i, p, err)
		}
	}
	if err := d.Calibrate(); err != nil {
		t.Fatal(err)
	}
	// The rest position is now (10, -10); the range stays saturated.
	for i, want := range []Position{{10, 0}, {2037, 2047}, {-2048, -2038}} {
		if p, err := d.Position(); p != want || err != nil {
			t.Fatalf("#%d: Position() = %v, %v", i, p, err)
		}
	}
	if d.Pressed() {
		t.Fatal("must not be pressed")
	}
	btn.Out(gpio.Low)
	if !d.Pressed() {
		t.Fatal("must be pressed")
	}
	if err := port.Done(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 3 {
		t.Fatalf("only the SPI lines must stay claimed: %v", r.Claims())
	}
}

func TestSharedPort(t *testing.T) {
	// A thumbstick and a current sensor on two sockets share the SPI lines.
	b := hardwaretest.Board(2)
	s1, s2 := b.Sockets()[0], b.Sockets()[1]
	cs1, cs2 := hardwaretest.Pin(s1, board.CS), hardwaretest.Pin(s2, board.CS)
	port := &hardwaretest.Port{
		Ops: []hardwaretest.IO{
			sample(0, 2048), sample(1, 2048),
			{W: []byte{0, 0}, R: []byte{0, 2}},
		},
		OnTx: func(w []byte) {
			if cs1.Read() == cs2.Read() {
				t.Error("exactly one chip select must be asserted")
			}
		},
	}
	r := hardwaretest.Registry(b, nil, port)
	d, err := New(r, s1, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	c, err := current.New(r, s2, &current.DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Position(); err != nil {
		t.Fatal(err)
	}
	if v, err := c.ReadRaw(); v != 1 || err != nil {
		t.Fatalf("ReadRaw() = %d, %v", v, err)
	}
	if _, err := current.New(r, s1, &current.DefaultOpts); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("unexpected %v", err)
	}
	if err := port.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestOnChange(t *testing.T) {
	b := hardwaretest.Board(1)
	s := b.Sockets()[0]
	port := &hardwaretest.Port{}
	for i := 0; i < 1000; i++ {
		port.Ops = append(port.Ops, sample(0, 2048), sample(1, 2048))
	}
	r := hardwaretest.Registry(b, nil, port)
	d, err := New(r, s, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var got []State
	changes := make(chan struct{}, 10)
	d.OnChange.Subscribe(func(s State) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
		changes <- struct{}{}
	})
	if err := d.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	<-changes
	hardwaretest.Pin(s, board.INT).Out(gpio.Low)
	<-changes
	d.Stop()
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0].Pressed || !got[1].Pressed || got[1].Position != (Position{}) {
		t.Fatalf("unexpected %v", got)
	}
}
