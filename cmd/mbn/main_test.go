// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"periph.io/x/mikrobus/bus"
	"periph.io/x/periph/conn/physic"
)

func TestSockets(t *testing.T) {
	out := run(t, "sockets", "-r", "1-lite")
	if !strings.HasPrefix(out, "quail rev 1-lite\n- socket 1 (I²C I2C1, SPI SPI1)\n") {
		t.Fatalf("unexpected %q", out)
	}
	if !strings.Contains(out, "  CS   PA5\n") || strings.Contains(out, "socket 3") {
		t.Fatalf("unexpected %q", out)
	}
}

func TestSocketsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "b.yaml")
	doc := `- family: tiny
  i2c: I2C0
  spi: SPI0
  sockets:
    - number: 1
      pins: {CS: P1, SCL: P2, SDA: P3}
  revisions:
    - name: "a"
      sockets: [1]
`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out := run(t, "sockets", "--board", p, "-r", "a")
	if out != "tiny rev a\n- socket 1 (I²C I2C0, SPI SPI0)\n  CS   P1\n  SCL  P2\n  SDA  P3\n" {
		t.Fatalf("unexpected %q", out)
	}
	root := newRoot()
	root.SetArgs([]string{"sockets", "--board", p, "-r", "b"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error")
	}
}

func TestScan(t *testing.T) {
	b := bus.NewI2C(&probe{found: map[uint16]bool{0x1D: true, 0x50: true}})
	var out bytes.Buffer
	if err := scan(&out, bus.TinyGo(b, 100*physic.KiloHertz, 0)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	if len(lines) != 10 {
		t.Fatalf("unexpected %q", out.String())
	}
	if !strings.Contains(lines[2], " 1d") || !strings.HasPrefix(lines[6], "50: 50 --") {
		t.Fatalf("unexpected %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "00:"+strings.Repeat(" ", 25)+"--") {
		t.Fatalf("unexpected %q", lines[1])
	}
}

func run(t *testing.T, args ...string) string {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

type probe struct {
	found map[uint16]bool
}

func (p *probe) String() string                    { return "probe" }
func (p *probe) SetSpeed(f physic.Frequency) error { return nil }
func (p *probe) Tx(addr uint16, w, r []byte) error {
	if p.found[addr] {
		return nil
	}
	return errors.New("nack")
}
