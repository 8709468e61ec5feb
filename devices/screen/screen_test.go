// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestNew(t *testing.T) {
	if _, err := New(&Opts{W: 0, H: 2}); err == nil {
		t.Fatal("expected error")
	}
	d, err := New(&Opts{W: 3, H: 2, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "Screen(3x2)" {
		t.Fatal(s)
	}
	if d.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatal(d.Bounds())
	}
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d, err := New(&Opts{W: 3, H: 2, Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	red := color.NRGBA{255, 0, 0, 255}
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	draw.Draw(src, src.Bounds(), &image.Uniform{C: red}, image.Point{}, draw.Src)
	if err := d.Draw(image.Rect(2, 1, 3, 2), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d.pixels[15:18], []byte{255, 0, 0}) {
		t.Fatalf("unexpected pixels %v", d.pixels)
	}
	for i := 0; i < 15; i++ {
		if d.pixels[i] != 0 {
			t.Fatalf("unexpected pixels %v", d.pixels)
		}
	}
	s := out.String()
	if strings.Count(s, "\n") != 2 {
		t.Fatalf("unexpected %q", s)
	}
	if !strings.HasSuffix(s, ansi256.Default.Block(red)+"\033[0m\n") {
		t.Fatalf("unexpected %q", s)
	}

	// The second frame overwrites the first one.
	out.Reset()
	if _, err := d.Write(make([]byte, 3*6)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[2A") {
		t.Fatalf("unexpected %q", out.String())
	}
	if _, err := d.Write(make([]byte, 4)); err == nil {
		t.Fatal("expected error")
	}
	out.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[0m\n" {
		t.Fatalf("unexpected %q", out.String())
	}
}
