// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen implements a display.Drawer that outputs to a terminal
// using ANSI color codes.
//
// Useful to preview what a click board display shows, or to develop without
// the board at hand. Each pixel is rendered as one character cell.
package screen // import "periph.io/x/mikrobus/devices/screen"

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/periph/conn/display"
)

// Opts defines the emulated display.
type Opts struct {
	W int
	H int
	// Out is where frames are rendered. Defaults to a colorable stdout.
	Out io.Writer
}

// Dev is a display emulator that outputs to the console.
type Dev struct {
	w      io.Writer
	rect   image.Rectangle
	pixels []byte
	buf    bytes.Buffer
	drawn  bool
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, errors.New("screen: invalid size")
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:      w,
		rect:   image.Rect(0, 0, opts.W, opts.H),
		pixels: make([]byte, 3*opts.W*opts.H),
	}, nil
}

func (d *Dev) String() string {
	return "Screen(" + strconv.Itoa(d.rect.Dx()) + "x" + strconv.Itoa(d.rect.Dy()) + ")"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	d.drawn = false
	return err
}

// Write accepts a stream of raw RGB pixels, row by row, and writes it to the
// console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("screen: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	if dY := r.Dy(); dY < srcR.Dy() {
		srcR.Max.Y = srcR.Min.Y + dY
	}
	delta := r.Min.Sub(srcR.Min)
	stride := d.rect.Dx()
	for sY := srcR.Min.Y; sY < srcR.Max.Y; sY++ {
		for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
			r16, g16, b16, _ := src.At(sX, sY).RGBA()
			i := 3 * ((sY+delta.Y)*stride + sX + delta.X)
			d.pixels[i] = byte(r16 >> 8)
			d.pixels[i+1] = byte(g16 >> 8)
			d.pixels[i+2] = byte(b16 >> 8)
		}
	}
	_, err := d.refresh()
	return err
}

func (d *Dev) refresh() (int, error) {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.drawn {
		// Move back to the top left corner of the previous frame.
		_, _ = d.buf.WriteString("\033[" + strconv.Itoa(d.rect.Dy()) + "A")
	}
	_, _ = d.buf.WriteString("\r\033[0m")
	stride := d.rect.Dx()
	for i := 0; i < len(d.pixels)/3; i++ {
		_, _ = io.WriteString(&d.buf, ansi256.Default.Block(color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}))
		if (i+1)%stride == 0 {
			_, _ = d.buf.WriteString("\033[0m\n")
		}
	}
	_, err := d.buf.WriteTo(d.w)
	d.drawn = true
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
