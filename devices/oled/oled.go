// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled controls an SSD1351 based 96x96 color OLED click board over
// the shared SPI port.
//
// The RST line resets the controller and the PWM line selects between
// commands (low) and data (high).
//
// Datasheet
//
// https://www.newhavendisplay.com/appnotes/datasheets/OLEDs/SSD1351.pdf
package oled

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/conn/bits"
	"periph.io/x/mikrobus/driver"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/periph/conn/display"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// Size of the visible area, in pixels.
const (
	W = 96
	H = 96
)

// Opts holds the configuration options.
type Opts struct {
	Speed physic.Frequency
	// Timeout of each bus transaction; 0 means none.
	Timeout time.Duration
	// Mirror, if set, is drawn every frame drawn on the display.
	Mirror display.Drawer
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Speed:   10 * physic.MegaHertz,
	Timeout: time.Second,
}

// Dev is a handle to the display.
type Dev struct {
	c      *bus.SPIDev
	name   string
	rst    gpio.PinIO
	dc     gpio.PinIO
	mirror display.Drawer
	pins   *driver.Pins

	mu     sync.Mutex
	mode   driver.PowerMode
	buffer []byte
}

// New claims the SPI port and the CS, RST and PWM lines of socket s, resets
// the controller and turns the display on.
func New(r *hardware.Registry, s *board.Socket, opts *Opts) (*Dev, error) {
	pins, err := driver.Claim(r, s, "ssd1351", board.SPI, board.CS, board.RST, board.PWM)
	if err != nil {
		return nil, err
	}
	cs := s.Pin(board.CS)
	d := &Dev{
		c:      r.SPI().Dev(bus.SPIConfig{Speed: opts.Speed, Mode: spi.Mode3, CS: cs}, opts.Timeout),
		name:   "SSD1351{" + s.String() + "}",
		rst:    s.Pin(board.RST),
		dc:     s.Pin(board.PWM),
		mirror: opts.Mirror,
		pins:   pins,
		buffer: make([]byte, 2*W*H),
	}
	if err := d.init(cs); err != nil {
		pins.Release()
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// ColorModel implements display.Drawer.
//
// Colors are reduced to RGB565 on the wire.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, W, H)
}

// Draw implements display.Drawer.
//
// The whole frame is sent on every call.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	if dY := r.Dy(); dY < srcR.Dy() {
		srcR.Max.Y = srcR.Min.Y + dY
	}
	delta := r.Min.Sub(srcR.Min)
	d.mu.Lock()
	for sY := srcR.Min.Y; sY < srcR.Max.Y; sY++ {
		for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
			i := 2 * ((sY+delta.Y)*W + sX + delta.X)
			d.buffer[i], d.buffer[i+1] = bits.Split(rgb565(src.At(sX, sY)))
		}
	}
	err := d.flush()
	d.mu.Unlock()
	if err != nil {
		return err
	}
	if d.mirror != nil {
		return d.mirror.Draw(r, src, sp)
	}
	return nil
}

// Halt implements conn.Resource.
//
// It turns the display off.
func (d *Dev) Halt() error {
	return d.SetPowerMode(driver.Off)
}

// PowerMode implements driver.Driver.
func (d *Dev) PowerMode() driver.PowerMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetPowerMode implements driver.Driver.
//
// The display can only be turned on or off.
func (d *Dev) SetPowerMode(m driver.PowerMode) error {
	var c byte
	switch m {
	case driver.On:
		c = cmdDisplayOn
	case driver.Off:
		c = cmdDisplayOff
	default:
		return driver.Unsupported(d, "power mode "+m.String())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.command(c); err != nil {
		return err
	}
	d.mode = m
	return nil
}

// Reset implements driver.Driver.
//
// Only Hard is supported. The controller must be initialized again after a
// reset, which New does.
func (d *Dev) Reset(m driver.ResetMode) error {
	if m != driver.Hard {
		return driver.Unsupported(d, m.String()+" reset")
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	return nil
}

// Version implements driver.Driver.
func (d *Dev) Version() string {
	return "1.0"
}

// Close turns the display off and releases the pins.
func (d *Dev) Close() error {
	err := d.Halt()
	if !d.pins.Release() {
		err = errors.Join(err, errors.New("oled: failed to release pins"))
	}
	return err
}

func (d *Dev) init(cs gpio.PinOut) error {
	if err := cs.Out(gpio.High); err != nil {
		return err
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	if err := d.Reset(driver.Hard); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range initSequence {
		if err := d.command(c[0], c[1:]...); err != nil {
			return err
		}
	}
	d.mode = driver.On
	return nil
}

// flush must be called with mu held.
func (d *Dev) flush() error {
	if err := d.command(cmdColumn, colOffset, colOffset+W-1); err != nil {
		return err
	}
	if err := d.command(cmdRow, 0, H-1); err != nil {
		return err
	}
	if err := d.command(cmdWriteRAM); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	ops := make([]bus.Op, 0, (len(d.buffer)+maxTx-1)/maxTx)
	for b := d.buffer; len(b) != 0; {
		n := min(len(b), maxTx)
		ops = append(ops, bus.Op{W: b[:n]})
		b = b[n:]
	}
	_, err := d.c.Execute(ops...)
	return err
}

// command sends c followed by its arguments.
//
// Must be called with mu held.
func (d *Dev) command(c byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{c}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(args, nil)
}

func rgb565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11)
}

const (
	cmdColumn     = 0x15
	cmdRow        = 0x75
	cmdWriteRAM   = 0x5C
	cmdRemap      = 0xA0
	cmdStartLine  = 0xA1
	cmdOffset     = 0xA2
	cmdNormal     = 0xA6
	cmdDisplayOff = 0xAE
	cmdDisplayOn  = 0xAF
	cmdLock       = 0xFD

	// The 96 visible columns are centered in the 128 columns of RAM.
	colOffset = 16
	// Largest transfer of the spidev driver.
	maxTx = 4096

	resetPulse = time.Millisecond
)

var initSequence = [][]byte{
	{cmdLock, 0x12},
	{cmdLock, 0xB1},
	{cmdDisplayOff},
	// 65k colors, COM split, scan from COM[N-1].
	{cmdRemap, 0x74},
	{cmdStartLine, 0},
	{cmdOffset, 0},
	{cmdNormal},
	{cmdDisplayOn},
}

var _ display.Drawer = &Dev{}
var _ driver.Driver = &Dev{}
