// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mikrobus is for documentation only.
//
// It drives click boards plugged in the mikroBUS sockets of a board, on top
// of periph.io.
//
// Layout
//
// board describes the sockets of each board revision and the pin wired to
// each socket role.
//
// hardware is the pin ownership registry: every driver claims the pins it
// needs on its socket before touching the hardware, so two drivers never
// drive the same wire. The I²C and SPI lines are shared through the single
// bus handle the registry creates on first use.
//
// bus serializes the transactions of every device on a shared bus,
// installing each device's address, speed and mode for the duration of its
// transaction.
//
// driver defines the capabilities shared by the drivers in devices/.
//
// Example
//
//  b, err := board.Builtin("quail", "1")
//  if err != nil {
//    log.Fatal(err)
//  }
//  r := hardware.New(b)
//  defer r.Close()
//  a, err := accel.New(r, b.ByNumber(1), &accel.DefaultOpts)
//  if err != nil {
//    log.Fatal(err)
//  }
//  defer a.Close()
//  fmt.Println(a.Read())
//
// cgo
//
// hostextra/usbboard uses libusb through github.com/google/gousb, which
// requires pkg-config:
//
//  sudo apt install pkg-config libusb-1.0-0-dev
package mikrobus
