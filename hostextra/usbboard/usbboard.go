// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usbboard detects which board revision is connected by matching
// the USB descriptors on the host against the boards' USB ids.
package usbboard

import (
	"fmt"
	"log"
	"sort"

	"github.com/google/gousb"
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/errcode"
)

// Desc represents the description of an USB device on an USB bus.
type Desc struct {
	ID   board.USBID
	Bus  int
	Addr int
	// Product is the product string, only read for devices matching a known
	// board.
	Product string
}

func (d *Desc) String() string {
	s := fmt.Sprintf("%d:%d %04x:%04x", d.Bus, d.Addr, d.ID.VID, d.ID.PID)
	if d.Product != "" {
		s += " " + d.Product
	}
	return s
}

// Match returns the first board whose USB id matches one of descs.
//
// Boards without a USB id are ignored.
func Match(boards []*board.Board, descs []Desc) (*board.Board, Desc, error) {
	for i := range descs {
		for _, b := range boards {
			if id := b.USB(); id != (board.USBID{}) && id == descs[i].ID {
				return b, descs[i], nil
			}
		}
	}
	return nil, Desc{}, errcode.New(errcode.NotDetected, "usbboard", fmt.Sprintf("none of %d USB devices is a known board", len(descs)))
}

// Scan returns all the USB devices on the host, sorted by bus and address.
//
// The devices matching one of boards are opened to read their product
// string.
func Scan(boards []*board.Board) ([]Desc, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()
	var all []Desc
	devs, err := ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		// Return true to keep the device open.
		desc := fromDesc(d)
		all = append(all, desc)
		_, _, err := Match(boards, []Desc{desc})
		return err == nil
	})
	// If the user needs root access, LIBUSB_ERROR_ACCESS (-3) will be returned
	// but the devices that could be opened are still valid.
	for _, d := range devs {
		desc := fromDesc(d.Desc)
		name, err := d.Product()
		if err != nil {
			log.Printf("usbboard: %s: %v", &desc, err)
		}
		for i := range all {
			if all[i].Bus == desc.Bus && all[i].Addr == desc.Addr {
				all[i].Product = name
			}
		}
		d.Close()
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Bus != all[j].Bus {
			return all[i].Bus < all[j].Bus
		}
		return all[i].Addr < all[j].Addr
	})
	if err != nil && len(all) == 0 {
		return nil, err
	}
	return all, nil
}

// Detect returns the board connected to the host.
func Detect(boards []*board.Board) (*board.Board, Desc, error) {
	descs, err := Scan(boards)
	if err != nil {
		return nil, Desc{}, err
	}
	return Match(boards, descs)
}

func fromDesc(d *gousb.DeviceDesc) Desc {
	return Desc{ID: board.USBID{VID: uint16(d.Vendor), PID: uint16(d.Product)}, Bus: d.Bus, Addr: d.Address}
}
