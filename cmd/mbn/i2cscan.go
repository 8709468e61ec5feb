// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/hardware"
	"periph.io/x/mikrobus/hostextra"
	"periph.io/x/periph"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
	"tinygo.org/x/drivers"
)

func newI2CScanCmd(o *options) *cobra.Command {
	socket := 1
	detect := false
	cmd := &cobra.Command{
		Use:   "i2cscan",
		Short: "Probe every address on the I²C bus of a socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b *board.Board
			var state *periph.State
			var err error
			if detect {
				state, b, err = hostextra.Init()
			} else if state, err = host.Init(); err == nil {
				b, err = o.load()
			}
			if state != nil {
				for _, d := range state.Loaded {
					log.Printf("loaded %s", d)
				}
			}
			if err != nil {
				return err
			}
			s := b.ByNumber(socket)
			if s == nil {
				return errors.New("no socket " + strconv.Itoa(socket) + " on " + b.String())
			}
			r := hardware.New(b)
			defer r.Close()
			if err := r.ClaimPinsForBus(s, "i2cscan", board.I2C); err != nil {
				return err
			}
			return scan(cmd.OutOrStdout(), bus.TinyGo(r.I2C(), 100*physic.KiloHertz, 100*time.Millisecond))
		},
	}
	cmd.Flags().IntVarP(&socket, "socket", "s", socket, "socket number")
	cmd.Flags().BoolVar(&detect, "detect", detect, "use the board detected over USB")
	return cmd
}

// scan prints a map of the responding addresses in the style of i2cdetect.
//
// Each address is probed with a one byte read.
func scan(w io.Writer, c drivers.I2C) error {
	fmt.Fprintf(w, "     0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f\n")
	r := make([]byte, 1)
	for row := uint16(0); row < 0x80; row += 0x10 {
		fmt.Fprintf(w, "%02x:", row)
		for addr := row; addr < row+0x10; addr++ {
			if addr < 0x08 || addr > 0x77 {
				fmt.Fprintf(w, "   ")
				continue
			}
			if err := c.Tx(addr, nil, r); err != nil {
				log.Printf("%#02x: %v", addr, err)
				fmt.Fprintf(w, " --")
				continue
			}
			fmt.Fprintf(w, " %02x", addr)
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}
