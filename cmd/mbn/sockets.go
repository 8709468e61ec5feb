// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"periph.io/x/mikrobus/board"
)

func newSocketsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sockets",
		Short: "Print the pins wired to each socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", b)
			for _, s := range b.Sockets() {
				fmt.Fprintf(w, "- %s (I²C %s, SPI %s)\n", s, s.I2CBus(), s.SPIPort())
				for _, r := range board.Roles {
					p := s.Pin(r)
					if p == nil {
						continue
					}
					fmt.Fprintf(w, "  %-4s %s\n", r, board.PinID(p))
				}
			}
			return nil
		},
	}
}
