// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// mbn inspects mikroBUS boards: it lists the socket wiring, detects the
// board connected over USB and scans the I²C bus of a socket.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"periph.io/x/mikrobus/board"
)

type options struct {
	verbose  bool
	file     string
	family   string
	revision string
}

func newRoot() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "mbn",
		Short: "Inspect mikroBUS boards",
		Long: `mbn inspects mikroBUS boards.

Examples:
  mbn sockets                        # Wiring of the built-in board
  mbn sockets --board quail.yaml -r 2
  mbn detect                         # Board connected over USB
  mbn i2cscan --socket 2             # Probe the I²C bus of socket 2`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !o.verbose {
				log.SetOutput(io.Discard)
			}
			log.SetFlags(log.Lmicroseconds)
		},
	}
	f := root.PersistentFlags()
	f.BoolVarP(&o.verbose, "verbose", "v", false, "verbose mode")
	f.StringVar(&o.file, "board", "", "board file to load instead of the built-in boards")
	f.StringVarP(&o.family, "family", "f", "", "board family; defaults to the first one")
	f.StringVarP(&o.revision, "revision", "r", "1", "board revision")
	root.AddCommand(newSocketsCmd(o), newDetectCmd(o), newI2CScanCmd(o))
	return root
}

// load returns the selected board.
//
// Pins are resolved with gpioreg when available, so host.Init() must be
// called first to get real pins.
func (o *options) load() (*board.Board, error) {
	if o.file == "" {
		all, err := board.BuiltinAll()
		if err != nil {
			return nil, err
		}
		return pick(all, o.family, o.revision)
	}
	f, err := os.Open(o.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	all, err := board.Load(f, board.Lenient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.file, err)
	}
	return pick(all, o.family, o.revision)
}

// pick returns the board revision of family, or of the first family if
// empty.
func pick(all []*board.Board, family, revision string) (*board.Board, error) {
	for _, b := range all {
		if (family == "" || b.Name() == family) && b.Revision() == revision {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no board %q revision %q", family, revision)
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mbn: %s.\n", err)
		os.Exit(1)
	}
}
