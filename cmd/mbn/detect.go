// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/hostextra/usbboard"
)

func newDetectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect the board connected over USB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := board.BuiltinAll()
			if err != nil {
				return err
			}
			descs, err := usbboard.Scan(all)
			if err != nil {
				return err
			}
			for i := range descs {
				log.Printf("%s", &descs[i])
			}
			b, d, err := usbboard.Match(all, descs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s\n", b, &d)
			return nil
		},
	}
}
