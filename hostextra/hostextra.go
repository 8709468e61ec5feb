// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostextra

import (
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/hostextra/usbboard"
	"periph.io/x/periph"
	"periph.io/x/periph/host"
)

// Init calls host.Init() then detects the built-in board connected over USB.
//
// The host drivers are loaded first so the board pins resolve to the real
// gpioreg pins. The state is returned even if no board is detected.
func Init() (*periph.State, *board.Board, error) {
	state, err := host.Init()
	if err != nil {
		return nil, nil, err
	}
	all, err := board.BuiltinAll()
	if err != nil {
		return state, nil, err
	}
	b, _, err := usbboard.Detect(all)
	return state, b, err
}
