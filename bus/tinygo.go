// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"time"

	"periph.io/x/periph/conn/physic"
	"tinygo.org/x/drivers"
)

// TinyGo returns a tinygo.org/x/drivers.I2C view of the shared bus.
//
// It lets the TinyGo device drivers run on the shared bus; each Tx goes
// through Execute with the address passed by the driver and speed, so they
// are serialized with every other device.
func TinyGo(b *I2C, speed physic.Frequency, timeout time.Duration) drivers.I2C {
	return &tinyI2C{b: b, speed: speed, timeout: timeout}
}

type tinyI2C struct {
	b       *I2C
	speed   physic.Frequency
	timeout time.Duration
}

func (t *tinyI2C) Tx(addr uint16, w, r []byte) error {
	_, err := t.b.Execute(I2CConfig{Addr: addr, Speed: t.speed}, []Op{{W: w, R: r}}, t.timeout)
	return err
}

var _ drivers.I2C = (*tinyI2C)(nil)
