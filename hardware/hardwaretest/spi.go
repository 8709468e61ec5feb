// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hardwaretest

import (
	"bytes"
	"fmt"
	"sync"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// IO is one expected SPI transfer.
type IO struct {
	W []byte
	R []byte
}

// Connect is one recorded Port.Connect call.
type Connect struct {
	F    physic.Frequency
	Mode spi.Mode
	Bits int
}

// Port is a spi.Port playing back Ops.
type Port struct {
	sync.Mutex
	Ops []IO
	// OnTx, if set, is called before each transfer.
	OnTx     func(w []byte)
	Connects []Connect
	Count    int
	Closed   bool
}

func (p *Port) String() string {
	return "playback"
}

// Connect implements spi.Port.
func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.Lock()
	defer p.Unlock()
	p.Connects = append(p.Connects, Connect{F: f, Mode: mode, Bits: bits})
	return &portConn{p: p}, nil
}

// LimitSpeed implements spi.Port.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Close implements spi.PortCloser.
func (p *Port) Close() error {
	p.Lock()
	defer p.Unlock()
	p.Closed = true
	return nil
}

// Done returns an error if not all Ops were played back.
func (p *Port) Done() error {
	p.Lock()
	defer p.Unlock()
	if p.Count != len(p.Ops) {
		return fmt.Errorf("hardwaretest: expected %d more transfers", len(p.Ops)-p.Count)
	}
	return nil
}

func (p *Port) tx(w, r []byte) error {
	if p.OnTx != nil {
		p.OnTx(w)
	}
	p.Lock()
	defer p.Unlock()
	if p.Count >= len(p.Ops) {
		return fmt.Errorf("hardwaretest: unexpected transfer %#v", w)
	}
	op := p.Ops[p.Count]
	if !bytes.Equal(op.W, w) {
		return fmt.Errorf("hardwaretest: transfer #%d: wrote %#v; want %#v", p.Count, w, op.W)
	}
	if len(op.R) != len(r) {
		return fmt.Errorf("hardwaretest: transfer #%d: read %d bytes; want %d", p.Count, len(r), len(op.R))
	}
	copy(r, op.R)
	p.Count++
	return nil
}

type portConn struct {
	p *Port
}

func (c *portConn) String() string {
	return c.p.String()
}

func (c *portConn) Tx(w, r []byte) error {
	return c.p.tx(w, r)
}

func (c *portConn) Duplex() conn.Duplex {
	return conn.Full
}

func (c *portConn) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := c.p.tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

var _ spi.PortCloser = &Port{}
var _ spi.Conn = &portConn{}
