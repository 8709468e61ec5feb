// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slices"
	"periph.io/x/mikrobus/errcode"
)

// Op is one transfer of a transaction.
//
// For I²C it is one bus Tx (write W then read len(R) bytes with a repeated
// start). For SPI it is one Tx on the connection; when both are set, W and R
// must have the same length.
type Op struct {
	W []byte
	R []byte
}

// handle is the part shared by the I²C and SPI handles.
type handle struct {
	mu     sync.Mutex
	closed bool
}

// execute runs fn on ops with h.mu held.
//
// fn reports its progress in n. When timeout is positive and fn does not
// return in time, execute returns errcode.Timeout and the lock is released
// by the goroutine running fn once it returns. In that case fn runs on
// private copies of the buffers, and the read buffers are copied back to ops
// only if fn returns in time, so the caller's buffers are never touched once
// execute returned.
func (h *handle) execute(op string, ops []Op, timeout time.Duration, fn func(ops []Op, n *atomic.Int64) error) (int, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, errcode.New(errcode.Closed, op, "bus is closed")
	}
	var n atomic.Int64
	if timeout <= 0 {
		defer h.mu.Unlock()
		err := fn(ops, &n)
		return int(n.Load()), err
	}
	own := make([]Op, len(ops))
	for i := range ops {
		own[i].W = slices.Clone(ops[i].W)
		if ops[i].R != nil {
			own[i].R = make([]byte, len(ops[i].R))
		}
	}
	done := make(chan error, 1)
	go func() {
		defer h.mu.Unlock()
		done <- fn(own, &n)
	}()
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case err := <-done:
		for i := range ops {
			copy(ops[i].R, own[i].R)
		}
		return int(n.Load()), err
	case <-t.C:
		c := n.Load()
		return int(c), errcode.New(errcode.Timeout, op, "transaction did not complete in "+timeout.String()+" ("+strconv.FormatInt(c, 10)+" bytes transferred)")
	}
}

// close marks the handle closed and closes c if it is an io.Closer.
//
// It waits for the in-flight transaction, if any.
func (h *handle) close(c interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
