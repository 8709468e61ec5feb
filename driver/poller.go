// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package driver

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Poller runs a function periodically on a background goroutine.
//
// Stopping is cooperative: the stop flag is checked at the top of each
// iteration, so a call blocked in a bus transaction completes first.
type Poller struct {
	mu   sync.Mutex
	stop atomic.Bool
	wake chan struct{}
	done chan struct{}
}

// Start starts calling fn every interval until Stop is called.
func (p *Poller) Start(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return errors.New("driver: poll interval must be positive")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return errors.New("driver: already polling")
	}
	p.stop.Store(false)
	p.wake = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(interval, fn, p.wake, p.done)
	return nil
}

// Stop stops the polling goroutine and waits for it to exit.
//
// It must not be called from fn.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return
	}
	p.stop.Store(true)
	close(p.wake)
	<-p.done
	p.wake = nil
	p.done = nil
}

// Running returns true between Start and Stop.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}

func (p *Poller) run(interval time.Duration, fn func(), wake <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		if p.stop.Load() {
			return
		}
		fn()
		t := time.NewTimer(interval)
		select {
		case <-t.C:
		case <-wake:
			t.Stop()
		}
	}
}

// Event is a list of subscribers to values of type T.
//
// Emit calls every subscriber synchronously, on the caller's goroutine, in
// subscription order.
type Event[T any] struct {
	mu  sync.Mutex
	fns []func(T)
}

// Subscribe adds fn to the subscribers.
func (e *Event[T]) Subscribe(fn func(T)) {
	e.mu.Lock()
	e.fns = append(e.fns, fn)
	e.mu.Unlock()
}

// Emit calls every subscriber with v.
func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	fns := e.fns
	e.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
