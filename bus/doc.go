// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus serializes transactions on the I²C bus and SPI port shared by
// every driver of a board.
//
// One handle exists per bus type. Each driver carries its own device
// configuration (address and clock for I²C; clock, mode, word size and chip
// select for SPI) and every transaction atomically installs it on the shared
// handle, runs, and releases the handle for the next caller.
//
// Locking
//
// Each handle owns one mutex. It is held for the whole transaction including
// the configuration change, it is not re-entrant and acquiring it never times
// out. A transaction that exceeds its timeout returns errcode.Timeout to the
// caller right away but keeps the lock until the underlying bus call returns,
// so a stuck device starves the other devices on the same bus instead of
// having its configuration clobbered mid-flight.
//
// I²C and SPI use independent locks, so their transactions can interleave
// freely.
package bus
