// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hardware gates access to the pins of a mikroBUS board.
//
// A Registry is constructed once per board and handed to every driver
// constructor. A driver claims the socket pins it needs before touching the
// hardware and releases them when closed. Two drivers can never own the same
// physical pin, with one exception: the I²C and SPI bus lines are shared by
// every driver using the bus, through the single bus handle the registry
// creates on the first bus claim.
//
// Conflicts are reported as a *ConflictError, which matches
// errcode.PinInUse with errors.Is.
package hardware
