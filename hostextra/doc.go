// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hostextra initializes the host the board is connected to.
//
// The host is the machine where this code is running. Contrary to
// periph.io/x/periph/host, hostextra also detects which mikroBUS board is
// connected, which depends on third party Go packages.
package hostextra
