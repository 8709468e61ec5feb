// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"errors"
	"strings"
)

// Role is the function of a pin on a mikroBUS socket.
//
// The zero value None means "not required" and is skipped by every claim and
// release operation.
type Role uint8

// Pin roles, in mikroBUS header order.
const (
	None Role = iota
	AN        // Analog input
	RST       // Reset
	CS        // SPI chip select
	SCK       // SPI clock
	MISO      // SPI master in
	MOSI      // SPI master out
	PWM       // PWM output
	INT       // Interrupt
	RX        // UART receive
	TX        // UART transmit
	SCL       // I²C clock
	SDA       // I²C data

	numRoles
)

// Roles lists every assignable role, in header order.
var Roles = []Role{AN, RST, CS, SCK, MISO, MOSI, PWM, INT, RX, TX, SCL, SDA}

const roleNames = "NoneANRSTCSSCKMISOMOSIPWMINTRXTXSCLSDA"

var roleIndex = [...]uint8{0, 4, 6, 9, 11, 14, 18, 22, 25, 28, 30, 32, 35, 38}

func (r Role) String() string {
	if r >= numRoles {
		return "Role(?)"
	}
	return roleNames[roleIndex[r]:roleIndex[r+1]]
}

// Bus returns the bus type the role belongs to, or NoBus for an exclusive
// role.
func (r Role) Bus() BusKind {
	switch r {
	case SCL, SDA:
		return I2C
	case SCK, MISO, MOSI:
		return SPI
	default:
		return NoBus
	}
}

// ParseRole returns the Role named s. The comparison is case insensitive.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return None, errors.New("board: unknown pin role " + s)
}

// BusKind is a shared bus type.
type BusKind uint8

// Bus types.
const (
	NoBus BusKind = iota
	I2C
	SPI
)

func (b BusKind) String() string {
	switch b {
	case I2C:
		return "I²C"
	case SPI:
		return "SPI"
	default:
		return "GPIO"
	}
}

// BusRoles returns the roles implicitly used by every device on the bus.
func (b BusKind) BusRoles() []Role {
	switch b {
	case I2C:
		return []Role{SCL, SDA}
	case SPI:
		return []Role{SCK, MISO, MOSI}
	default:
		return nil
	}
}
