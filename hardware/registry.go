// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hardware

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
	"periph.io/x/mikrobus/board"
	"periph.io/x/mikrobus/bus"
	"periph.io/x/mikrobus/errcode"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/pin"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
)

// Claim records the ownership of one physical pin.
type Claim struct {
	// Pin is the pin as bound on Socket.
	Pin gpio.PinIO
	// ID is the physical pin identity, see board.PinID.
	ID     string
	Socket *board.Socket
	Role   board.Role
	Owner  string
	// Use is board.NoBus for a plain GPIO claim, otherwise the bus sharing
	// the pin.
	Use board.BusKind
}

func (c *Claim) String() string {
	return fmt.Sprintf("%s %s(%s) by %q", c.Socket, c.Role, c.ID, c.Owner)
}

// ConflictError is returned when a requested pin is already owned.
type ConflictError struct {
	// Socket and Role are the requested pin.
	Socket *board.Socket
	Role   board.Role
	Pin    gpio.PinIO
	// Owner is the requester.
	Owner string
	// Held is the existing claim on the same physical pin.
	Held Claim
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("hardware: %s: %s pin %s requested by %q is in use by %q as %s on %s", e.Socket, e.Role, board.PinID(e.Pin), e.Owner, e.Held.Owner, e.Held.Role, e.Held.Socket)
}

// Code implements the errcode classification.
func (e *ConflictError) Code() errcode.Code {
	return errcode.PinInUse
}

// Is makes errors.Is(err, errcode.PinInUse) true.
func (e *ConflictError) Is(target error) bool {
	return target == errcode.PinInUse
}

// Option configures a Registry.
type Option func(r *Registry)

// WithI2COpener overrides how the shared I²C bus is opened. The default opens
// the socket's I²C bus by name with i2creg.
func WithI2COpener(open func(s *board.Socket) (i2c.Bus, error)) Option {
	return func(r *Registry) {
		r.openI2C = open
	}
}

// WithSPIOpener overrides how the shared SPI port is opened. The default opens
// the socket's SPI port by name with spireg.
func WithSPIOpener(open func(s *board.Socket) (spi.Port, error)) Option {
	return func(r *Registry) {
		r.openSPI = open
	}
}

// Registry is the pin ownership registry of a board.
//
// It is safe for concurrent use. A single lock covers both the claims and
// the creation of the shared bus handles, so concurrent first time bus
// claims create exactly one handle.
type Registry struct {
	b       *board.Board
	openI2C func(s *board.Socket) (i2c.Bus, error)
	openSPI func(s *board.Socket) (spi.Port, error)

	mu      sync.Mutex
	claims  []Claim
	i2c     *bus.I2C
	i2cName string
	spi     *bus.SPI
	spiName string
	closed  bool
}

// New returns an empty registry for the detected board revision b.
func New(b *board.Board, opts ...Option) *Registry {
	r := &Registry{b: b, openI2C: openI2C, openSPI: openSPI}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) String() string {
	return "hardware(" + r.b.String() + ")"
}

// Board returns the board this registry gates.
func (r *Registry) Board() *board.Board {
	return r.b
}

// ClaimPins claims the pins bound to roles on socket s for owner.
//
// board.None and roles not wired on s are skipped. Requesting a bus role
// creates the shared bus handle of that type if needed; bus pins already
// claimed through the same bus are shared and recorded once. A socket wired
// to another bus than the shared one fails with errcode.InvalidParams. Any
// other pin
// already claimed, possibly through another socket, fails with a
// *ConflictError.
//
// The call is all-or-nothing: on error, no claim is recorded.
func (r *Registry) ClaimPins(s *board.Socket, owner string, roles ...board.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errcode.New(errcode.Closed, "hardware", "registry is closed")
	}
	if s == nil || !r.b.Has(s) {
		return errcode.New(errcode.UnknownSocket, "hardware", fmt.Sprintf("%v is not wired on %s", s, r.b))
	}
	for _, role := range roles {
		if role != board.None && s.Bound(role) {
			if err := r.openBus(s, role.Bus()); err != nil {
				return err
			}
		}
	}
	var add []Claim
	for _, role := range roles {
		p := s.Pin(role)
		if role == board.None || p == nil {
			continue
		}
		c := Claim{Pin: p, ID: board.PinID(p), Socket: s, Role: role, Owner: owner, Use: role.Bus()}
		same := func(o Claim) bool { return o.ID == c.ID }
		if i := slices.IndexFunc(r.claims, same); i >= 0 {
			if r.shared(&c, &r.claims[i]) {
				continue
			}
			return &ConflictError{Socket: s, Role: role, Pin: p, Owner: owner, Held: r.claims[i]}
		}
		if i := slices.IndexFunc(add, same); i >= 0 {
			if r.shared(&c, &add[i]) {
				continue
			}
			return &ConflictError{Socket: s, Role: role, Pin: p, Owner: owner, Held: add[i]}
		}
		add = append(add, c)
	}
	r.claims = append(r.claims, add...)
	return nil
}

// ClaimPinsForBus claims the bus lines of kind on socket s, plus the extra
// roles, for owner.
//
// It is ClaimPins with board.SCL and board.SDA prepended for board.I2C, and
// board.SCK, board.MISO and board.MOSI for board.SPI.
func (r *Registry) ClaimPinsForBus(s *board.Socket, owner string, kind board.BusKind, extra ...board.Role) error {
	br := kind.BusRoles()
	if br == nil {
		return errcode.New(errcode.InvalidParams, "hardware", "not a bus: "+kind.String())
	}
	return r.ClaimPins(s, owner, append(br, extra...)...)
}

// ReleasePins releases the claims owner holds on the pins bound to roles on
// socket s.
//
// Bus roles are never released since other drivers may depend on the shared
// bus; they are counted as not released. It returns true only if every
// requested bound role was found and released.
func (r *Registry) ReleasePins(s *board.Socket, owner string, roles ...board.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		return false
	}
	ok := true
	for _, role := range roles {
		p := s.Pin(role)
		if role == board.None || p == nil {
			continue
		}
		if role.Bus() != board.NoBus {
			ok = false
			continue
		}
		id := board.PinID(p)
		i := slices.IndexFunc(r.claims, func(c Claim) bool {
			return c.ID == id && c.Socket == s && c.Role == role && c.Owner == owner
		})
		if i < 0 {
			ok = false
			continue
		}
		r.claims = slices.Delete(r.claims, i, i+1)
	}
	return ok
}

// Claims returns a copy of the current claims, in claim order.
func (r *Registry) Claims() []Claim {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.claims)
}

// Len returns the number of claims.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}

// Owner returns the claim on the physical pin behind p, if any.
func (r *Registry) Owner(p pin.Pin) (Claim, bool) {
	id := board.PinID(p)
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.IndexFunc(r.claims, func(c Claim) bool { return c.ID == id }); i >= 0 {
		return r.claims[i], true
	}
	return Claim{}, false
}

// I2C returns the shared I²C bus, or nil if no driver claimed it yet.
func (r *Registry) I2C() *bus.I2C {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.i2c
}

// SPI returns the shared SPI port, or nil if no driver claimed it yet.
func (r *Registry) SPI() *bus.SPI {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spi
}

// Close closes the shared bus handles.
//
// Claims and bus handles are kept so drivers still holding them fail with
// errcode.Closed instead of touching released hardware. The registry cannot
// be used to claim pins afterward.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.i2c != nil {
		errs = append(errs, r.i2c.Close())
	}
	if r.spi != nil {
		errs = append(errs, r.spi.Close())
	}
	return errors.Join(errs...)
}

// shared returns true if c can reuse the pin held by o.
//
// Must be called with mu held.
func (r *Registry) shared(c, o *Claim) bool {
	switch c.Use {
	case board.I2C:
		return o.Use == board.I2C && r.i2c != nil
	case board.SPI:
		return o.Use == board.SPI && r.spi != nil
	}
	return false
}

// openBus creates the shared handle of kind if it doesn't exist yet.
//
// A board has one handle per bus type; a socket wired to another bus than
// the one already open fails with errcode.InvalidParams.
//
// Must be called with mu held.
func (r *Registry) openBus(s *board.Socket, kind board.BusKind) error {
	switch kind {
	case board.I2C:
		if r.i2c != nil {
			if s.I2CBus() != r.i2cName {
				return errcode.New(errcode.InvalidParams, "hardware", fmt.Sprintf("%s: I²C bus %q differs from the shared bus %q", s, s.I2CBus(), r.i2cName))
			}
			return nil
		}
		b, err := r.openI2C(s)
		if err != nil {
			return fmt.Errorf("hardware: %s: open I²C bus %q: %w", s, s.I2CBus(), err)
		}
		r.i2c, r.i2cName = bus.NewI2C(b), s.I2CBus()
	case board.SPI:
		if r.spi != nil {
			if s.SPIPort() != r.spiName {
				return errcode.New(errcode.InvalidParams, "hardware", fmt.Sprintf("%s: SPI port %q differs from the shared port %q", s, s.SPIPort(), r.spiName))
			}
			return nil
		}
		p, err := r.openSPI(s)
		if err != nil {
			return fmt.Errorf("hardware: %s: open SPI port %q: %w", s, s.SPIPort(), err)
		}
		r.spi, r.spiName = bus.NewSPI(p), s.SPIPort()
	}
	return nil
}

func openI2C(s *board.Socket) (i2c.Bus, error) {
	return i2creg.Open(s.I2CBus())
}

func openSPI(s *board.Socket) (spi.Port, error) {
	return spireg.Open(s.SPIPort())
}
