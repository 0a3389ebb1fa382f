// Package matrix renders 5x5 brightness glyphs on a chain of WS2812-family
// LEDs. A Driver turns a Glyph and a Color into one 24-bit word per cell and
// queues the words on a serial state machine that produces the bit timing.
//
// The package does not touch hardware itself: a Peripheral hands out the
// Transmitter a Driver writes to, so the same driver runs against a PIO state
// machine on the RP2040, an SPI strip on a host or a recorder in tests.
package matrix

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrResourceUnavailable is returned by Init when no transmitter can be claimed.
	ErrResourceUnavailable = errors.New("matrix: no state machine available")
	// ErrContractViolation reports a caller error: a glyph that is not 25 cells
	// long, a render before Init or a second Init.
	ErrContractViolation = errors.New("matrix: contract violation")
)

// Transmitter is a serial output queue, such as a PIO state machine TX FIFO.
// TxPut takes a 24-bit word; the transmitter aligns it for its shift register.
type Transmitter interface {
	IsTxFIFOFull() bool
	TxPut(word uint32)
}

// Peripheral claims a transmitter bound to an output pin, loading whatever
// bit-timing program the hardware needs.
type Peripheral interface {
	Claim(pin uint8) (Transmitter, error)
}

// State is the driver lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Driver holds the state of one LED matrix. The zero value is an
// uninitialized driver; call Init before Render. A Driver is not safe for
// concurrent use.
type Driver struct {
	tx    Transmitter
	ready bool
	order ChannelOrder
	color Color
	// index is the cell being transmitted during Render.
	index int
	buf   [Cells]uint32
}

// Option configures a Driver.
type Option func(*Driver)

// WithOrder sets the channel order of the LED part. The default is OrderGRB.
func WithOrder(order ChannelOrder) Option {
	return func(d *Driver) { d.order = order }
}

// New returns a driver initialized on pin.
func New(p Peripheral, pin uint8, opts ...Option) (*Driver, error) {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Init(p, pin); err != nil {
		return nil, err
	}
	return d, nil
}

// Init claims a transmitter on pin and moves the driver to Ready. On failure
// the driver stays uninitialized and the error wraps ErrResourceUnavailable.
func (d *Driver) Init(p Peripheral, pin uint8) error {
	if d.ready {
		return fmt.Errorf("%w: driver already initialized", ErrContractViolation)
	}
	if p == nil {
		return fmt.Errorf("%w: nil peripheral", ErrResourceUnavailable)
	}
	tx, err := p.Claim(pin)
	if err != nil {
		return fmt.Errorf("%w: pin %d: %v", ErrResourceUnavailable, pin, err)
	}
	if tx == nil {
		return fmt.Errorf("%w: pin %d: no transmitter", ErrResourceUnavailable, pin)
	}
	d.tx = tx
	d.ready = true
	return nil
}

// State returns the lifecycle state.
func (d *Driver) State() State {
	if d.ready {
		return Ready
	}
	return Uninitialized
}

// Order returns the configured channel order.
func (d *Driver) Order() ChannelOrder { return d.order }

// Color returns the colour of the last render.
func (d *Driver) Color() Color { return d.color }

// Render queues one word per cell of g, in row-major order, with each cell's
// intensity scaling c. It blocks while the transmit queue is full and returns
// once the last word is queued, not once the LEDs have latched it.
func (d *Driver) Render(g Glyph, c Color) error {
	if !d.ready {
		return fmt.Errorf("%w: render before init", ErrContractViolation)
	}
	words, err := Encode(g, c, d.order, d.buf[:0])
	if err != nil {
		return err
	}
	d.color = c
	for d.index = 0; d.index < len(words); d.index++ {
		for d.tx.IsTxFIFOFull() {
			gosched()
		}
		d.tx.TxPut(words[d.index])
	}
	d.index = 0
	return nil
}

// Encode appends the 25 words for g and c to dst and returns the result.
// It fails with ErrContractViolation if g does not hold exactly 25 cells.
func Encode(g Glyph, c Color, order ChannelOrder, dst []uint32) ([]uint32, error) {
	if len(g) != Cells {
		return dst, fmt.Errorf("%w: glyph has %d cells, want %d", ErrContractViolation, len(g), Cells)
	}
	for _, v := range g {
		dst = append(dst, Pack(order, Level(c.R, v), Level(c.G, v), Level(c.B, v)))
	}
	return dst, nil
}

func gosched() {
	runtime.Gosched()
}
