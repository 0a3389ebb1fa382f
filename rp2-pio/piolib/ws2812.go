//go:build rp2040

package piolib

import (
	"machine"

	"github.com/jornada-elemental/jornada/matrix"
	pio "github.com/jornada-elemental/jornada/rp2-pio"
)

// WS2812 is a chain of WS2812 LEDs driven by a PIO state machine.
type WS2812 struct {
	sm            pio.StateMachine
	offsetPlusOne uint8
}

// NewWS2812 loads WS2812Program into the state machine's PIO block and starts
// the state machine on pin.
func NewWS2812(sm pio.StateMachine, pin machine.Pin) (*WS2812, error) {
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	Pio := sm.PIO()
	offset, err := Pio.AddProgram(WS2812Program)
	if err != nil {
		return nil, err
	}
	cfg, err := ws2812Config(offset, uint8(pin), machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.Init(offset, cfg)
	sm.SetEnabled(true)
	return &WS2812{sm: sm, offsetPlusOne: offset + 1}, nil
}

// IsTxFIFOFull reports whether the next TxPut would be dropped.
func (ws *WS2812) IsTxFIFOFull() bool {
	ws.mustValid()
	return ws.sm.IsTxFIFOFull()
}

// TxPut queues a 24-bit colour word. It does not check for fullness.
func (ws *WS2812) TxPut(word uint32) {
	ws.mustValid()
	ws.sm.TxPut(alignWord(word))
}

// PutRGB blocks until the colour of the next LED in the chain is queued.
func (ws *WS2812) PutRGB(r, g, b uint8) {
	for ws.IsTxFIFOFull() {
		gosched()
	}
	ws.TxPut(matrix.Pack(matrix.OrderGRB, r, g, b))
}

func (ws *WS2812) mustValid() {
	if ws.offsetPlusOne == 0 {
		panic(errNotInitialized.Error())
	}
}

// Matrix claims WS2812 transmitters from a PIO block. It implements
// matrix.Peripheral.
type Matrix struct {
	PIO *pio.PIO
}

// Claim takes the first free state machine of m.PIO and runs WS2812Program on pin.
func (m Matrix) Claim(pin uint8) (matrix.Transmitter, error) {
	Pio := m.PIO
	if Pio == nil {
		Pio = pio.PIO0
	}
	sm, err := Pio.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	ws, err := NewWS2812(sm, machine.Pin(pin))
	if err != nil {
		sm.Unclaim()
		return nil, err
	}
	return ws, nil
}
