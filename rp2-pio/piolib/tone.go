//go:build rp2040

package piolib

import (
	"errors"
	"machine"
	"time"

	pio "github.com/jornada-elemental/jornada/rp2-pio"
)

var errToneBusy = errors.New("piolib: tone queue full")

// Tone is a square-wave generator for a passive buzzer.
type Tone struct {
	sm            pio.StateMachine
	offsetPlusOne uint8
}

// NewTone loads TonePrg and starts it on pin, silent until Play.
func NewTone(sm pio.StateMachine, pin machine.Pin) (*Tone, error) {
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	Pio := sm.PIO()

	offset, err := Pio.AddProgram(TonePrg)
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPinsConsecutive(pin, 1, false)
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.Init(offset, toneConfig(offset, uint8(pin)))
	sm.SetEnabled(true)
	return &Tone{sm: sm, offsetPlusOne: offset + 1}, nil
}

// Play queues freq Hz for d and returns without waiting for it to end.
// Frequencies the divider cannot reach are reported and not played.
func (t *Tone) Play(freq uint32, d time.Duration) error {
	t.mustValid()
	n := tonePulses(freq, d)
	if n == 0 {
		return nil
	}
	whole, frac, err := toneClkDiv(freq, machine.CPUFrequency())
	if err != nil {
		return err
	}
	if t.sm.IsTxFIFOFull() {
		return errToneBusy
	}
	t.sm.SetClkDiv(whole, frac)
	t.sm.TxPut(n - 1)
	return nil
}

// Stop cuts the current tone short and leaves the pin low.
func (t *Tone) Stop() {
	t.mustValid()
	// See StateMachine.Init for reference on this sequence of operations.
	t.sm.SetEnabled(false)
	t.sm.ClearFIFOs()
	t.sm.Restart()
	t.sm.ClkDivRestart()
	t.sm.Exec(pio.EncodeSet(pio.SrcDestPins, 0))
	t.sm.Exec(pio.EncodeJmp(t.offsetPlusOne-1, pio.JmpAlways))
	t.sm.SetEnabled(true)
}

func (t *Tone) mustValid() {
	if t.offsetPlusOne == 0 {
		panic("piolib: Tone not initialized")
	}
}
