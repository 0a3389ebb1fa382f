package piolib

import (
	"testing"

	pio "github.com/jornada-elemental/jornada/rp2-pio"
)

func TestWS2812Program(t *testing.T) {
	// pioasm output for the pico-examples ws2812 program.
	want := []uint16{0x6221, 0x1123, 0x1400, 0xa442}
	got := WS2812Program.Instructions
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instr %d: got %#04x, want %#04x", i, got[i], want[i])
		}
	}
	if WS2812Program.Origin != -1 {
		t.Errorf("program must be relocatable, origin %d", WS2812Program.Origin)
	}
	if WS2812CyclesPerBit != 10 {
		t.Errorf("cycles per bit: got %d, want 10", WS2812CyclesPerBit)
	}
}

func TestWS2812Config(t *testing.T) {
	const offset, pin = 28, 7
	cfg, err := ws2812Config(offset, pin, 125_000_000)
	if err != nil {
		t.Fatal(err)
	}
	want := pio.ProgramDefaultConfig(WS2812Program, offset)
	want.SetSidesetPins(pin)
	want.SetOutShift(false, true, 24)
	want.SetFIFOJoin(pio.FifoJoinTx)
	want.SetClkDivIntFrac(15, 160)
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
	if _, err := ws2812Config(offset, pin, 1_000_000); err == nil {
		t.Error("expected error when the CPU is slower than the state machine clock")
	}
}

func TestAlignWord(t *testing.T) {
	if got := alignWord(0xFF8000); got != 0xFF800000 {
		t.Errorf("got %#08x", got)
	}
}
