package piolib

import (
	"testing"
	"time"

	pio "github.com/jornada-elemental/jornada/rp2-pio"
)

func TestTonePrg(t *testing.T) {
	// pioasm output for: pull block; out x, 32; set pins, 1 [31]; set pins, 0 [30]; jmp x-- 2
	want := []uint16{0x80a0, 0x6020, 0xff01, 0xfe00, 0x0042}
	got := TonePrg.Instructions
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instr %d: got %#04x, want %#04x", i, got[i], want[i])
		}
	}
	// Loaded above the WS2812 program the jump must follow it.
	if reloc := TonePrg.Relocated(4); reloc[4] != 0x0046 {
		t.Errorf("relocated jmp: got %#04x", reloc[4])
	}
}

func TestToneConfig(t *testing.T) {
	cfg := toneConfig(4, 10)
	want := pio.ProgramDefaultConfig(TonePrg, 4)
	want.SetSetPins(10, 1)
	want.SetFIFOJoin(pio.FifoJoinTx)
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestToneClkDiv(t *testing.T) {
	whole, frac, err := toneClkDiv(262, 125_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if whole != 7454 || frac != 172 {
		t.Errorf("C4: got %d+%d/256, want 7454+172/256", whole, frac)
	}
	if _, _, err := toneClkDiv(20, 125_000_000); err == nil {
		t.Error("20 Hz is below the slowest divider and must fail")
	}
	if _, _, err := toneClkDiv(0, 125_000_000); err == nil {
		t.Error("zero frequency must fail")
	}
}

func TestTonePulses(t *testing.T) {
	for _, tc := range []struct {
		freq uint32
		d    time.Duration
		want uint32
	}{
		{262, 500 * time.Millisecond, 131},
		{330, 500 * time.Millisecond, 165},
		{1000, time.Millisecond, 1},
		{1000, 999 * time.Microsecond, 0},
		{440, -time.Second, 0},
	} {
		if got := tonePulses(tc.freq, tc.d); got != tc.want {
			t.Errorf("tonePulses(%d, %v) = %d, want %d", tc.freq, tc.d, got, tc.want)
		}
	}
}
