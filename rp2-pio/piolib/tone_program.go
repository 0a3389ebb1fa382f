package piolib

import (
	"time"

	pio "github.com/jornada-elemental/jornada/rp2-pio"
)

// toneCyclesPerPeriod is the length of one square-wave period of TonePrg:
// 32 cycles high, 31 low plus the loop jump.
const toneCyclesPerPeriod = 64

// TonePrg pulls a pulse count n-1 from the TX FIFO and plays n square-wave
// periods on its SET pin, then waits for the next count with the pin low.
var TonePrg = assembleTone()

func assembleTone() pio.Program {
	var asm pio.Assembler
	const pulse = 2
	return pio.Program{
		Instructions: []uint16{
			// .wrap_target
			asm.Pull(false, true).Encode(),
			asm.Out(pio.SrcDestX, 32).Encode(),
			pulse: asm.Set(pio.SrcDestPins, 1).Delay(31).Encode(),
			asm.Set(pio.SrcDestPins, 0).Delay(30).Encode(),
			asm.Jmp(pulse, pio.JmpXNZeroDec).Encode(),
			// .wrap
		},
		Origin:     -1,
		WrapTarget: 0,
		Wrap:       4,
	}
}

func toneConfig(offset, pin uint8) pio.StateMachineConfig {
	cfg := pio.ProgramDefaultConfig(TonePrg, offset)
	cfg.SetSetPins(pin, 1)
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	return cfg
}

// toneClkDiv returns the divider that makes TonePrg play freq Hz.
func toneClkDiv(freq, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	return pio.ClkDivFromFrequency(freq*toneCyclesPerPeriod, cpuFreq)
}

// tonePulses is the number of periods of freq Hz that fit in d.
func tonePulses(freq uint32, d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(uint64(freq) * uint64(d) / uint64(time.Second))
}
