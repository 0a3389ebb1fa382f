package piolib

import pio "github.com/jornada-elemental/jornada/rp2-pio"

// WS2812 bit timing in state machine cycles: a bit starts with T1 cycles high,
// then holds high for T2 more cycles for a 1 or drops for a 0, and ends with
// T3 cycles low.
const (
	ws2812T1 = 2
	ws2812T2 = 5
	ws2812T3 = 3

	// WS2812CyclesPerBit is the length of one bit in state machine cycles.
	WS2812CyclesPerBit = ws2812T1 + ws2812T2 + ws2812T3
	// WS2812Frequency is the bit rate of the LED data line in Hz.
	WS2812Frequency = 800_000
	// ws2812BitsPerWord is the OSR autopull threshold: one word per LED.
	ws2812BitsPerWord = 24
)

// WS2812Program shifts one bit per loop out of the OSR and drives the data
// pin through side-set. It is relocatable.
var WS2812Program = assembleWS2812()

func assembleWS2812() pio.Program {
	asm := pio.Assembler{SidesetBits: 1}
	const (
		bitloop = 0
		doZero  = 3
	)
	return pio.Program{
		Instructions: []uint16{
			// .wrap_target
			bitloop: asm.Out(pio.SrcDestX, 1).Side(0).Delay(ws2812T3 - 1).Encode(),
			asm.Jmp(doZero, pio.JmpXZero).Side(1).Delay(ws2812T1 - 1).Encode(),
			asm.Jmp(bitloop, pio.JmpAlways).Side(1).Delay(ws2812T2 - 1).Encode(),
			doZero: asm.Nop().Side(0).Delay(ws2812T2 - 1).Encode(),
			// .wrap
		},
		Origin:      -1,
		WrapTarget:  0,
		Wrap:        3,
		SidesetBits: 1,
	}
}

// ws2812Config returns the state machine configuration for WS2812Program
// loaded at offset and driving pin, clocked from cpuFreq.
func ws2812Config(offset, pin uint8, cpuFreq uint32) (pio.StateMachineConfig, error) {
	whole, frac, err := pio.ClkDivFromFrequency(WS2812Frequency*WS2812CyclesPerBit, cpuFreq)
	if err != nil {
		return pio.StateMachineConfig{}, err
	}
	cfg := pio.ProgramDefaultConfig(WS2812Program, offset)
	cfg.SetSidesetPins(pin)
	// MSB first, refilled from the FIFO every 24 bits.
	cfg.SetOutShift(false, true, ws2812BitsPerWord)
	// We only use Tx FIFO, so we set the join to Tx.
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	cfg.SetClkDivIntFrac(whole, frac)
	return cfg, nil
}

// alignWord moves a 24-bit colour word to the top of the 32-bit FIFO entry,
// where a left-shifting OSR starts.
func alignWord(word uint32) uint32 {
	return word << (32 - ws2812BitsPerWord)
}
