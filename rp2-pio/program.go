package pio

import (
	"errors"
	"math"
)

// Program memory holds 32 instructions per PIO block.
const programMemorySize = 32

var (
	ErrOutOfProgramSpace = errors.New("pio: out of program space")
	ErrNoSpaceAtOffset   = errors.New("pio: program space unavailable at offset")
	errEmptyProgram      = errors.New("pio: empty program")
)

// Program is an assembled PIO program together with the metadata pioasm
// would emit for it.
type Program struct {
	Instructions []uint16
	// Origin is the fixed load offset, or -1 if the program is relocatable.
	Origin int8
	// WrapTarget and Wrap are relative to the program start.
	WrapTarget uint8
	Wrap       uint8
	// Side-set configuration the program was assembled with.
	SidesetBits     uint8
	SidesetOptional bool
}

// Len returns the number of instructions.
func (p Program) Len() int { return len(p.Instructions) }

// Relocated returns the instructions as loaded at offset, with jump targets patched.
func (p Program) Relocated(offset uint8) []uint16 {
	out := make([]uint16, len(p.Instructions))
	for i, instr := range p.Instructions {
		if isJmp(instr) {
			// Address lives in the low 5 bits; wrap inside program memory.
			addr := (instr + uint16(offset)) & 0x1f
			instr = instr&^0x1f | addr
		}
		out[i] = instr
	}
	return out
}

func (p Program) mask() uint32 {
	return uint32(1)<<uint(len(p.Instructions)) - 1
}

// findOffset returns where p fits given the used program memory mask.
// Relocatable programs are placed as high as possible, like the pico-sdk does.
func (p Program) findOffset(used uint32) (uint8, error) {
	n := len(p.Instructions)
	if n == 0 {
		return 0, errEmptyProgram
	}
	if n > programMemorySize {
		return 0, ErrOutOfProgramSpace
	}
	mask := p.mask()
	if p.Origin >= 0 {
		if int(p.Origin) > programMemorySize-n || used&(mask<<uint(p.Origin)) != 0 {
			return 0, ErrNoSpaceAtOffset
		}
		return uint8(p.Origin), nil
	}
	for i := programMemorySize - n; i >= 0; i-- {
		if used&(mask<<uint(i)) == 0 {
			return uint8(i), nil
		}
	}
	return 0, ErrOutOfProgramSpace
}

// ClkDivFromPeriod calculates the CLKDIV register values
// to reach a given StateMachine cycle period given the CPU frequency.
// period is expected to be in nanoseconds. cpuFreq is expected to be in Hz.
//
// Prefer using ClkDivFromFrequency if possible for speed and accuracy.
func ClkDivFromPeriod(period, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	//  256*whole + frac = 256*clockfreq*period/1e9
	return splitClkdiv(256 * uint64(period) * uint64(cpuFreq) / uint64(1e9))
}

// ClkDivFromFrequency calculates the CLKDIV register values
// to reach a given StateMachine cycle frequency. freq and cpuFreq are expected to be in Hz.
func ClkDivFromFrequency(freq, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	if freq == 0 {
		return 0, 0, errors.New("ClkDiv: zero frequency")
	}
	//  256*whole + frac = 256*clockfreq / freq
	return splitClkdiv(256 * uint64(cpuFreq) / uint64(freq))
}

func splitClkdiv(clkdiv uint64) (whole uint16, frac uint8, err error) {
	if clkdiv > 256*math.MaxUint16 {
		return 0, 0, errors.New("ClkDiv: too large period or CPU frequency")
	} else if clkdiv < 256 {
		return 0, 0, errors.New("ClkDiv: too small period or CPU frequency")
	}
	whole = uint16(clkdiv / 256)
	frac = uint8(clkdiv % 256)
	return whole, frac, nil
}
