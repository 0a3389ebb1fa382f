//go:build rp2040

package pio

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// RP2040 PIO peripheral handles.
var (
	PIO0 = &PIO{
		hw: rp.PIO0,
	}
	PIO1 = &PIO{
		hw: rp.PIO1,
	}
)

// ErrNoFreeStateMachine is returned when all four state machines of a block are claimed.
var ErrNoFreeStateMachine = errors.New("pio: no free state machine")

const (
	badStateMachineIndex = "invalid state machine index"
	badPIO               = "invalid PIO"
)

// PIO represents one of the two PIO peripherals in the RP2040
type PIO struct {
	// hw points to the PIO hardware registers.
	hw *rp.PIO0_Type
	// Bitmask of used instruction space. Each PIO has 32 slots for instructions.
	usedSpaceMask uint32
	// Bitmask of used state machines. Each PIO has 4 state machines.
	claimedSMMask uint8
}

// BlockIndex returns 0 or 1 depending on whether the underlying device is PIO0 or PIO1.
func (pio *PIO) BlockIndex() uint8 {
	switch pio.hw {
	case rp.PIO0:
		return 0
	case rp.PIO1:
		return 1
	}
	panic(badPIO)
}

// StateMachine returns a state machine by index.
func (pio *PIO) StateMachine(index uint8) StateMachine {
	if index > 3 {
		panic(badStateMachineIndex)
	}
	return StateMachine{
		pio:   pio,
		index: index,
	}
}

// ClaimStateMachine returns an unused state machine
// or ErrNoFreeStateMachine if all state machines on this PIO are claimed.
func (pio *PIO) ClaimStateMachine() (sm StateMachine, err error) {
	for i := uint8(0); i < 4; i++ {
		sm = pio.StateMachine(i)
		if sm.TryClaim() {
			return sm, nil
		}
	}
	return StateMachine{}, ErrNoFreeStateMachine
}

// AddProgram loads a program into PIO instruction memory and returns the
// offset where it was loaded. Jump targets are patched for the offset.
func (pio *PIO) AddProgram(p Program) (offset uint8, _ error) {
	offset, err := p.findOffset(pio.usedSpaceMask)
	if err != nil {
		return 0, err
	}
	for i, instr := range p.Relocated(offset) {
		pio.writeInstructionMemory(offset+uint8(i), instr)
	}
	pio.usedSpaceMask |= p.mask() << offset
	return offset, nil
}

func (pio *PIO) writeInstructionMemory(offset uint8, value uint16) {
	// Instruction memory registers are 32-bit with only the lower 16 used;
	// address them from INSTR_MEM0 rather than naming each one.
	start := unsafe.Pointer(&pio.hw.INSTR_MEM0)
	reg := (*volatile.Register32)(unsafe.Pointer(uintptr(start) + uintptr(offset)*4))
	reg.Set(uint32(value))
}

// PinMode returns the pin mode that hands a GPIO to this PIO block.
func (pio *PIO) PinMode() machine.PinMode {
	return machine.PinPIO0 + machine.PinMode(pio.BlockIndex())
}

type statemachineHW struct {
	CLKDIV    volatile.Register32 // 0xC8 for SM0
	EXECCTRL  volatile.Register32 // 0xCC for SM0
	SHIFTCTRL volatile.Register32 // 0xD0 for SM0
	ADDR      volatile.Register32 // 0xD4 for SM0
	INSTR     volatile.Register32 // 0xD8 for SM0
	PINCTRL   volatile.Register32 // 0xDC for SM0
}

func (pio *PIO) smHW(index uint8) *statemachineHW {
	if index > 3 {
		panic(badStateMachineIndex)
	}
	// 24 bytes (6 registers) per state machine
	const size = unsafe.Sizeof(statemachineHW{})
	ptr := uintptr(unsafe.Pointer(&pio.hw.SM0_CLKDIV)) + uintptr(index)*size
	return (*statemachineHW)(unsafe.Pointer(ptr))
}
