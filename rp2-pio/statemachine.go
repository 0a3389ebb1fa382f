//go:build rp2040

package pio

import (
	"machine"
	"runtime/volatile"
	"unsafe"
)

// Per-state-machine bit groups of the shared CTRL, FSTAT and FDEBUG registers.
// Bit n of each group belongs to state machine n.
const (
	ctrlSMEnablePos     = 0
	ctrlSMRestartPos    = 4
	ctrlClkdivRestart   = 8
	fstatTxFullPos      = 16
	fstatTxEmptyPos     = 24
	fdebugRxStallPos    = 0
	fdebugRxUnderPos    = 8
	fdebugTxOverPos     = 16
	fdebugTxStallPos    = 24
	regAliasXOR         = 0x1 << 12
	fdebugStickyFlagsSM = 1<<fdebugRxStallPos | 1<<fdebugRxUnderPos | 1<<fdebugTxOverPos | 1<<fdebugTxStallPos
)

// StateMachine represents one of the four state machines in a PIO
type StateMachine struct {
	// The pio containing this state machine
	pio *PIO

	// index of this state machine
	index uint8
}

// IsClaimed returns true if the state machine is claimed by other code and should not be used.
func (sm StateMachine) IsClaimed() bool { return sm.pio.claimedSMMask&(1<<sm.index) != 0 }

// Unclaim releases the state machine for use by other code.
func (sm StateMachine) Unclaim() { sm.pio.claimedSMMask &^= 1 << sm.index }

// TryClaim attempts to claim the state machine for use by the caller and returns
// true if successful, or false if StateMachine already claimed. Regardless of result
// the state machine is guaranteed to be claimed after the call ends.
func (sm StateMachine) TryClaim() bool {
	if sm.IsClaimed() {
		return false
	}
	sm.pio.claimedSMMask |= 1 << sm.index
	return true
}

// HW returns a pointer to the configuration hardware registers for this state machine.
func (sm StateMachine) HW() *statemachineHW { return sm.pio.smHW(sm.index) }

// PIO returns the PIO that this state machine is part of.
func (sm StateMachine) PIO() *PIO {
	sm.pio.BlockIndex() // Panic if PIO or state machine not at valid offset.
	return sm.pio
}

// StateMachineIndex returns the index of the state machine within the PIO.
func (sm StateMachine) StateMachineIndex() uint8 { return sm.index }

// Init halts the state machine, applies cfg, clears its FIFOs and sticky
// debug flags and points it at initialPC. The state machine stays disabled.
func (sm StateMachine) Init(initialPC uint8, cfg StateMachineConfig) {
	sm.SetEnabled(false)
	if cfg == (StateMachineConfig{}) {
		cfg = DefaultStateMachineConfig()
	}
	sm.SetConfig(cfg)
	sm.ClearFIFOs()
	sm.pio.hw.FDEBUG.Set(fdebugStickyFlagsSM << sm.index)
	sm.Restart()
	sm.ClkDivRestart()
	sm.Exec(EncodeJmp(initialPC, JmpAlways))
}

// SetEnabled controls whether the state machine is running.
func (sm StateMachine) SetEnabled(enabled bool) {
	sm.pio.hw.CTRL.ReplaceBits(boolToBit(enabled), 0x1, ctrlSMEnablePos+sm.index)
}

// IsEnabled returns true if the state machine is running.
func (sm StateMachine) IsEnabled() bool {
	return sm.pio.hw.CTRL.HasBits(1 << (ctrlSMEnablePos + sm.index))
}

// Restart clears internal state such as shift counters.
func (sm StateMachine) Restart() {
	sm.pio.hw.CTRL.SetBits(1 << (ctrlSMRestartPos + sm.index))
}

// ClkDivRestart forces the clock divider to restart its count.
func (sm StateMachine) ClkDivRestart() {
	sm.pio.hw.CTRL.SetBits(1 << (ctrlClkdivRestart + sm.index))
}

// SetConfig writes all four configuration registers.
func (sm StateMachine) SetConfig(cfg StateMachineConfig) {
	hw := sm.HW()
	hw.CLKDIV.Set(cfg.ClkDiv)
	hw.EXECCTRL.Set(cfg.ExecCtrl)
	hw.SHIFTCTRL.Set(cfg.ShiftCtrl)
	hw.PINCTRL.Set(cfg.PinCtrl)
}

// SetClkDiv sets the clock divider for the state machine from a whole and fractional part where:
//
//	Frequency = clock freq / (CLKDIV_INT + CLKDIV_FRAC / 256)
func (sm StateMachine) SetClkDiv(whole uint16, frac uint8) {
	sm.HW().CLKDIV.Set(clkDiv(whole, frac))
}

// TxPut puts a value into the state machine's TX FIFO.
//
// This function does not check for fullness. If the FIFO is full the FIFO
// contents are not affected and the sticky TXOVER flag is set for this FIFO in FDEBUG.
func (sm StateMachine) TxPut(data uint32) {
	sm.TxReg().Set(data)
}

// TxReg gets a pointer to the TX FIFO register for this state machine.
func (sm StateMachine) TxReg() *volatile.Register32 {
	start := uintptr(unsafe.Pointer(&sm.pio.hw.TXF0)) // 0x10
	return (*volatile.Register32)(unsafe.Pointer(start + uintptr(sm.index)*4))
}

// IsTxFIFOFull returns true if state machine's TX FIFO is full.
func (sm StateMachine) IsTxFIFOFull() bool {
	return sm.pio.hw.FSTAT.HasBits(1 << (fstatTxFullPos + sm.index))
}

// IsTxFIFOEmpty returns true if state machine's TX FIFO is empty.
func (sm StateMachine) IsTxFIFOEmpty() bool {
	return sm.pio.hw.FSTAT.HasBits(1 << (fstatTxEmptyPos + sm.index))
}

// ClearFIFOs clears the TX and RX FIFOs of a state machine.
func (sm StateMachine) ClearFIFOs() {
	// FIFOs are flushed when FJOIN_RX changes. Toggling twice leaves it as it was.
	shiftctrl := &sm.HW().SHIFTCTRL
	aliasReg(regAliasXOR, shiftctrl).Set(1 << shiftctrlFjoinRxPos)
	aliasReg(regAliasXOR, shiftctrl).Set(1 << shiftctrlFjoinRxPos)
}

// Exec immediately executes an instruction on the state machine.
func (sm StateMachine) Exec(instr uint16) {
	sm.HW().INSTR.Set(uint32(instr))
}

// SetPindirsConsecutive sets a range of pins to either 'in' or 'out'. This must be done
// for all used pins before the state machine is started, including SET, IN, OUT and SIDESET pins.
func (sm StateMachine) SetPindirsConsecutive(pin machine.Pin, count uint8, isOut bool) {
	checkPinBaseAndCount(uint8(pin), count)
	sm.setPinExec(SrcDestPinDirs, uint8(pin), count, uint8(boolToBit(isOut)))
}

// SetPinsConsecutive sets the initial level of a range of pins.
func (sm StateMachine) SetPinsConsecutive(pin machine.Pin, count uint8, level bool) {
	checkPinBaseAndCount(uint8(pin), count)
	sm.setPinExec(SrcDestPins, uint8(pin), count, uint8(boolToBit(level)))
}

// setPinExec executes one SET per pin with the SET window moved over it,
// then restores PINCTRL and EXECCTRL.
func (sm StateMachine) setPinExec(dest SrcDest, base, count, value uint8) {
	hw := sm.HW()
	pinctrlSaved := hw.PINCTRL.Get()
	execctrlSaved := hw.EXECCTRL.Get()
	hw.EXECCTRL.ClearBits(1 << execctrlOutStickyPos)
	for pin := base; pin < base+count; pin++ {
		hw.PINCTRL.Set(1<<pinctrlSetCountPos | uint32(pin)<<pinctrlSetBasePos)
		sm.Exec(EncodeSet(dest, value))
	}
	hw.PINCTRL.Set(pinctrlSaved)
	hw.EXECCTRL.Set(execctrlSaved)
}

// aliasReg returns the atomic alias of a peripheral register (RP2040 datasheet 2.1.2):
//   - Addr + 0x1000 : atomic XOR on write
//   - Addr + 0x2000 : atomic bitmask set on write
//   - Addr + 0x3000 : atomic bitmask clear on write
func aliasReg(alias uintptr, reg *volatile.Register32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(unsafe.Pointer(reg)) | alias))
}
