package pio

// Register field positions from the RP2040 datasheet, section 3.7.
// They are spelled out here so configurations can be built and checked
// off-target.
const (
	clkdivFracPos = 8
	clkdivIntPos  = 16

	execctrlWrapBottomPos   = 7
	execctrlWrapTopPos      = 12
	execctrlOutStickyPos    = 17
	execctrlJmpPinPos       = 24
	execctrlSidePindirPos   = 29
	execctrlSideEnPos       = 30
	execctrlWrapMsk         = 0x1f<<execctrlWrapTopPos | 0x1f<<execctrlWrapBottomPos
	execctrlSideMsk         = 1<<execctrlSideEnPos | 1<<execctrlSidePindirPos
	execctrlJmpPinMsk       = 0x1f << execctrlJmpPinPos
	shiftctrlAutopushPos    = 16
	shiftctrlAutopullPos    = 17
	shiftctrlInShiftdirPos  = 18
	shiftctrlOutShiftdirPos = 19
	shiftctrlPushThreshPos  = 20
	shiftctrlPullThreshPos  = 25
	shiftctrlFjoinTxPos     = 30
	shiftctrlFjoinRxPos     = 31
	shiftctrlInMsk          = 1<<shiftctrlInShiftdirPos | 1<<shiftctrlAutopushPos | 0x1f<<shiftctrlPushThreshPos
	shiftctrlOutMsk         = 1<<shiftctrlOutShiftdirPos | 1<<shiftctrlAutopullPos | 0x1f<<shiftctrlPullThreshPos
	shiftctrlFjoinMsk       = 1<<shiftctrlFjoinTxPos | 1<<shiftctrlFjoinRxPos

	pinctrlOutBasePos      = 0
	pinctrlSetBasePos      = 5
	pinctrlSidesetBasePos  = 10
	pinctrlInBasePos       = 15
	pinctrlOutCountPos     = 20
	pinctrlSetCountPos     = 26
	pinctrlSidesetCountPos = 29
	pinctrlOutMsk          = 0x1f<<pinctrlOutBasePos | 0x3f<<pinctrlOutCountPos
	pinctrlSetMsk          = 0x1f<<pinctrlSetBasePos | 0x7<<pinctrlSetCountPos
)

// DefaultStateMachineConfig returns the default configuration
// for a PIO state machine, mirroring pio_get_default_sm_config in the C SDK.
func DefaultStateMachineConfig() StateMachineConfig {
	cfg := StateMachineConfig{}
	cfg.SetClkDivIntFrac(1, 0)
	cfg.SetWrap(0, 31)
	cfg.SetInShift(true, false, 32)
	cfg.SetOutShift(true, false, 32)
	return cfg
}

// ProgramDefaultConfig returns the default configuration with wrap and
// side-set taken from a program loaded at offset.
func ProgramDefaultConfig(p Program, offset uint8) StateMachineConfig {
	cfg := DefaultStateMachineConfig()
	cfg.SetWrap(offset+p.WrapTarget, offset+p.Wrap)
	if p.SidesetBits > 0 {
		bits := p.SidesetBits
		if p.SidesetOptional {
			bits++
		}
		cfg.SetSidesetParams(bits, p.SidesetOptional, false)
	}
	return cfg
}

// StateMachineConfig holds the raw register values of a state machine.
type StateMachineConfig struct {
	// Clock divisor register for state machine N
	//  Frequency = clock freq / (CLKDIV_INT + CLKDIV_FRAC / 256)
	ClkDiv uint32
	// Execution/behavioural settings for state machine N
	ExecCtrl uint32
	// Control behaviour of the input/output shift registers for state machine N.
	ShiftCtrl uint32
	// State machine pin control.
	PinCtrl uint32
}

// SetClkDivIntFrac sets the clock divider from a whole and fractional part.
//
//	Frequency = clock freq / (CLKDIV_INT + CLKDIV_FRAC / 256)
func (cfg *StateMachineConfig) SetClkDivIntFrac(whole uint16, frac uint8) {
	cfg.ClkDiv = clkDiv(whole, frac)
}

func clkDiv(whole uint16, frac uint8) uint32 {
	return uint32(frac)<<clkdivFracPos | uint32(whole)<<clkdivIntPos
}

// SetWrap sets the absolute wrap target (bottom) and wrap (top) addresses.
func (cfg *StateMachineConfig) SetWrap(wrapTarget uint8, wrap uint8) {
	if wrapTarget >= programMemorySize || wrap >= programMemorySize {
		panic("pio:bad wrap")
	}
	cfg.ExecCtrl = cfg.ExecCtrl&^execctrlWrapMsk |
		uint32(wrapTarget)<<execctrlWrapBottomPos |
		uint32(wrap)<<execctrlWrapTopPos
}

// SetInShift sets the ISR shift direction, autopush and push threshold.
// A threshold of 32 is encoded as 0.
func (cfg *StateMachineConfig) SetInShift(shiftRight bool, autoPush bool, pushThreshold uint16) {
	cfg.ShiftCtrl = cfg.ShiftCtrl&^shiftctrlInMsk |
		boolToBit(shiftRight)<<shiftctrlInShiftdirPos |
		boolToBit(autoPush)<<shiftctrlAutopushPos |
		uint32(pushThreshold&0x1f)<<shiftctrlPushThreshPos
}

// SetOutShift sets the OSR shift direction, autopull and pull threshold.
// A threshold of 32 is encoded as 0.
func (cfg *StateMachineConfig) SetOutShift(shiftRight bool, autoPull bool, pullThreshold uint16) {
	cfg.ShiftCtrl = cfg.ShiftCtrl&^shiftctrlOutMsk |
		boolToBit(shiftRight)<<shiftctrlOutShiftdirPos |
		boolToBit(autoPull)<<shiftctrlAutopullPos |
		uint32(pullThreshold&0x1f)<<shiftctrlPullThreshPos
}

// SetSidesetParams sets the side-set parameters.
//   - bitCount is the number of delay bits used for side-set, including the enable bit (max 5).
//   - optional is true if the topmost side-set bit is an enable flag.
//   - pindirs is true if side-set drives pin directions rather than values.
func (cfg *StateMachineConfig) SetSidesetParams(bitCount uint8, optional bool, pindirs bool) {
	if bitCount > 5 {
		panic("SetSideSet: bitCount")
	}
	cfg.PinCtrl = cfg.PinCtrl&^(0x7<<pinctrlSidesetCountPos) | uint32(bitCount)<<pinctrlSidesetCountPos
	cfg.ExecCtrl = cfg.ExecCtrl&^execctrlSideMsk |
		boolToBit(optional)<<execctrlSideEnPos |
		boolToBit(pindirs)<<execctrlSidePindirPos
}

// SetSidesetPins sets the lowest-numbered pin affected by side-set.
func (cfg *StateMachineConfig) SetSidesetPins(firstPin uint8) {
	checkPinBaseAndCount(firstPin, 1)
	cfg.PinCtrl = cfg.PinCtrl&^(0x1f<<pinctrlSidesetBasePos) | uint32(firstPin)<<pinctrlSidesetBasePos
}

// SetOutPins sets the pins an OUT PINS instruction modifies.
func (cfg *StateMachineConfig) SetOutPins(base uint8, count uint8) {
	checkPinBaseAndCount(base, count)
	cfg.PinCtrl = cfg.PinCtrl&^pinctrlOutMsk |
		uint32(base)<<pinctrlOutBasePos |
		uint32(count)<<pinctrlOutCountPos
}

// SetSetPins sets the pins a SET PINS instruction modifies (count at most 5).
func (cfg *StateMachineConfig) SetSetPins(base uint8, count uint8) {
	checkPinBaseAndCount(base, count)
	if count > 5 {
		panic("pio:count too large")
	}
	cfg.PinCtrl = cfg.PinCtrl&^pinctrlSetMsk |
		uint32(base)<<pinctrlSetBasePos |
		uint32(count)<<pinctrlSetCountPos
}

// SetInPins sets the lowest-numbered pin read by IN PINS.
func (cfg *StateMachineConfig) SetInPins(base uint8) {
	checkPinBaseAndCount(base, 1)
	cfg.PinCtrl = cfg.PinCtrl&^(0x1f<<pinctrlInBasePos) | uint32(base)<<pinctrlInBasePos
}

// SetJmpPin sets the pin tested by JMP PIN.
func (cfg *StateMachineConfig) SetJmpPin(pin uint8) {
	checkPinBaseAndCount(pin, 1)
	cfg.ExecCtrl = cfg.ExecCtrl&^execctrlJmpPinMsk | uint32(pin)<<execctrlJmpPinPos
}

type FifoJoin uint8

const (
	// FifoJoinNone is the default FIFO joining configuration. The RX and TX FIFOs are separate and of length 4 each.
	FifoJoinNone FifoJoin = iota
	// FifoJoinTx joins the RX and TX FIFOs into a single TX FIFO of depth 8.
	FifoJoinTx
	// FifoJoinRx joins the RX and TX FIFOs into a single RX FIFO of depth 8.
	FifoJoinRx
)

// SetFIFOJoin sets up FIFO joining.
func (cfg *StateMachineConfig) SetFIFOJoin(join FifoJoin) {
	if join > FifoJoinRx {
		panic("SetFIFOJoin: join")
	}
	cfg.ShiftCtrl = cfg.ShiftCtrl&^shiftctrlFjoinMsk | uint32(join)<<shiftctrlFjoinTxPos
}

func checkPinBaseAndCount(base uint8, count uint8) {
	if base >= 32 {
		panic("pio:bad pin")
	} else if count > 32 {
		panic("pio:count too large")
	}
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
