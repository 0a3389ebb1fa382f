package pio

// Major opcode bits of a PIO instruction.
const (
	_INSTR_BITS_JMP  = 0x0000
	_INSTR_BITS_WAIT = 0x2000
	_INSTR_BITS_IN   = 0x4000
	_INSTR_BITS_OUT  = 0x6000
	_INSTR_BITS_PUSH = 0x8000
	_INSTR_BITS_PULL = 0x8080
	_INSTR_BITS_MOV  = 0xa000
	_INSTR_BITS_IRQ  = 0xc000
	_INSTR_BITS_SET  = 0xe000

	// Bit mask for instruction code
	_INSTR_BITS_Msk = 0xe000
)

// SrcDest is the source or destination operand of IN, OUT, MOV and SET.
// The same 3-bit field means different things per instruction, hence the aliases.
type SrcDest uint8

const (
	SrcDestPins    SrcDest = 0
	SrcDestX       SrcDest = 1
	SrcDestY       SrcDest = 2
	SrcDestNull    SrcDest = 3
	SrcDestPinDirs SrcDest = 4
	SrcDestExecMov SrcDest = 4
	SrcDestStatus  SrcDest = 5
	SrcDestPC      SrcDest = 5
	SrcDestISR     SrcDest = 6
	SrcDestOSR     SrcDest = 7
	SrcExecOut     SrcDest = 7
)

type JmpCond uint8

const (
	// No condition, always jumps.
	JmpAlways JmpCond = iota
	// Jump if X is zero.
	JmpXZero
	// Jump if X is not zero, prior to decrement of X.
	JmpXNZeroDec
	// Jump if Y is zero.
	JmpYZero
	// Jump if Y is not zero, prior to decrement of Y.
	JmpYNZeroDec
	// Jump if X is not equal to Y.
	JmpXNotEqualY
	// Jump if EXECCTRL_JMP_PIN (state machine configured) is high.
	JmpPinInput
	// Jump if the OSR has not reached the pull threshold.
	JmpOSRNotEmpty
)

// Assembler builds PIO instructions for programs that share one side-set
// configuration. SidesetBits counts the value bits only; when SidesetOptional
// is set one more bit of the delay/side-set field is spent on the enable flag.
type Assembler struct {
	SidesetBits     uint8
	SidesetOptional bool
}

// Instruction is an instruction under construction. Side and Delay return
// modified copies so calls chain the way pioasm source reads.
type Instruction struct {
	asm   Assembler
	bits  uint16
	side  uint8
	delay uint8
	// hasSide is true once Side was called.
	hasSide bool
}

func (asm Assembler) instr(bits uint16) Instruction {
	return Instruction{asm: asm, bits: bits}
}

func (asm Assembler) fieldBits() uint8 {
	n := asm.SidesetBits
	if asm.SidesetOptional {
		n++
	}
	return n
}

// MaxDelay returns the largest delay the assembler can encode.
func (asm Assembler) MaxDelay() uint8 {
	return 1<<(5-asm.fieldBits()) - 1
}

// Jmp jumps to addr when cond holds. addr is relative to the program start;
// it is patched when the program is loaded.
func (asm Assembler) Jmp(addr uint8, cond JmpCond) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_JMP, uint8(cond&0b111), addr))
}

// Out shifts bitCount bits from the OSR to dest. A bitCount of 32 is encoded as 0.
func (asm Assembler) Out(dest SrcDest, bitCount uint8) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_OUT, uint8(dest)&7, bitCount))
}

// In shifts bitCount bits from src into the ISR.
func (asm Assembler) In(src SrcDest, bitCount uint8) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_IN, uint8(src)&7, bitCount))
}

// Set writes the 5-bit immediate value to dest.
func (asm Assembler) Set(dest SrcDest, value uint8) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_SET, uint8(dest)&7, value))
}

// Mov copies src into dest.
func (asm Assembler) Mov(dest, src SrcDest) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_MOV, uint8(dest)&7, uint8(src)&7))
}

// Pull loads the OSR from the TX FIFO.
func (asm Assembler) Pull(ifEmpty, block bool) Instruction {
	return asm.instr(encodeInstrAndArgs(_INSTR_BITS_PULL, boolAsU8(ifEmpty)<<1|boolAsU8(block), 0))
}

// Nop is encoded as mov y, y.
func (asm Assembler) Nop() Instruction {
	return asm.Mov(SrcDestY, SrcDestY)
}

// Side sets the side-set value driven while the instruction executes.
func (in Instruction) Side(value uint8) Instruction {
	in.side = value
	in.hasSide = true
	return in
}

// Delay adds idle cycles after the instruction. It panics when the delay does
// not fit next to the side-set bits, which is a programming error.
func (in Instruction) Delay(cycles uint8) Instruction {
	if cycles > in.asm.MaxDelay() {
		panic("pio: delay too large for side-set configuration")
	}
	in.delay = cycles
	return in
}

// Encode returns the 16-bit machine word.
func (in Instruction) Encode() uint16 {
	asm := in.asm
	field := uint16(in.delay)
	if asm.SidesetBits > 0 && (in.hasSide || !asm.SidesetOptional) {
		total := asm.fieldBits()
		field |= uint16(in.side&(1<<asm.SidesetBits-1)) << (5 - total)
		if asm.SidesetOptional {
			field |= 1 << 4
		}
	}
	return in.bits | (field&0x1f)<<8
}

func encodeInstrAndArgs(instr uint16, arg1 uint8, arg2 uint8) uint16 {
	return instr | (uint16(arg1) << 5) | uint16(arg2&0x1f)
}

// EncodeJmp encodes an unconditional or conditional jump with no side-set or delay,
// suitable for StateMachine.Exec.
func EncodeJmp(addr uint8, cond JmpCond) uint16 {
	return Assembler{}.Jmp(addr, cond).Encode()
}

// EncodeSet encodes a SET with no side-set or delay.
func EncodeSet(dest SrcDest, value uint8) uint16 {
	return Assembler{}.Set(dest, value).Encode()
}

func isJmp(instr uint16) bool {
	return instr&_INSTR_BITS_Msk == _INSTR_BITS_JMP
}

func boolAsU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
