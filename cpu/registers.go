package cpu

// Registers holds the SM83 register file: seven general 8-bit registers,
// the flag register F, and the two 16-bit registers PC and SP. Pairs
// AF/BC/DE/HL are addressable as 16-bit quantities with big-endian byte
// order (high register in the upper byte).
//
// https://gbdev.io/pandocs/CPU_Registers_and_Flags.html
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16
}

// Flag bit positions within F. The lower nibble is always zero on read;
// writes to F silently clear it (enforced by SetF).
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (r *Registers) Zero() bool      { return r.F&flagZ != 0 }
func (r *Registers) Subtract() bool  { return r.F&flagN != 0 }
func (r *Registers) HalfCarry() bool { return r.F&flagH != 0 }
func (r *Registers) Carry() bool     { return r.F&flagC != 0 }

func (r *Registers) SetZero(v bool)      { r.setFlag(flagZ, v) }
func (r *Registers) SetSubtract(v bool)  { r.setFlag(flagN, v) }
func (r *Registers) SetHalfCarry(v bool) { r.setFlag(flagH, v) }
func (r *Registers) SetCarry(v bool)     { r.setFlag(flagC, v) }

func (r *Registers) setFlag(mask byte, v bool) {
	if v {
		r.F |= mask
	} else {
		r.F &^= mask
	}
	r.F &= 0xf0
}

// SetF overwrites F wholesale, masking the always-zero lower nibble. Used
// by SetAF, which is the POP AF path.
func (r *Registers) SetF(v byte) { r.F = v & 0xf0 }

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.SetF(byte(v))
}
func (r *Registers) SetBC(v uint16) {
	r.B = byte(v >> 8)
	r.C = byte(v)
}
func (r *Registers) SetDE(v uint16) {
	r.D = byte(v >> 8)
	r.E = byte(v)
}
func (r *Registers) SetHL(v uint16) {
	r.H = byte(v >> 8)
	r.L = byte(v)
}

// R8 identifies one of the seven general registers or the (HL) memory
// operand, numbered the way the hardware encodes them in bits 0-2 and
// 3-5 of an opcode byte: B,C,D,E,H,L,(HL),A.
type R8 int

const (
	RegB R8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLInd
	RegA
)

func (r R8) String() string {
	switch r {
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegHLInd:
		return "(HL)"
	case RegA:
		return "A"
	default:
		return "?"
	}
}

// r8Order is the hardware bit encoding for the eight R8 operands.
var r8Order = [8]R8{RegB, RegC, RegD, RegE, RegH, RegL, RegHLInd, RegA}

// R16 identifies one of the four 16-bit register pairs addressable by
// LD r16,n16 / INC r16 / DEC r16 / ADD HL,r16, in hardware bit order.
type R16 int

const (
	RegBC R16 = iota
	RegDE
	RegHL
	RegSP
)

func (r R16) String() string {
	switch r {
	case RegBC:
		return "BC"
	case RegDE:
		return "DE"
	case RegHL:
		return "HL"
	case RegSP:
		return "SP"
	default:
		return "?"
	}
}

var r16Order = [4]R16{RegBC, RegDE, RegHL, RegSP}

// R16Stack identifies one of the four pairs addressable by PUSH/POP,
// which uses AF instead of SP in the fourth slot.
type R16Stack int

const (
	StackBC R16Stack = iota
	StackDE
	StackHL
	StackAF
)

func (r R16Stack) String() string {
	switch r {
	case StackBC:
		return "BC"
	case StackDE:
		return "DE"
	case StackHL:
		return "HL"
	case StackAF:
		return "AF"
	default:
		return "?"
	}
}

var r16StackOrder = [4]R16Stack{StackBC, StackDE, StackHL, StackAF}

// Condition identifies one of the four branch conditions, in hardware
// bit order.
type Condition int

const (
	CondNZ Condition = iota
	CondZ
	CondNC
	CondC
)

func (c Condition) String() string {
	switch c {
	case CondNZ:
		return "NZ"
	case CondZ:
		return "Z"
	case CondNC:
		return "NC"
	case CondC:
		return "C"
	default:
		return "?"
	}
}

var condOrder = [4]Condition{CondNZ, CondZ, CondNC, CondC}

// Taken reports whether the condition holds against the current flags.
func (c Condition) Taken(r *Registers) bool {
	switch c {
	case CondNZ:
		return !r.Zero()
	case CondZ:
		return r.Zero()
	case CondNC:
		return !r.Carry()
	case CondC:
		return r.Carry()
	default:
		return false
	}
}
