// Package cpu implements the SM83 instruction set: the register file,
// the two-level opcode decode table, and the fetch/decode/execute loop
// that drives a mem.Bus and, through it, the PPU's scanline clock.
package cpu

import (
	"fmt"

	"gbcore/mem"
)

// resetPC is the program counter value every hardware reset lands on.
const resetPC = 0x0100

// UnknownOpcode is returned by Step when the fetched byte (or, for a
// 0xCB prefix, the byte following it) has no entry in the decode
// tables. The eleven bytes the SM83 never assigns any instruction to
// are exactly the bytes that produce this error.
type UnknownOpcode struct {
	Opcode  byte
	Pc      uint16
	Prefixed bool
}

func (e UnknownOpcode) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("cpu: unknown opcode 0xCB 0x%02x at PC=%#04x", e.Opcode, e.Pc)
	}
	return fmt.Sprintf("cpu: unknown opcode 0x%02x at PC=%#04x", e.Opcode, e.Pc)
}

// Handler executes one decoded instruction against c, returning the
// number of machine cycles it consumed (conditional branches vary this
// at execution time) or an error from a faulting Bus access.
type Handler func(c *Cpu) (int, error)

// Opcode is one entry of a decode table: a mnemonic for debugging and
// the handler that performs the instruction's effect.
type Opcode struct {
	Name    string
	Handler Handler
}

// Cpu is the SM83 interpreter: a register file, a pointer to the bus it
// executes against, and the two latches (IME, Halted) that control
// interrupt and power-saving behavior. This spec does not model
// interrupt delivery (no APU, timer, or input interrupt sources are
// implemented), so IME and IE only affect EI/DI/HALT bookkeeping.
type Cpu struct {
	Bus *mem.Bus
	Reg Registers

	IME    bool // interrupt master enable
	Halted bool
	Stopped bool

	// eiPending delays IME's rise by one instruction after EI, matching
	// real hardware's enable-interrupts-after-next-instruction timing.
	eiPending bool
}

// New returns a Cpu wired to bus, with registers at their zero value.
// Call Reset to bring it to the post-boot-ROM state spec §6 requires.
func New(bus *mem.Bus) *Cpu {
	return &Cpu{Bus: bus}
}

// Reset sets PC to 0x0100 and clears every register, IME, and the
// halted/stopped latches, per spec §6's reset operation. It does not
// touch the Bus; callers that want a clean memory map too should call
// Bus.Reset separately.
func (c *Cpu) Reset() {
	c.Reg = Registers{PC: resetPC}
	c.IME = false
	c.Halted = false
	c.Stopped = false
	c.eiPending = false
}

// fetch8 reads the byte at PC and advances PC past it.
func (c *Cpu) fetch8() (byte, error) {
	v, err := c.Bus.Read(c.Reg.PC)
	if err != nil {
		return 0, err
	}
	c.Reg.PC++
	return v, nil
}

// fetch16 reads the little-endian word at PC and advances PC past it.
func (c *Cpu) fetch16() (uint16, error) {
	lo, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	hi, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// push16 decrements SP by two and writes v at the new SP, high byte
// first descending, matching the SM83's stack-grows-down convention.
func (c *Cpu) push16(v uint16) error {
	c.Reg.SP--
	if err := c.Bus.Write(c.Reg.SP, byte(v>>8)); err != nil {
		return err
	}
	c.Reg.SP--
	return c.Bus.Write(c.Reg.SP, byte(v))
}

// pop16 reads the word at SP and increments SP by two.
func (c *Cpu) pop16() (uint16, error) {
	lo, err := c.Bus.Read(c.Reg.SP)
	if err != nil {
		return 0, err
	}
	c.Reg.SP++
	hi, err := c.Bus.Read(c.Reg.SP)
	if err != nil {
		return 0, err
	}
	c.Reg.SP++
	return uint16(hi)<<8 | uint16(lo), nil
}

// getR8 reads an 8-bit operand, routing RegHLInd through the Bus at HL.
func (c *Cpu) getR8(r R8) (byte, error) {
	switch r {
	case RegB:
		return c.Reg.B, nil
	case RegC:
		return c.Reg.C, nil
	case RegD:
		return c.Reg.D, nil
	case RegE:
		return c.Reg.E, nil
	case RegH:
		return c.Reg.H, nil
	case RegL:
		return c.Reg.L, nil
	case RegA:
		return c.Reg.A, nil
	case RegHLInd:
		return c.Bus.Read(c.Reg.HL())
	default:
		panic("cpu: invalid R8")
	}
}

// setR8 writes an 8-bit operand, routing RegHLInd through the Bus at HL.
func (c *Cpu) setR8(r R8, v byte) error {
	switch r {
	case RegB:
		c.Reg.B = v
	case RegC:
		c.Reg.C = v
	case RegD:
		c.Reg.D = v
	case RegE:
		c.Reg.E = v
	case RegH:
		c.Reg.H = v
	case RegL:
		c.Reg.L = v
	case RegA:
		c.Reg.A = v
	case RegHLInd:
		return c.Bus.Write(c.Reg.HL(), v)
	default:
		panic("cpu: invalid R8")
	}
	return nil
}

// getR16 reads one of the four general 16-bit register pairs.
func (c *Cpu) getR16(r R16) uint16 {
	switch r {
	case RegBC:
		return c.Reg.BC()
	case RegDE:
		return c.Reg.DE()
	case RegHL:
		return c.Reg.HL()
	case RegSP:
		return c.Reg.SP
	default:
		panic("cpu: invalid R16")
	}
}

// setR16 writes one of the four general 16-bit register pairs.
func (c *Cpu) setR16(r R16, v uint16) {
	switch r {
	case RegBC:
		c.Reg.SetBC(v)
	case RegDE:
		c.Reg.SetDE(v)
	case RegHL:
		c.Reg.SetHL(v)
	case RegSP:
		c.Reg.SP = v
	default:
		panic("cpu: invalid R16")
	}
}

// getR16Stack reads one of the four pairs addressable by PUSH/POP.
func (c *Cpu) getR16Stack(r R16Stack) uint16 {
	switch r {
	case StackBC:
		return c.Reg.BC()
	case StackDE:
		return c.Reg.DE()
	case StackHL:
		return c.Reg.HL()
	case StackAF:
		return c.Reg.AF()
	default:
		panic("cpu: invalid R16Stack")
	}
}

// setR16Stack writes one of the four pairs addressable by PUSH/POP.
func (c *Cpu) setR16Stack(r R16Stack, v uint16) {
	switch r {
	case StackBC:
		c.Reg.SetBC(v)
	case StackDE:
		c.Reg.SetDE(v)
	case StackHL:
		c.Reg.SetHL(v)
	case StackAF:
		c.Reg.SetAF(v)
	default:
		panic("cpu: invalid R16Stack")
	}
}

// Step decodes and executes exactly one instruction, returning the
// number of machine cycles it consumed. Decode is pure: the opcode
// byte(s) are read from the Bus without advancing PC; PC is advanced
// past the opcode byte(s) before the handler runs, and the handler
// advances it further for any immediate operand it consumes (or
// overwrites it outright for a taken jump/call/return).
//
// If the Cpu is halted, Step consumes four cycles and does nothing
// else: this spec implements no interrupt sources able to wake it, so
// once halted a Cpu stays halted for the remainder of the run.
func (c *Cpu) Step() (int, error) {
	if c.eiPending {
		c.eiPending = false
		c.IME = true
	}

	if c.Halted {
		return 4, nil
	}

	pc := c.Reg.PC
	b0, err := c.Bus.Read(pc)
	if err != nil {
		return 0, err
	}

	if b0 == 0xcb {
		b1, err := c.Bus.Read(pc + 1)
		if err != nil {
			return 0, err
		}
		op := PrefixedOpcodes[b1]
		if op.Handler == nil {
			return 0, UnknownOpcode{Opcode: b1, Pc: pc, Prefixed: true}
		}
		c.Reg.PC += 2
		return op.Handler(c)
	}

	op := BaseOpcodes[b0]
	if op.Handler == nil {
		return 0, UnknownOpcode{Opcode: b0, Pc: pc}
	}
	c.Reg.PC++
	return op.Handler(c)
}

// Run steps the Cpu until it halts or a fatal error occurs, driving the
// PPU's mode clock with the cycle cost of every executed instruction.
// Per spec §4.3, HALT and an unassigned opcode both terminate the fetch
// loop, but only the latter (and a faulting Bus access) is an error:
// HALT is this spec's normal, clean way for a program to stop, matching
// the CLI's "exit 0 on clean termination" contract.
func (c *Cpu) Run() error {
	for {
		cycles, err := c.Step()
		if err != nil {
			return err
		}
		c.Bus.PPU.Step(cycles)
		if c.Halted {
			return nil
		}
	}
}
