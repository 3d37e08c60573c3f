package cpu

import "gbcore/mask"

// This file implements every instruction handler the decode tables in
// opcodes.go reference. Handlers for the SM83's many regular
// instruction families (register-to-register loads, 8-bit ALU ops, CB-
// prefixed bit ops, and so on) are built by small generator functions
// parameterized over the operand the table entry closes over; handlers
// for the irregular families (control flow, 16-bit loads, stack ops)
// are written out directly.

// --- control ---

func nop(c *Cpu) (int, error) { return 4, nil }

func stop(c *Cpu) (int, error) {
	// STOP's second byte (always 0x00 in practice) is still consumed.
	if _, err := c.fetch8(); err != nil {
		return 0, err
	}
	c.Stopped = true
	return 4, nil
}

func haltOp(c *Cpu) (int, error) {
	c.Halted = true
	return 4, nil
}

func di(c *Cpu) (int, error) {
	c.IME = false
	c.eiPending = false
	return 4, nil
}

func ei(c *Cpu) (int, error) {
	c.eiPending = true
	return 4, nil
}

// --- 8-bit load ---

// ld_r_r builds LD dst,src for the fully regular 0x40-0x7F block.
func ld_r_r(dst, src R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(src)
		if err != nil {
			return 0, err
		}
		if err := c.setR8(dst, v); err != nil {
			return 0, err
		}
		if dst == RegHLInd || src == RegHLInd {
			return 8, nil
		}
		return 4, nil
	}
}

// ld_r8_n8 builds LD r8,n8 for the regular 0x06/0x0E/.../0x3E column.
func ld_r8_n8(dst R8) Handler {
	return func(c *Cpu) (int, error) {
		n, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		if err := c.setR8(dst, n); err != nil {
			return 0, err
		}
		if dst == RegHLInd {
			return 12, nil
		}
		return 8, nil
	}
}

func ld_bc_ind_a(c *Cpu) (int, error) { return 8, c.Bus.Write(c.Reg.BC(), c.Reg.A) }
func ld_de_ind_a(c *Cpu) (int, error) { return 8, c.Bus.Write(c.Reg.DE(), c.Reg.A) }

func ld_a_bc_ind(c *Cpu) (int, error) {
	v, err := c.Bus.Read(c.Reg.BC())
	c.Reg.A = v
	return 8, err
}
func ld_a_de_ind(c *Cpu) (int, error) {
	v, err := c.Bus.Read(c.Reg.DE())
	c.Reg.A = v
	return 8, err
}

func ld_hli_ind_a(c *Cpu) (int, error) {
	hl := c.Reg.HL()
	err := c.Bus.Write(hl, c.Reg.A)
	c.Reg.SetHL(hl + 1)
	return 8, err
}
func ld_hld_ind_a(c *Cpu) (int, error) {
	hl := c.Reg.HL()
	err := c.Bus.Write(hl, c.Reg.A)
	c.Reg.SetHL(hl - 1)
	return 8, err
}
func ld_a_hli_ind(c *Cpu) (int, error) {
	hl := c.Reg.HL()
	v, err := c.Bus.Read(hl)
	c.Reg.A = v
	c.Reg.SetHL(hl + 1)
	return 8, err
}
func ld_a_hld_ind(c *Cpu) (int, error) {
	hl := c.Reg.HL()
	v, err := c.Bus.Read(hl)
	c.Reg.A = v
	c.Reg.SetHL(hl - 1)
	return 8, err
}

func ld_n16ind_a(c *Cpu) (int, error) {
	addr, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	return 16, c.Bus.Write(addr, c.Reg.A)
}
func ld_a_n16ind(c *Cpu) (int, error) {
	addr, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	v, err := c.Bus.Read(addr)
	c.Reg.A = v
	return 16, err
}

func ldh_n8ind_a(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	return 12, c.Bus.Write(0xff00+uint16(n), c.Reg.A)
}
func ldh_a_n8ind(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	v, err := c.Bus.Read(0xff00 + uint16(n))
	c.Reg.A = v
	return 12, err
}
func ldh_cind_a(c *Cpu) (int, error) {
	return 8, c.Bus.Write(0xff00+uint16(c.Reg.C), c.Reg.A)
}
func ldh_a_cind(c *Cpu) (int, error) {
	v, err := c.Bus.Read(0xff00 + uint16(c.Reg.C))
	c.Reg.A = v
	return 8, err
}

// --- 16-bit load ---

func ld_r16_n16(rp R16) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		c.setR16(rp, v)
		return 12, nil
	}
}

func ld_n16ind_sp(c *Cpu) (int, error) {
	addr, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	if err := c.Bus.Write(addr, byte(c.Reg.SP)); err != nil {
		return 0, err
	}
	return 20, c.Bus.Write(addr+1, byte(c.Reg.SP>>8))
}

func ld_sp_hl(c *Cpu) (int, error) {
	c.Reg.SP = c.Reg.HL()
	return 8, nil
}

// spPlusE8 implements the unsigned-low-byte-add flag rule both ADD SP,e8
// and LD HL,SP+e8 share: the 16-bit result sign-extends e8, but H and C
// are computed as if adding the raw (unsigned) operand byte to the low
// byte of SP.
func spPlusE8(sp uint16, e8 byte) (result uint16, h, cy bool) {
	signed := int16(int8(e8))
	result = uint16(int32(sp) + int32(signed))
	low := byte(sp)
	h = mask.HalfCarryAdd(low, e8)
	cy = uint16(low)+uint16(e8) > 0xff
	return
}

func add_sp_e8(c *Cpu) (int, error) {
	e8, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	result, h, cy := spPlusE8(c.Reg.SP, e8)
	c.Reg.SP = result
	c.Reg.SetZero(false)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(h)
	c.Reg.SetCarry(cy)
	return 16, nil
}

func ld_hl_sp_e8(c *Cpu) (int, error) {
	e8, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	result, h, cy := spPlusE8(c.Reg.SP, e8)
	c.Reg.SetHL(result)
	c.Reg.SetZero(false)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(h)
	c.Reg.SetCarry(cy)
	return 12, nil
}

func push_r16(rp R16Stack) Handler {
	return func(c *Cpu) (int, error) {
		return 16, c.push16(c.getR16Stack(rp))
	}
}
func pop_r16(rp R16Stack) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.pop16()
		if err != nil {
			return 0, err
		}
		c.setR16Stack(rp, v)
		return 12, nil
	}
}

// --- 8-bit arithmetic/logic ---

func add_a_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		a := c.Reg.A
		result := a + v
		c.Reg.A = result
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(mask.HalfCarryAdd(a, v))
		c.Reg.SetCarry(int(a)+int(v) > 0xff)
		return cyclesFor(r), nil
	}
}

func adc_a_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		a := c.Reg.A
		carryIn := c.Reg.Carry()
		ci := 0
		if carryIn {
			ci = 1
		}
		result := a + v
		if carryIn {
			result++
		}
		c.Reg.A = result
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(mask.HalfCarryAdd3(a, v, carryIn))
		c.Reg.SetCarry(int(a)+int(v)+ci > 0xff)
		return cyclesFor(r), nil
	}
}

func sub_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		a := c.Reg.A
		result := a - v
		c.Reg.A = result
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(true)
		c.Reg.SetHalfCarry(mask.HalfCarrySub(a, v))
		c.Reg.SetCarry(a < v)
		return cyclesFor(r), nil
	}
}

func sbc_a_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		a := c.Reg.A
		carryIn := c.Reg.Carry()
		ci := 0
		if carryIn {
			ci = 1
		}
		result := a - v
		if carryIn {
			result--
		}
		c.Reg.A = result
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(true)
		c.Reg.SetHalfCarry(mask.HalfCarrySub3(a, v, carryIn))
		c.Reg.SetCarry(int(a)-int(v)-ci < 0)
		return cyclesFor(r), nil
	}
}

func and_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		c.Reg.A &= v
		c.Reg.SetZero(c.Reg.A == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(true)
		c.Reg.SetCarry(false)
		return cyclesFor(r), nil
	}
}

func xor_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		c.Reg.A ^= v
		c.Reg.SetZero(c.Reg.A == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(false)
		c.Reg.SetCarry(false)
		return cyclesFor(r), nil
	}
}

func or_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		c.Reg.A |= v
		c.Reg.SetZero(c.Reg.A == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(false)
		c.Reg.SetCarry(false)
		return cyclesFor(r), nil
	}
}

func cp_r(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		a := c.Reg.A
		result := a - v
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(true)
		c.Reg.SetHalfCarry(mask.HalfCarrySub(a, v))
		c.Reg.SetCarry(a < v)
		return cyclesFor(r), nil
	}
}

// cyclesFor is the cycle cost of an 8-bit ALU op given its r8 operand:
// 4 for a register, 8 for (HL).
func cyclesFor(r R8) int {
	if r == RegHLInd {
		return 8
	}
	return 4
}

func add_a_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	a := c.Reg.A
	result := a + n
	c.Reg.A = result
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(mask.HalfCarryAdd(a, n))
	c.Reg.SetCarry(int(a)+int(n) > 0xff)
	return 8, nil
}
func adc_a_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	a := c.Reg.A
	carryIn := c.Reg.Carry()
	ci := 0
	if carryIn {
		ci = 1
	}
	result := a + n
	if carryIn {
		result++
	}
	c.Reg.A = result
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(mask.HalfCarryAdd3(a, n, carryIn))
	c.Reg.SetCarry(int(a)+int(n)+ci > 0xff)
	return 8, nil
}
func sub_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	a := c.Reg.A
	result := a - n
	c.Reg.A = result
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(true)
	c.Reg.SetHalfCarry(mask.HalfCarrySub(a, n))
	c.Reg.SetCarry(a < n)
	return 8, nil
}
func sbc_a_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	a := c.Reg.A
	carryIn := c.Reg.Carry()
	ci := 0
	if carryIn {
		ci = 1
	}
	result := a - n
	if carryIn {
		result--
	}
	c.Reg.A = result
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(true)
	c.Reg.SetHalfCarry(mask.HalfCarrySub3(a, n, carryIn))
	c.Reg.SetCarry(int(a)-int(n)-ci < 0)
	return 8, nil
}
func and_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	c.Reg.A &= n
	c.Reg.SetZero(c.Reg.A == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(true)
	c.Reg.SetCarry(false)
	return 8, nil
}
func xor_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	c.Reg.A ^= n
	c.Reg.SetZero(c.Reg.A == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(false)
	return 8, nil
}
func or_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	c.Reg.A |= n
	c.Reg.SetZero(c.Reg.A == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(false)
	return 8, nil
}
func cp_n8(c *Cpu) (int, error) {
	n, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	a := c.Reg.A
	result := a - n
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(true)
	c.Reg.SetHalfCarry(mask.HalfCarrySub(a, n))
	c.Reg.SetCarry(a < n)
	return 8, nil
}

func inc_r8(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		result := v + 1
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(mask.HalfCarryAdd(v, 1))
		if r == RegHLInd {
			return 12, nil
		}
		return 4, nil
	}
}
func dec_r8(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		result := v - 1
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(true)
		c.Reg.SetHalfCarry(mask.HalfCarrySub(v, 1))
		if r == RegHLInd {
			return 12, nil
		}
		return 4, nil
	}
}

// --- 16-bit arithmetic ---

func inc_r16(rp R16) Handler {
	return func(c *Cpu) (int, error) {
		c.setR16(rp, c.getR16(rp)+1)
		return 8, nil
	}
}
func dec_r16(rp R16) Handler {
	return func(c *Cpu) (int, error) {
		c.setR16(rp, c.getR16(rp)-1)
		return 8, nil
	}
}
func add_hl_r16(rp R16) Handler {
	return func(c *Cpu) (int, error) {
		hl := c.Reg.HL()
		v := c.getR16(rp)
		c.Reg.SetHL(hl + v)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(mask.HalfCarryAdd16(hl, v))
		c.Reg.SetCarry(mask.CarryAdd16(hl, v))
		return 8, nil
	}
}

// --- rotates on A (unprefixed forms always clear Z) ---

func rlca(c *Cpu) (int, error) {
	a := c.Reg.A
	carryOut := a&0x80 != 0
	c.Reg.A = a<<1 | boolBit(carryOut)
	setRotateFlags(c, carryOut)
	return 4, nil
}
func rrca(c *Cpu) (int, error) {
	a := c.Reg.A
	carryOut := a&0x01 != 0
	c.Reg.A = a>>1 | (boolBit(carryOut) << 7)
	setRotateFlags(c, carryOut)
	return 4, nil
}
func rla(c *Cpu) (int, error) {
	a := c.Reg.A
	carryIn := boolBit(c.Reg.Carry())
	carryOut := a&0x80 != 0
	c.Reg.A = a<<1 | carryIn
	setRotateFlags(c, carryOut)
	return 4, nil
}
func rra(c *Cpu) (int, error) {
	a := c.Reg.A
	carryIn := boolBit(c.Reg.Carry())
	carryOut := a&0x01 != 0
	c.Reg.A = a>>1 | (carryIn << 7)
	setRotateFlags(c, carryOut)
	return 4, nil
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}
func setRotateFlags(c *Cpu, carryOut bool) {
	c.Reg.SetZero(false)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(carryOut)
}

// --- misc single-register ops ---

func daa(c *Cpu) (int, error) {
	a := c.Reg.A
	var adjust byte
	carry := false
	if c.Reg.HalfCarry() || (!c.Reg.Subtract() && a&0x0f > 0x09) {
		adjust |= 0x06
	}
	if c.Reg.Carry() || (!c.Reg.Subtract() && a > 0x99) {
		adjust |= 0x60
		carry = true
	}
	if c.Reg.Subtract() {
		a -= adjust
	} else {
		a += adjust
	}
	c.Reg.A = a
	c.Reg.SetZero(a == 0)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(carry)
	return 4, nil
}

func cpl(c *Cpu) (int, error) {
	c.Reg.A = ^c.Reg.A
	c.Reg.SetSubtract(true)
	c.Reg.SetHalfCarry(true)
	return 4, nil
}

func scf(c *Cpu) (int, error) {
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(true)
	return 4, nil
}

func ccf(c *Cpu) (int, error) {
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(!c.Reg.Carry())
	return 4, nil
}

// --- control flow ---

func jr_e8(c *Cpu) (int, error) {
	e8, err := c.fetch8()
	if err != nil {
		return 0, err
	}
	c.Reg.PC = uint16(int32(c.Reg.PC) + int32(int8(e8)))
	return 12, nil
}
func jr_cc_e8(cc Condition) Handler {
	return func(c *Cpu) (int, error) {
		e8, err := c.fetch8()
		if err != nil {
			return 0, err
		}
		if cc.Taken(&c.Reg) {
			c.Reg.PC = uint16(int32(c.Reg.PC) + int32(int8(e8)))
			return 12, nil
		}
		return 8, nil
	}
}

func jp_n16(c *Cpu) (int, error) {
	addr, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	c.Reg.PC = addr
	return 16, nil
}
func jp_cc_n16(cc Condition) Handler {
	return func(c *Cpu) (int, error) {
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		if cc.Taken(&c.Reg) {
			c.Reg.PC = addr
			return 16, nil
		}
		return 12, nil
	}
}
func jp_hl(c *Cpu) (int, error) {
	c.Reg.PC = c.Reg.HL()
	return 4, nil
}

func call_n16(c *Cpu) (int, error) {
	addr, err := c.fetch16()
	if err != nil {
		return 0, err
	}
	if err := c.push16(c.Reg.PC); err != nil {
		return 0, err
	}
	c.Reg.PC = addr
	return 24, nil
}
func call_cc_n16(cc Condition) Handler {
	return func(c *Cpu) (int, error) {
		addr, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		if cc.Taken(&c.Reg) {
			if err := c.push16(c.Reg.PC); err != nil {
				return 0, err
			}
			c.Reg.PC = addr
			return 24, nil
		}
		return 12, nil
	}
}

func ret(c *Cpu) (int, error) {
	addr, err := c.pop16()
	if err != nil {
		return 0, err
	}
	c.Reg.PC = addr
	return 16, nil
}
func ret_cc(cc Condition) Handler {
	return func(c *Cpu) (int, error) {
		if cc.Taken(&c.Reg) {
			addr, err := c.pop16()
			if err != nil {
				return 0, err
			}
			c.Reg.PC = addr
			return 20, nil
		}
		return 8, nil
	}
}
func reti(c *Cpu) (int, error) {
	addr, err := c.pop16()
	if err != nil {
		return 0, err
	}
	c.Reg.PC = addr
	c.IME = true
	return 16, nil
}

func rst(vec byte) Handler {
	return func(c *Cpu) (int, error) {
		if err := c.push16(c.Reg.PC); err != nil {
			return 0, err
		}
		c.Reg.PC = uint16(vec)
		return 16, nil
	}
}

// --- CB-prefixed: rotate/shift/swap ---

func rlc(r R8) Handler {
	return cbOp(r, func(v byte) (byte, bool) {
		carryOut := v&0x80 != 0
		return v<<1 | boolBit(carryOut), carryOut
	})
}
func rrc(r R8) Handler {
	return cbOp(r, func(v byte) (byte, bool) {
		carryOut := v&0x01 != 0
		return v>>1 | (boolBit(carryOut) << 7), carryOut
	})
}
func rl(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		carryIn := boolBit(c.Reg.Carry())
		carryOut := v&0x80 != 0
		result := v<<1 | carryIn
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		setCbFlags(c, result, carryOut)
		return cbCycles(r), nil
	}
}
func rr(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		carryIn := boolBit(c.Reg.Carry())
		carryOut := v&0x01 != 0
		result := v>>1 | (carryIn << 7)
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		setCbFlags(c, result, carryOut)
		return cbCycles(r), nil
	}
}
func sla(r R8) Handler {
	return cbOp(r, func(v byte) (byte, bool) {
		carryOut := v&0x80 != 0
		return v << 1, carryOut
	})
}
func sra(r R8) Handler {
	return cbOp(r, func(v byte) (byte, bool) {
		carryOut := v&0x01 != 0
		return v&0x80 | v>>1, carryOut
	})
}
func swap(r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		result := v<<4 | v>>4
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		c.Reg.SetZero(result == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(false)
		c.Reg.SetCarry(false)
		return cbCycles(r), nil
	}
}
func srl(r R8) Handler {
	return cbOp(r, func(v byte) (byte, bool) {
		carryOut := v&0x01 != 0
		return v >> 1, carryOut
	})
}

// cbOp shares the read-transform-write-and-flag sequence common to
// RLC/RRC/SLA/SRA/SRL.
func cbOp(r R8, f func(byte) (byte, bool)) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		result, carryOut := f(v)
		if err := c.setR8(r, result); err != nil {
			return 0, err
		}
		setCbFlags(c, result, carryOut)
		return cbCycles(r), nil
	}
}
func setCbFlags(c *Cpu, result byte, carryOut bool) {
	c.Reg.SetZero(result == 0)
	c.Reg.SetSubtract(false)
	c.Reg.SetHalfCarry(false)
	c.Reg.SetCarry(carryOut)
}
func cbCycles(r R8) int {
	if r == RegHLInd {
		return 16
	}
	return 8
}

// --- CB-prefixed: BIT/RES/SET ---

func bit(b byte, r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		c.Reg.SetZero(v&(1<<b) == 0)
		c.Reg.SetSubtract(false)
		c.Reg.SetHalfCarry(true)
		if r == RegHLInd {
			return 12, nil
		}
		return 8, nil
	}
}
func res(b byte, r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		if err := c.setR8(r, v&^(1<<b)); err != nil {
			return 0, err
		}
		return cbCycles(r), nil
	}
}
func set(b byte, r R8) Handler {
	return func(c *Cpu) (int, error) {
		v, err := c.getR8(r)
		if err != nil {
			return 0, err
		}
		if err := c.setR8(r, v|(1<<b)); err != nil {
			return 0, err
		}
		return cbCycles(r), nil
	}
}
