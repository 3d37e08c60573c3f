package cpu

import "fmt"

// BaseOpcodes and PrefixedOpcodes are the two 256-entry decode tables
// spec §9 requires: every unprefixed opcode byte, and every byte
// following a 0xCB prefix byte. A nil Handler marks an opcode the SM83
// never assigns (Step turns a lookup there into an UnknownOpcode).
//
// Most of the instruction set is laid out by the hardware in fully
// regular rows and columns (register selection in the low 3 bits,
// operation group in the high bits), so those rows are built
// programmatically from the same r8Order/r16Order/condOrder the
// register file uses for its own bit encoding. The irregular
// instructions (control flow, immediate 16-bit loads, stack ops, and a
// handful of one-off opcodes) are listed explicitly.
var BaseOpcodes [256]Opcode
var PrefixedOpcodes [256]Opcode

func init() {
	buildRegularBaseRows()
	buildIrregularBaseOpcodes()
	buildPrefixedTable()
}

// buildRegularBaseRows fills every row of the unprefixed table whose
// opcode bits map directly onto an R8/R16/Condition ordering.
func buildRegularBaseRows() {
	// 0x40-0x7F: LD r,r (0x76 is HALT, patched in afterward).
	for dstIdx, dst := range r8Order {
		for srcIdx, src := range r8Order {
			op := byte(0x40 + dstIdx*8 + srcIdx)
			BaseOpcodes[op] = Opcode{
				Name:    fmt.Sprintf("LD %s,%s", dst, src),
				Handler: ld_r_r(dst, src),
			}
		}
	}

	// 0x80-0xBF: 8-bit ALU group, one row of 8 registers per operation.
	aluRows := []struct {
		base byte
		name string
		gen  func(R8) Handler
	}{
		{0x80, "ADD A,%s", add_a_r},
		{0x88, "ADC A,%s", adc_a_r},
		{0x90, "SUB %s", sub_r},
		{0x98, "SBC A,%s", sbc_a_r},
		{0xa0, "AND %s", and_r},
		{0xa8, "XOR %s", xor_r},
		{0xb0, "OR %s", or_r},
		{0xb8, "CP %s", cp_r},
	}
	for _, row := range aluRows {
		for i, r := range r8Order {
			BaseOpcodes[row.base+byte(i)] = Opcode{
				Name:    fmt.Sprintf(row.name, r),
				Handler: row.gen(r),
			}
		}
	}

	// INC r8 / DEC r8 / LD r8,n8 each land 8 apart starting at 0x04/0x05/0x06.
	for i, r := range r8Order {
		BaseOpcodes[0x04+byte(i)*8] = Opcode{Name: fmt.Sprintf("INC %s", r), Handler: inc_r8(r)}
		BaseOpcodes[0x05+byte(i)*8] = Opcode{Name: fmt.Sprintf("DEC %s", r), Handler: dec_r8(r)}
		BaseOpcodes[0x06+byte(i)*8] = Opcode{Name: fmt.Sprintf("LD %s,n8", r), Handler: ld_r8_n8(r)}
	}

	// LD r16,n16 / INC r16 / DEC r16 / ADD HL,r16 each land 0x10 apart.
	for i, rp := range r16Order {
		BaseOpcodes[0x01+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("LD %s,n16", rp), Handler: ld_r16_n16(rp)}
		BaseOpcodes[0x03+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("INC %s", rp), Handler: inc_r16(rp)}
		BaseOpcodes[0x0b+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("DEC %s", rp), Handler: dec_r16(rp)}
		BaseOpcodes[0x09+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("ADD HL,%s", rp), Handler: add_hl_r16(rp)}
	}

	// PUSH/POP land 0x10 apart, BC/DE/HL/AF.
	for i, rp := range r16StackOrder {
		BaseOpcodes[0xc5+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("PUSH %s", rp), Handler: push_r16(rp)}
		BaseOpcodes[0xc1+byte(i)*0x10] = Opcode{Name: fmt.Sprintf("POP %s", rp), Handler: pop_r16(rp)}
	}

	// Conditional JR/JP/CALL/RET land 8 apart over NZ,Z,NC,C.
	for i, cc := range condOrder {
		BaseOpcodes[0x20+byte(i)*8] = Opcode{Name: fmt.Sprintf("JR %s,e8", cc), Handler: jr_cc_e8(cc)}
		BaseOpcodes[0xc2+byte(i)*8] = Opcode{Name: fmt.Sprintf("JP %s,n16", cc), Handler: jp_cc_n16(cc)}
		BaseOpcodes[0xc4+byte(i)*8] = Opcode{Name: fmt.Sprintf("CALL %s,n16", cc), Handler: call_cc_n16(cc)}
		BaseOpcodes[0xc0+byte(i)*8] = Opcode{Name: fmt.Sprintf("RET %s", cc), Handler: ret_cc(cc)}
	}

	// RST vectors land 8 apart: 00H,08H,...,38H.
	for i := 0; i < 8; i++ {
		vec := byte(i * 8)
		BaseOpcodes[0xc7+byte(i)*8] = Opcode{Name: fmt.Sprintf("RST %02XH", vec), Handler: rst(vec)}
	}
}

// buildIrregularBaseOpcodes fills the remaining unprefixed opcodes: the
// handful the hardware does not lay out along a clean row or column,
// plus the eleven bytes it never assigns at all (left as the zero
// Opcode, whose nil Handler signals UnknownOpcode).
func buildIrregularBaseOpcodes() {
	def := func(op byte, name string, h Handler) {
		BaseOpcodes[op] = Opcode{Name: name, Handler: h}
	}

	def(0x00, "NOP", nop)
	def(0x02, "LD (BC),A", ld_bc_ind_a)
	def(0x08, "LD (n16),SP", ld_n16ind_sp)
	def(0x0a, "LD A,(BC)", ld_a_bc_ind)
	def(0x07, "RLCA", rlca)
	def(0x0f, "RRCA", rrca)

	def(0x10, "STOP", stop)
	def(0x12, "LD (DE),A", ld_de_ind_a)
	def(0x18, "JR e8", jr_e8)
	def(0x1a, "LD A,(DE)", ld_a_de_ind)
	def(0x17, "RLA", rla)
	def(0x1f, "RRA", rra)

	def(0x22, "LD (HL+),A", ld_hli_ind_a)
	def(0x27, "DAA", daa)
	def(0x2a, "LD A,(HL+)", ld_a_hli_ind)
	def(0x2f, "CPL", cpl)

	def(0x32, "LD (HL-),A", ld_hld_ind_a)
	def(0x34, "INC (HL)", inc_r8(RegHLInd))
	def(0x35, "DEC (HL)", dec_r8(RegHLInd))
	def(0x36, "LD (HL),n8", ld_r8_n8(RegHLInd))
	def(0x37, "SCF", scf)
	def(0x3a, "LD A,(HL-)", ld_a_hld_ind)
	def(0x3f, "CCF", ccf)

	def(0x76, "HALT", haltOp) // overwrites the LD (HL),(HL) slot

	def(0xc3, "JP n16", jp_n16)
	def(0xc6, "ADD A,n8", add_a_n8)
	def(0xc9, "RET", ret)
	def(0xcd, "CALL n16", call_n16)
	def(0xce, "ADC A,n8", adc_a_n8)

	def(0xd6, "SUB n8", sub_n8)
	def(0xd9, "RETI", reti)
	def(0xde, "SBC A,n8", sbc_a_n8)

	def(0xe0, "LDH (n8),A", ldh_n8ind_a)
	def(0xe2, "LDH (C),A", ldh_cind_a)
	def(0xe6, "AND n8", and_n8)
	def(0xe8, "ADD SP,e8", add_sp_e8)
	def(0xe9, "JP HL", jp_hl)
	def(0xea, "LD (n16),A", ld_n16ind_a)
	def(0xee, "XOR n8", xor_n8)

	def(0xf0, "LDH A,(n8)", ldh_a_n8ind)
	def(0xf2, "LDH A,(C)", ldh_a_cind)
	def(0xf3, "DI", di)
	def(0xf6, "OR n8", or_n8)
	def(0xf8, "LD HL,SP+e8", ld_hl_sp_e8)
	def(0xf9, "LD SP,HL", ld_sp_hl)
	def(0xfa, "LD A,(n16)", ld_a_n16ind)
	def(0xfb, "EI", ei)
	def(0xfe, "CP n8", cp_n8)

	// 0xcb is intercepted by Step before this table is consulted; its
	// slot is left as the zero Opcode.
	//
	// The eleven bytes below are the opcodes the SM83 never assigns:
	// 0xd3, 0xdb, 0xdd, 0xe3, 0xe4, 0xeb, 0xec, 0xed, 0xf4, 0xfc, 0xfd.
	// They are left at their zero value (nil Handler) so Step reports
	// UnknownOpcode when one is fetched.
}

// buildPrefixedTable fills the entire 0xCB-prefixed table, which is
// fully regular: an 8-op rotate/shift/swap group over 8 registers
// (0x00-0x3F), then BIT/RES/SET, each a bit index (0-7) by register
// (8) grid (0x40-0xFF).
func buildPrefixedTable() {
	rotateOps := []struct {
		name string
		gen  func(R8) Handler
	}{
		{"RLC", rlc}, {"RRC", rrc}, {"RL", rl}, {"RR", rr},
		{"SLA", sla}, {"SRA", sra}, {"SWAP", swap}, {"SRL", srl},
	}
	for opIdx, row := range rotateOps {
		for regIdx, r := range r8Order {
			op := byte(opIdx*8 + regIdx)
			PrefixedOpcodes[op] = Opcode{
				Name:    fmt.Sprintf("%s %s", row.name, r),
				Handler: row.gen(r),
			}
		}
	}

	for b := 0; b < 8; b++ {
		for regIdx, r := range r8Order {
			bit8 := byte(b)
			PrefixedOpcodes[0x40+b*8+regIdx] = Opcode{Name: fmt.Sprintf("BIT %d,%s", b, r), Handler: bit(bit8, r)}
			PrefixedOpcodes[0x80+b*8+regIdx] = Opcode{Name: fmt.Sprintf("RES %d,%s", b, r), Handler: res(bit8, r)}
			PrefixedOpcodes[0xc0+b*8+regIdx] = Opcode{Name: fmt.Sprintf("SET %d,%s", b, r), Handler: set(bit8, r)}
		}
	}
}
