package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gbcore/mem"
)

func newTestCpu() *Cpu {
	c := New(mem.New())
	c.Reset()
	return c
}

func TestResetLandsAtEntryPoint(t *testing.T) {
	c := newTestCpu()
	assert.Equal(t, uint16(0x0100), c.Reg.PC)
	assert.False(t, c.IME)
	assert.False(t, c.Halted)
}

func TestMemoryRoundTripThroughBus(t *testing.T) {
	c := newTestCpu()
	assert.NoError(t, c.Bus.Write(0xc000, 0x42))
	v, err := c.Bus.Read(0xc000)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), v)
}

// TestUnconditionalJumpIdempotence checks spec §8's universal property:
// JP n16 to PC's own address is a no-op fixed point.
func TestUnconditionalJumpIdempotence(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	assert.NoError(t, c.Bus.Write(0x8000, 0xc3)) // JP n16
	assert.NoError(t, c.Bus.Write(0x8001, 0x00))
	assert.NoError(t, c.Bus.Write(0x8002, 0x80))

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x8000), c.Reg.PC)
}

// TestPushPopRoundTrip checks spec §8's universal property: PUSH rp
// followed by POP rp restores both the register and SP.
func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	c.Reg.SP = 0xfffe
	c.Reg.SetBC(0xcafe)
	startSP := c.Reg.SP

	assert.NoError(t, c.Bus.Write(0x8000, 0xc5)) // PUSH BC
	assert.NoError(t, c.Bus.Write(0x8001, 0xc1)) // POP BC

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, startSP-2, c.Reg.SP)

	c.Reg.SetBC(0x0000)
	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xcafe), c.Reg.BC())
	assert.Equal(t, startSP, c.Reg.SP)
}

// TestUnknownOpcode checks that each of the eleven bytes the SM83 never
// assigns produces UnknownOpcode, per spec §4.3's fetch/execute loop.
func TestUnknownOpcode(t *testing.T) {
	for _, op := range []byte{0xd3, 0xdb, 0xdd, 0xe3, 0xe4, 0xeb, 0xec, 0xed, 0xf4, 0xfc, 0xfd} {
		c := newTestCpu()
		c.Reg.PC = 0x8000
		assert.NoError(t, c.Bus.Write(0x8000, op))
		_, err := c.Step()
		assert.Error(t, err, "opcode %#02x should be unknown", op)
		var unknown UnknownOpcode
		assert.ErrorAs(t, err, &unknown)
		assert.Equal(t, op, unknown.Opcode)
	}
}

func TestUnknownPrefixedOpcodeIsUnreachable(t *testing.T) {
	// Every byte following 0xCB is assigned (rotate/shift/BIT/RES/SET
	// cover the entire 0x00-0xFF range), so there is no unknown
	// prefixed opcode to test for - this documents that fact.
	for i := 0; i < 256; i++ {
		assert.NotNil(t, PrefixedOpcodes[i].Handler, "0xCB %#02x should be assigned", i)
	}
}

// TestCallThenReturn checks spec §8 scenario: CALL pushes the return
// address, and the matching RET restores PC exactly.
func TestCallThenReturn(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	c.Reg.SP = 0xfffe

	assert.NoError(t, c.Bus.Write(0x8000, 0xcd)) // CALL n16
	assert.NoError(t, c.Bus.Write(0x8001, 0x00))
	assert.NoError(t, c.Bus.Write(0x8002, 0x90))
	assert.NoError(t, c.Bus.Write(0x9000, 0xc9)) // RET

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0x9000), c.Reg.PC)

	cycles, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x8003), c.Reg.PC)
}

func TestHaltConsumesFourCyclesForever(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	assert.NoError(t, c.Bus.Write(0x8000, 0x76)) // HALT

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.True(t, c.Halted)

	cycles, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 4, cycles)
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	assert.NoError(t, c.Bus.Write(0x8000, 0xfb)) // EI
	assert.NoError(t, c.Bus.Write(0x8001, 0x00)) // NOP

	_, err := c.Step()
	assert.NoError(t, err)
	assert.False(t, c.IME, "IME must not be set until after the instruction following EI")

	_, err = c.Step()
	assert.NoError(t, err)
	assert.True(t, c.IME)
}

// TestRunStopsCleanlyOnHalt checks spec §4.3/§6: HALT terminates the
// fetch loop, but unlike an unknown opcode or a faulting Bus access it
// is not an error - Run must return nil so the CLI exits 0.
func TestRunStopsCleanlyOnHalt(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	assert.NoError(t, c.Bus.Write(0x8000, 0x00)) // NOP
	assert.NoError(t, c.Bus.Write(0x8001, 0x76)) // HALT

	err := c.Run()
	assert.NoError(t, err)
	assert.True(t, c.Halted)
	assert.Equal(t, uint16(0x8002), c.Reg.PC)
}

// TestRunDrivesPPU checks that Run hands each instruction's cycle cost
// to the PPU, eventually advancing its scanline counter.
func TestRunDrivesPPU(t *testing.T) {
	c := newTestCpu()
	c.Reg.PC = 0x8000
	for i := uint16(0); i < 100; i++ {
		assert.NoError(t, c.Bus.Write(0x8000+i, 0x00)) // NOP
	}
	assert.NoError(t, c.Bus.Write(0x8000+100, 0xd3)) // unassigned, stops Run

	err := c.Run()
	assert.Error(t, err)
	assert.Greater(t, int(c.Bus.PPU.Cycles)+int(c.Bus.PPU.LY)*456, 0)
}
