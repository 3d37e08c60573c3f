package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairRoundTrip(t *testing.T) {
	var r Registers

	r.SetBC(0x1234)
	assert.Equal(t, uint16(0x1234), r.BC())
	assert.Equal(t, byte(0x12), r.B)
	assert.Equal(t, byte(0x34), r.C)

	r.SetDE(0xabcd)
	assert.Equal(t, uint16(0xabcd), r.DE())

	r.SetHL(0xbeef)
	assert.Equal(t, uint16(0xbeef), r.HL())
}

// TestFlagCanonicalForm checks spec's invariant that F's low nibble is
// always zero, even when a raw byte with low-nibble bits set is written
// via SetAF (the POP AF path).
func TestFlagCanonicalForm(t *testing.T) {
	var r Registers
	r.SetAF(0x1234 | 0x0f) // low nibble of F would be 0xf if not masked
	assert.Equal(t, byte(0x30), r.F)
	assert.Equal(t, byte(0), r.F&0x0f)

	r.SetF(0xff)
	assert.Equal(t, byte(0xf0), r.F)
}

func TestFlagAccessors(t *testing.T) {
	var r Registers
	r.SetZero(true)
	r.SetCarry(true)
	assert.True(t, r.Zero())
	assert.True(t, r.Carry())
	assert.False(t, r.Subtract())
	assert.False(t, r.HalfCarry())
	assert.Equal(t, byte(0x90), r.F)

	r.SetZero(false)
	assert.False(t, r.Zero())
	assert.Equal(t, byte(0x10), r.F)
}

func TestConditionTaken(t *testing.T) {
	var r Registers
	r.SetZero(true)
	r.SetCarry(false)

	assert.True(t, CondZ.Taken(&r))
	assert.False(t, CondNZ.Taken(&r))
	assert.True(t, CondNC.Taken(&r))
	assert.False(t, CondC.Taken(&r))
}

func TestR8String(t *testing.T) {
	for i, want := range []string{"B", "C", "D", "E", "H", "L", "(HL)", "A"} {
		assert.Equal(t, want, r8Order[i].String())
	}
}
