package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRoundTrip(t *testing.T) {
	b := New()

	for _, addr := range []uint16{0x0000, 0x00ff, 0x7fff} {
		assert.NoError(t, b.Write(addr, 0xab))
		v, err := b.Read(addr)
		assert.NoError(t, err)
		assert.Equal(t, byte(0xab), v)
	}

	assert.NoError(t, b.Write(0xa000, 0x11))
	v, err := b.Read(0xa000)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x11), v)

	assert.NoError(t, b.Write(0xc010, 0x22))
	v, err = b.Read(0xc010)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x22), v)

	assert.NoError(t, b.Write(0xff90, 0x33))
	v, err = b.Read(0xff90)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x33), v)

	assert.NoError(t, b.Write(0xffff, 0x44))
	v, err = b.Read(0xffff)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x44), v)
}

func TestEchoRAMAliasesWorkRAM(t *testing.T) {
	b := New()
	assert.NoError(t, b.Write(0xc005, 0x7e))
	v, err := b.Read(0xe005)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x7e), v)

	assert.NoError(t, b.Write(0xe100, 0x9a))
	v, err = b.Read(0xc100)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x9a), v)
}

func TestUnusableWindowIsOutOfRange(t *testing.T) {
	b := New()
	_, err := b.Read(0xfea0)
	assert.Error(t, err)
	assert.Error(t, b.Write(0xfeff, 0x01))
}

func TestVRAMAndOAMRouteThroughPPU(t *testing.T) {
	b := New()
	assert.NoError(t, b.Write(0x8050, 0x5a))
	v, err := b.Read(0x8050)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x5a), v)
	vramByte, err := b.PPU.ReadVRAM(0x8050)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x5a), vramByte)

	assert.NoError(t, b.Write(0xfe05, 0x7b))
	v, err = b.Read(0xfe05)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x7b), v)
}

func TestLCDRegistersRouteThroughPPU(t *testing.T) {
	b := New()
	assert.NoError(t, b.Write(0xff42, 0x08)) // SCY
	v, err := b.Read(0xff42)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x08), v)
	assert.Equal(t, byte(0x08), b.PPU.SCY)
}

func TestLoadROMAndReset(t *testing.T) {
	b := New()
	b.LoadROM([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.NoError(t, b.Write(0xc000, 0x01))
	b.Reset()

	v, err := b.Read(0x0000)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xde), v, "ROM must survive reset")

	v, err = b.Read(0xc000)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), v, "work RAM must be zeroed by reset")
}
