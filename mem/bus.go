// Package mem provides the Bus: the central object that routes every
// CPU-visible 16-bit address to its backing store, per the console's
// memory map. Video RAM and sprite attribute memory are owned by the
// PPU; the Bus forwards accesses to those ranges (and to the LCD
// register addresses within the generic I/O block) to the PPU it holds
// a pointer to.
package mem

import (
	"fmt"

	"gbcore/ppu"
)

// OutOfRangeAddress is returned when an address the memory map does not
// cover is read or written: the unusable window (0xFEA0-0xFEFF).
type OutOfRangeAddress struct {
	Addr uint16
}

func (e OutOfRangeAddress) Error() string {
	return fmt.Sprintf("bus: address out of range: %#04x", e.Addr)
}

// Bus owns every memory region the Cpu can address except video RAM and
// sprite attribute memory, which belong to the PPU. Each backing array
// is zero-initialized and lives for the entire emulator session; there
// is no dynamic allocation on the read/write path.
type Bus struct {
	ROM [0x8000]byte // 0x0000-0x7FFF; writable in this spec (bank switching not modeled)
	EXT [0x2000]byte // 0xA000-0xBFFF external (cartridge) RAM
	WRK [0x2000]byte // 0xC000-0xDFFF work RAM

	IO   [0x0080]byte // 0xFF00-0xFF7F; LCD register addresses are forwarded to PPU
	HRAM [0x007f]byte // 0xFF80-0xFFFE
	IE   byte         // 0xFFFF interrupt enable

	PPU *ppu.PPU
}

// New returns a Bus wired to a fresh PPU.
func New() *Bus {
	return &Bus{PPU: ppu.New()}
}

// lcdRegister reports whether addr is one of the LCD control/status/
// scroll/palette registers the PPU owns within the generic I/O block.
func lcdRegister(addr uint16) bool {
	switch addr {
	case 0xff40, 0xff41, 0xff42, 0xff43, 0xff44, 0xff45, 0xff47, 0xff48, 0xff49, 0xff4a, 0xff4b:
		return true
	}
	return false
}

// Read returns the byte at addr, routing by the §3 memory map. Echo RAM
// aliases work RAM at addr-0x2000.
func (b *Bus) Read(addr uint16) (byte, error) {
	switch {
	case addr <= 0x7fff:
		return b.ROM[addr], nil
	case addr <= 0x9fff:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xbfff:
		return b.EXT[addr-0xa000], nil
	case addr <= 0xdfff:
		return b.WRK[addr-0xc000], nil
	case addr <= 0xfdff:
		return b.WRK[addr-0x2000-0xc000], nil
	case addr <= 0xfe9f:
		return b.PPU.ReadOAM(addr)
	case addr <= 0xfeff:
		return 0, OutOfRangeAddress{addr}
	case addr <= 0xff7f:
		if lcdRegister(addr) {
			return b.PPU.ReadRegister(addr)
		}
		return b.IO[addr-0xff00], nil
	case addr <= 0xfffe:
		return b.HRAM[addr-0xff80], nil
	default: // 0xffff
		return b.IE, nil
	}
}

// Write stores data at addr, routing by the §3 memory map. Echo RAM
// writes alias work RAM at addr-0x2000.
func (b *Bus) Write(addr uint16, data byte) error {
	switch {
	case addr <= 0x7fff:
		b.ROM[addr] = data
	case addr <= 0x9fff:
		return b.PPU.WriteVRAM(addr, data)
	case addr <= 0xbfff:
		b.EXT[addr-0xa000] = data
	case addr <= 0xdfff:
		b.WRK[addr-0xc000] = data
	case addr <= 0xfdff:
		b.WRK[addr-0x2000-0xc000] = data
	case addr <= 0xfe9f:
		return b.PPU.WriteOAM(addr, data)
	case addr <= 0xfeff:
		return OutOfRangeAddress{addr}
	case addr <= 0xff7f:
		if lcdRegister(addr) {
			return b.PPU.WriteRegister(addr, data)
		}
		b.IO[addr-0xff00] = data
	case addr <= 0xfffe:
		b.HRAM[addr-0xff80] = data
	default: // 0xffff
		b.IE = data
	}
	return nil
}

// LoadROM writes up to 32 KiB of program data into the ROM region,
// starting at 0x0000, per spec §6's load_rom operation.
func (b *Bus) LoadROM(program []byte) {
	n := copy(b.ROM[:], program)
	for i := n; i < len(b.ROM); i++ {
		b.ROM[i] = 0
	}
}

// Reset zeroes every region except ROM, per spec §6's reset operation,
// and resets the PPU.
func (b *Bus) Reset() {
	b.EXT = [0x2000]byte{}
	b.WRK = [0x2000]byte{}
	b.IO = [0x0080]byte{}
	b.HRAM = [0x007f]byte{}
	b.IE = 0
	b.PPU.Reset()
}
