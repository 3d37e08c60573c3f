// Package ppu implements the pixel-processing unit: video RAM, sprite
// attribute memory, the LCD control/status registers, and the four-mode
// scanline state machine that the Cpu drives by handing over machine
// cycles after every executed instruction.
package ppu

import "fmt"

// A Mode is one of the four PPU states the scanline clock cycles through.
type Mode int

const (
	OAMScan Mode = iota
	Drawing
	HBlank
	VBlank
)

func (m Mode) String() string {
	switch m {
	case OAMScan:
		return "OAMScan"
	case Drawing:
		return "Drawing"
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	default:
		return "Unknown"
	}
}

// Cycle budgets, in machine cycles, for each mode (spec §4.2).
const (
	budgetOAMScan = 80
	budgetDrawing = 172
	budgetHBlank  = 204
	budgetVBlank  = 456 // per line

	ScreenWidth  = 160
	ScreenHeight = 144

	visibleScanlines = 144
	lastScanline     = 153
)

// Shades a two-bit color index maps to.
const (
	White Shade = iota
	LightGrey
	DarkGrey
	Black
)

// A Shade is one of the four colors the original hardware's monochrome
// LCD can display.
type Shade int

// OutOfRangeAddress is returned when an address outside the PPU's owned
// ranges (VRAM, OAM, or its registers) is read or written.
type OutOfRangeAddress struct {
	Addr uint16
}

func (e OutOfRangeAddress) Error() string {
	return fmt.Sprintf("ppu: address out of range: %#04x", e.Addr)
}

// PPU owns video RAM, sprite attribute memory, the LCD registers, and the
// scanline mode clock. It produces a 160x144 framebuffer of two-bit color
// indices, observable by the host at any instruction boundary.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0x00a0]byte // 0xFE00-0xFE9F

	Mode   Mode
	Cycles int32 // accumulator; always < the current mode's budget after Step
	LY     byte

	LCDC byte // 0xFF40 LCD control
	STAT byte // 0xFF41 LCD status
	SCY  byte // 0xFF42 scroll Y
	SCX  byte // 0xFF43 scroll X
	LYC  byte // 0xFF45 LY compare
	BGP  byte // 0xFF47 background palette
	OBP0 byte // 0xFF48 object palette 0
	OBP1 byte // 0xFF49 object palette 1
	WY   byte // 0xFF4A window Y
	WX   byte // 0xFF4B window X

	Framebuffer [ScreenWidth * ScreenHeight]byte
}

// New returns a PPU with all state zeroed, mode OAMScan, per spec §3
// ("all regions are zero-initialized").
func New() *PPU {
	return &PPU{Mode: OAMScan}
}

// Reset zeroes VRAM, OAM, registers, and the framebuffer, and returns the
// mode clock to its power-up state.
func (p *PPU) Reset() {
	*p = PPU{Mode: OAMScan}
}

// ReadVRAM reads one byte from video RAM.
func (p *PPU) ReadVRAM(addr uint16) (byte, error) {
	if addr < 0x8000 || addr > 0x9fff {
		return 0, OutOfRangeAddress{addr}
	}
	return p.vram[addr-0x8000], nil
}

// WriteVRAM writes one byte to video RAM.
func (p *PPU) WriteVRAM(addr uint16, v byte) error {
	if addr < 0x8000 || addr > 0x9fff {
		return OutOfRangeAddress{addr}
	}
	p.vram[addr-0x8000] = v
	return nil
}

// ReadOAM reads one byte from sprite attribute memory.
func (p *PPU) ReadOAM(addr uint16) (byte, error) {
	if addr < 0xfe00 || addr > 0xfe9f {
		return 0, OutOfRangeAddress{addr}
	}
	return p.oam[addr-0xfe00], nil
}

// WriteOAM writes one byte to sprite attribute memory.
func (p *PPU) WriteOAM(addr uint16, v byte) error {
	if addr < 0xfe00 || addr > 0xfe9f {
		return OutOfRangeAddress{addr}
	}
	p.oam[addr-0xfe00] = v
	return nil
}

// ReadRegister reads one of the LCD control/status/scroll/palette
// registers the Bus forwards from its I/O block.
func (p *PPU) ReadRegister(addr uint16) (byte, error) {
	switch addr {
	case 0xff40:
		return p.LCDC, nil
	case 0xff41:
		return p.STAT, nil
	case 0xff42:
		return p.SCY, nil
	case 0xff43:
		return p.SCX, nil
	case 0xff44:
		return p.LY, nil
	case 0xff45:
		return p.LYC, nil
	case 0xff47:
		return p.BGP, nil
	case 0xff48:
		return p.OBP0, nil
	case 0xff49:
		return p.OBP1, nil
	case 0xff4a:
		return p.WY, nil
	case 0xff4b:
		return p.WX, nil
	default:
		return 0, OutOfRangeAddress{addr}
	}
}

// WriteRegister writes one of the LCD registers. Writes to LY (0xFF44)
// are ignored; it is a read-only scanline counter owned by the mode
// state machine.
func (p *PPU) WriteRegister(addr uint16, v byte) error {
	switch addr {
	case 0xff40:
		p.LCDC = v
	case 0xff41:
		p.STAT = v
	case 0xff42:
		p.SCY = v
	case 0xff43:
		p.SCX = v
	case 0xff44:
		// LY is read-only
	case 0xff45:
		p.LYC = v
	case 0xff47:
		p.BGP = v
	case 0xff48:
		p.OBP0 = v
	case 0xff49:
		p.OBP1 = v
	case 0xff4a:
		p.WY = v
	case 0xff4b:
		p.WX = v
	default:
		return OutOfRangeAddress{addr}
	}
	return nil
}

// Step advances the mode clock by cycles machine cycles, applying zero or
// more mode transitions per spec §4.2's table. The accumulator is always
// strictly less than the current mode's budget once Step returns.
func (p *PPU) Step(cycles int) {
	p.Cycles += int32(cycles)

	for {
		switch p.Mode {
		case OAMScan:
			if p.Cycles < budgetOAMScan {
				return
			}
			p.Cycles -= budgetOAMScan
			p.Mode = Drawing

		case Drawing:
			if p.Cycles < budgetDrawing {
				return
			}
			p.Cycles -= budgetDrawing
			p.Mode = HBlank
			p.renderScanline()

		case HBlank:
			if p.Cycles < budgetHBlank {
				return
			}
			p.Cycles -= budgetHBlank
			p.LY++
			if p.LY == visibleScanlines {
				p.Mode = VBlank
			} else {
				p.Mode = OAMScan
			}

		case VBlank:
			if p.Cycles < budgetVBlank {
				return
			}
			p.Cycles -= budgetVBlank
			p.LY++
			if p.LY > lastScanline {
				p.Mode = OAMScan
				p.LY = 0
			}
		}
	}
}

// renderScanline writes one row of the background layer into the
// framebuffer from tile data, using the BG tile map at 0x9800 and the
// current scroll registers; LCDC's tile-map select bit is not consulted. It is the minimal renderer this spec
// requires: window and sprite compositing are out of scope (spec §1).
func (p *PPU) renderScanline() {
	if p.LY >= ScreenHeight {
		return
	}

	const tileMapBase = 0x9800 // bit 3 of LCDC would select 0x9C00; not modeled (non-goal: full LCDC decode)
	const tileDataBase = 0x8000

	y := int(p.LY) + int(p.SCY)
	tileRow := (y / 8) % 32
	rowInTile := y % 8

	for x := 0; x < ScreenWidth; x++ {
		col := (x + int(p.SCX)) / 8 % 32
		colInTile := (x + int(p.SCX)) % 8

		mapAddr := tileMapBase + tileRow*32 + col
		tileIndex := p.vram[mapAddr-0x8000]

		tileAddr := tileDataBase + int(tileIndex)*16 + rowInTile*2
		lo := p.vram[tileAddr-0x8000]
		hi := p.vram[tileAddr+1-0x8000]

		color := TileRowPixel(lo, hi, colInTile)
		p.Framebuffer[int(p.LY)*ScreenWidth+x] = color
	}
}

// TileRowPixel decodes the two-bit color index of column c (0-7) from one
// row of tile data, given the low and high bitplane bytes of that row, per
// spec §4.2's tile decoding rule.
func TileRowPixel(lo, hi byte, c int) byte {
	shift := uint(7 - c)
	return ((hi>>shift)&1)<<1 | ((lo >> shift) & 1)
}

// ShadeOf maps a two-bit color index (as produced by TileRowPixel) to one
// of the four displayable shades.
func ShadeOf(colorIndex byte) Shade {
	return Shade(colorIndex & 0x03)
}
