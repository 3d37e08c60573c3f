package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// model is the bubbletea model backing Debug: a single-step TUI that
// shows the memory around PC, the register file, and the PPU's current
// mode, advancing one instruction per keypress.
type model struct {
	cpu *Cpu

	prevPC  uint16
	cycles  int
	lastOp  string
	error   error
	stopped bool
}

// Init loads nothing further: the Cpu is expected to already have a ROM
// loaded and Reset called on it before Debug starts.
func (m model) Init() tea.Cmd { return nil }

// Update advances the Cpu by one instruction on space or "j", quits on
// "q", and stops stepping once Step returns an error so the view can
// keep showing the failure. HALT is not an error: a halted Cpu keeps
// stepping, four cycles per keypress.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "j":
			if m.stopped {
				return m, nil
			}
			m.prevPC = m.cpu.Reg.PC
			pc := m.cpu.Reg.PC
			op := m.opcodeAt(pc)
			cycles, err := m.cpu.Step()
			m.lastOp = op
			m.cycles = cycles
			if err != nil {
				m.error = err
				m.stopped = true
				return m, nil
			}
			m.cpu.Bus.PPU.Step(cycles)
		}
	}
	return m, nil
}

func (m model) opcodeAt(pc uint16) string {
	b, err := m.cpu.Bus.Read(pc)
	if err != nil {
		return "?"
	}
	if b == 0xcb {
		b1, err := m.cpu.Bus.Read(pc + 1)
		if err != nil {
			return "CB ?"
		}
		return PrefixedOpcodes[b1].Name
	}
	return BaseOpcodes[b].Name
}

// renderPage renders 16 bytes of memory starting at a 16-byte-aligned
// address as one line, highlighting PC if it falls within this row.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b, err := m.cpu.Bus.Read(start + i)
		if err != nil {
			s += " ??  "
			continue
		}
		if start+i == m.cpu.Reg.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	base := m.cpu.Reg.PC &^ 0x0f
	lines := []string{header}
	for i := -2; i <= 2; i++ {
		row := int32(base) + int32(i)*16
		if row < 0 || row > 0xffff {
			continue
		}
		lines = append(lines, m.renderPage(uint16(row)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	r := &m.cpu.Reg
	flagRow := "Z N H C"
	var bits strings.Builder
	for _, set := range []bool{r.Zero(), r.Subtract(), r.HalfCarry(), r.Carry()} {
		if set {
			bits.WriteString("1 ")
		} else {
			bits.WriteString("0 ")
		}
	}

	errLine := ""
	if m.error != nil {
		errLine = fmt.Sprintf("\nerror: %v", m.error)
	}

	return fmt.Sprintf(`
PC: %04x (was %04x)
SP: %04x
A:%02x F:%02x  B:%02x C:%02x  D:%02x E:%02x  H:%02x L:%02x
%s
%s
IME:%v  HALT:%v
last: %s (%d cycles)
PPU: %s LY=%d
%s`,
		r.PC, m.prevPC,
		r.SP,
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L,
		flagRow, bits.String(),
		m.cpu.IME, m.cpu.Halted,
		m.lastOp, m.cycles,
		m.cpu.Bus.PPU.Mode, m.cpu.Bus.PPU.LY,
		errLine,
	)
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(m.cpu.Reg),
	)
}

// Debug starts an interactive single-step TUI over a Cpu whose Bus
// already has a ROM loaded. Press space or "j" to execute one
// instruction, "q" to quit.
func (c *Cpu) Debug() {
	m, err := tea.NewProgram(model{cpu: c}).Run()
	if err != nil {
		panic(err)
	}
	x := m.(model)
	if x.error != nil {
		fmt.Println("Error:", x.error)
	}
}
