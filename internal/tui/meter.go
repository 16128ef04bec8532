// Package tui renders the terminal surfaces of the interview station.
package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const defaultMeterWidth = 30

var (
	meterLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	meterFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	meterRestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Meter draws a single-line microphone level bar, redrawn in place with a
// carriage return so it never scrolls the terminal.
type Meter struct {
	mu    sync.Mutex
	out   io.Writer
	width int
}

func NewMeter(out io.Writer) *Meter {
	if out == nil {
		out = os.Stderr
	}
	return &Meter{out: out, width: defaultMeterWidth}
}

// Update redraws the bar for a level in [0, 1]. Out-of-range levels are
// clamped.
func (m *Meter) Update(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	filled := int(math.Round(level * float64(m.width)))
	bar := meterFillStyle.Render(strings.Repeat("█", filled)) +
		meterRestStyle.Render(strings.Repeat("░", m.width-filled))

	m.mu.Lock()
	fmt.Fprintf(m.out, "\r%s %s %3.0f%%", meterLabelStyle.Render("mic"), bar, level*100)
	m.mu.Unlock()
}

// Clear erases the meter line so shutdown output starts on a clean line.
func (m *Meter) Clear() {
	m.mu.Lock()
	fmt.Fprintf(m.out, "\r%s\r", strings.Repeat(" ", m.width+10))
	m.mu.Unlock()
}
