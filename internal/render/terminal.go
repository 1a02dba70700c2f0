package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"FolioPull/internal/domain/models"

	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

// terminal columns: index into Columns plus display width.
var terminalColumns = []struct {
	title string
	col   int
	width int
}{
	{"Stock", 0, 8},
	{"Shares", 1, 8},
	{"Current", 2, 12},
	{"Daily $", 3, 12},
	{"Daily %", 4, 12},
	{"Value", 5, 12},
	{"Gain/Loss", 6, 12},
	{"YTD %", 8, 10},
}

// TerminalSink prints each cycle as a colored table.
type TerminalSink struct {
	w     io.Writer
	clear bool

	title    lipgloss.Style
	header   lipgloss.Style
	updated  lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	dim      lipgloss.Style
	warn     lipgloss.Style
}

// NewTerminalSink writes to w. Colors follow w's terminal capabilities, so a
// plain buffer or pipe gets no escape codes. clear redraws from the top of
// the screen on every cycle.
func NewTerminalSink(w io.Writer, clear bool) *TerminalSink {
	r := lipgloss.NewRenderer(w)
	return &TerminalSink{
		w:        w,
		clear:    clear,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		header:   r.NewStyle().Foreground(lipgloss.Color("86")),
		updated:  r.NewStyle().Foreground(lipgloss.Color("214")),
		positive: r.NewStyle().Foreground(lipgloss.Color("46")),
		negative: r.NewStyle().Foreground(lipgloss.Color("196")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("241")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (t *TerminalSink) Name() string { return "terminal" }

func (t *TerminalSink) Publish(_ context.Context, c *models.Cycle) error {
	_, err := io.WriteString(t.w, t.Render(c))
	return err
}

// Render returns the full screen for c.
func (t *TerminalSink) Render(c *models.Cycle) string {
	r := BuildReport(c)
	var b strings.Builder

	if t.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString("\n" + t.title.Render("Portfolio Performance Tracker") + "\n")
	b.WriteString(t.title.Render(strings.Repeat("=", 29)) + "\n")
	b.WriteString(t.updated.Render("Last Updated: "+r.Updated) + "\n\n")

	if r.Empty {
		b.WriteString(t.warn.Render("No data this cycle: no holding could be evaluated") + "\n")
		t.writeOmissions(&b, r.Omissions)
		return b.String()
	}

	var head strings.Builder
	for _, col := range terminalColumns {
		head.WriteString(pad(col.title, col.width))
	}
	b.WriteString(t.header.Render(strings.TrimRight(head.String(), " ")) + "\n")
	b.WriteString(t.header.Render(strings.Repeat("-", 100)) + "\n")

	for _, row := range r.Rows {
		var line strings.Builder
		for _, col := range terminalColumns {
			line.WriteString(t.cell(row[col.col], col.width))
		}
		b.WriteString(strings.TrimRight(line.String(), " ") + "\n")
	}

	b.WriteString("\n" + t.header.Render("Total Portfolio Summary") + "\n")
	b.WriteString(t.header.Render(strings.Repeat("-", 100)) + "\n")
	for _, l := range r.Summary {
		line := pad(l.Label, 20) + t.paint(l.Value)
		if l.Percent != nil {
			line += " " + t.paint(Cell{Text: "(" + l.Percent.Text + ")", Sign: l.Percent.Sign})
		}
		b.WriteString(line + "\n")
	}

	t.writeOmissions(&b, r.Omissions)
	return b.String()
}

func (t *TerminalSink) writeOmissions(b *strings.Builder, oms []models.OmissionError) {
	if len(oms) == 0 {
		return
	}
	b.WriteString("\n")
	for _, o := range oms {
		b.WriteString(t.dim.Render(fmt.Sprintf("skipped %s: %s", o.Ticker, o.Reason)) + "\n")
	}
}

func (t *TerminalSink) cell(c Cell, width int) string {
	return t.paint(Cell{Text: pad(c.Text, width), Sign: c.Sign})
}

func (t *TerminalSink) paint(c Cell) string {
	switch c.Sign {
	case Positive:
		return t.positive.Render(c.Text)
	case Negative:
		return t.negative.Render(c.Text)
	default:
		return c.Text
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
