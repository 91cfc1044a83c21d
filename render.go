package kilox

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// cell is one screen column of a rendered row.
type cell struct {
	ch       byte
	color    Color
	nonprint bool
	match    bool
}

// renderCol converts a byte column of row into a screen column.
func renderCol(row string, col, tabStop int) int {
	rx := 0
	for i := 0; i < col && i < len(row); i++ {
		if row[i] == '\t' {
			rx += tabStop - rx%tabStop
		} else {
			rx++
		}
	}
	return rx
}

// renderRow expands tabs and marks control bytes. colors may be nil.
// m, if not nil, marks a byte span to paint as a search match.
func renderRow(row string, colors []Color, tabStop int, m *match) []cell {
	cells := make([]cell, 0, len(row))
	for i := 0; i < len(row); i++ {
		c := cell{ch: row[i]}
		if colors != nil && i < len(colors) {
			c.color = colors[i]
		}
		if m != nil && i >= m.col && i < m.col+m.length {
			c.match = true
		}
		if row[i] == '\t' {
			c.ch = ' '
			cells = append(cells, c)
			for len(cells)%tabStop != 0 {
				cells = append(cells, c)
			}
			continue
		}
		if row[i] < 32 || row[i] == 127 {
			c.nonprint = true
		}
		cells = append(cells, c)
	}
	return cells
}

func (e *Editor) refreshScreen() {
	e.Scroll()
	var ab bytes.Buffer

	ab.WriteString("\x1b[?25l") // Hide cursor
	ab.WriteString("\x1b[H")    // Go home

	e.drawRows(&ab)
	e.drawStatusBar(&ab)
	e.drawMessageBar(&ab)

	rx := renderCol(e.buf.Row(e.cur.Row), e.cur.Col, e.cfg.TabStop)
	fmt.Fprintf(&ab, "\x1b[%d;%dH", e.cur.Row-e.view.RowOffset+1, rx-e.view.ColOffset+1)
	ab.WriteString("\x1b[?25h") // Show cursor
	if _, err := e.term.Write(ab.Bytes()); err != nil {
		e.log.Printf("refresh: %v", err)
	}
}

func (e *Editor) drawRows(ab *bytes.Buffer) {
	var colors [][]Color
	if e.hl != nil {
		colors = e.hl.Colors(e.buf)
	}
	empty := e.filename == "" && e.buf.Len() == 1 && e.buf.RowLen(0) == 0

	for y := 0; y < e.view.Rows; y++ {
		filerow := e.view.RowOffset + y
		if filerow >= e.buf.Len() {
			if empty && y == e.view.Rows/3 {
				e.drawWelcome(ab)
			} else {
				ab.WriteByte('~')
			}
			ab.WriteString("\x1b[K\r\n")
			continue
		}

		var rowColors []Color
		if colors != nil && filerow < len(colors) {
			rowColors = colors[filerow]
		}
		var m *match
		if e.match != nil && e.match.row == filerow {
			m = e.match
		}
		cells := renderRow(e.buf.Row(filerow), rowColors, e.cfg.TabStop, m)
		start := min(e.view.ColOffset, len(cells))
		end := min(e.view.ColOffset+e.view.Cols, len(cells))

		current := Color{}
		for _, c := range cells[start:end] {
			switch {
			case c.nonprint:
				ab.WriteString("\x1b[7m")
				if c.ch <= 26 {
					ab.WriteByte('@' + c.ch)
				} else {
					ab.WriteByte('?')
				}
				ab.WriteString("\x1b[m")
				if current.Set {
					ab.WriteString(current.sgr())
				}
			case c.match:
				ab.WriteString("\x1b[7m")
				ab.WriteByte(c.ch)
				ab.WriteString("\x1b[m")
				if current.Set {
					ab.WriteString(current.sgr())
				}
			default:
				if c.color != current {
					ab.WriteString(c.color.sgr())
					current = c.color
				}
				ab.WriteByte(c.ch)
			}
		}
		if current.Set {
			ab.WriteString("\x1b[39m")
		}
		ab.WriteString("\x1b[K\r\n")
	}
}

func (e *Editor) drawWelcome(ab *bytes.Buffer) {
	welcome := runewidth.Truncate(fmt.Sprintf("kilox editor -- version %s", Version), e.view.Cols, "")
	padding := (e.view.Cols - runewidth.StringWidth(welcome)) / 2
	if padding > 0 {
		ab.WriteByte('~')
		padding--
	}
	for ; padding > 0; padding-- {
		ab.WriteByte(' ')
	}
	ab.WriteString(welcome)
}

func (e *Editor) drawStatusBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[7m")
	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	name = runewidth.Truncate(name, 20, "")
	modified := ""
	if e.buf.Dirty() {
		modified = " (modified)"
	}
	lang := ""
	if e.hl != nil && e.hl.Language() != "" {
		lang = e.hl.Language() + " | "
	}
	status := runewidth.Truncate(fmt.Sprintf("%s - %d lines%s", name, e.buf.Len(), modified), e.view.Cols, "")
	rstatus := fmt.Sprintf("%s%d/%d:%d", lang, e.cur.Row+1, e.buf.Len(), e.cur.Col+1)

	ab.WriteString(status)
	width := runewidth.StringWidth(status)
	rwidth := runewidth.StringWidth(rstatus)
	for width < e.view.Cols {
		if e.view.Cols-width == rwidth {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
		width++
	}
	ab.WriteString("\x1b[m\r\n")
}

func (e *Editor) drawMessageBar(ab *bytes.Buffer) {
	ab.WriteString("\x1b[K")
	if e.statusmsg != "" && time.Since(e.statustime) < e.cfg.StatusTimeout {
		ab.WriteString(runewidth.Truncate(e.statusmsg, e.view.Cols, ""))
	}
}
