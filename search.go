package kilox

import "strings"

// Find looks for query starting just after from and wrapping around the
// document once. The row under the cursor is searched past the cursor
// first and again from its start at the very end, so a single match is
// found from any starting point.
func (b *Buffer) Find(query string, from Cursor) (Cursor, bool) {
	if query == "" {
		return from, false
	}
	from = from.Clamp(b)
	n := len(b.rows)

	row := b.rows[from.Row]
	if start := from.Col + 1; start <= len(row) {
		if i := strings.Index(row[start:], query); i >= 0 {
			return Cursor{Row: from.Row, Col: start + i}, true
		}
	}
	for i := 1; i < n; i++ {
		r := (from.Row + i) % n
		if j := strings.Index(b.rows[r], query); j >= 0 {
			return Cursor{Row: r, Col: j}, true
		}
	}
	// Back on the starting row, up to and including the cursor.
	limit := from.Col + len(query)
	if limit > len(row) {
		limit = len(row)
	}
	if j := strings.Index(row[:limit], query); j >= 0 && j <= from.Col {
		return Cursor{Row: from.Row, Col: j}, true
	}
	return from, false
}

// match is the span of the last search hit, painted until the next key.
type match struct {
	row, col, length int
}

// Search runs query from the cursor. On a hit the cursor moves to the match
// and the matching row is scrolled to the top of the screen.
func (e *Editor) Search(query string) bool {
	pos, ok := e.buf.Find(query, e.cur)
	if !ok {
		e.SetStatusMessage("No matches found for %q", query)
		return false
	}
	e.cur = pos
	e.view.RowOffset = pos.Row
	e.match = &match{row: pos.Row, col: pos.Col, length: len(query)}
	return true
}

func (e *Editor) find() {
	query, ok := e.prompt("Search: %s (ESC to cancel, Enter repeats last)")
	if !ok {
		e.SetStatusMessage("")
		return
	}
	if query == "" {
		query = e.lastQuery
	}
	if query == "" {
		return
	}
	e.lastQuery = query
	if e.Search(query) {
		e.SetStatusMessage("")
	}
}

// Replace replaces the match of what at or after the cursor with with and
// leaves the cursor just past the replacement.
func (e *Editor) Replace(what, with string) bool {
	if what == "" {
		return false
	}
	pos := e.cur
	if !strings.HasPrefix(e.buf.Row(pos.Row)[pos.Col:], what) {
		var ok bool
		if pos, ok = e.buf.Find(what, e.cur); !ok {
			e.SetStatusMessage("No results found.")
			return false
		}
	}
	before := e.snapshot()
	if err := e.buf.ReplaceAt(pos.Row, pos.Col, len(what), with); err != nil {
		e.log.Printf("replace: %v", err)
		return false
	}
	e.hist.Record(before)
	e.cur = Cursor{Row: pos.Row, Col: pos.Col + len(with)}
	return true
}

// ReplaceAll replaces every match of what in the document as a single undo
// step and returns the number of replacements.
func (e *Editor) ReplaceAll(what, with string) int {
	before := e.snapshot()
	n := e.buf.ReplaceAll(what, with)
	if n == 0 {
		e.SetStatusMessage("No results found.")
		return 0
	}
	e.hist.Record(before)
	e.cur = e.cur.Clamp(e.buf)
	e.SetStatusMessage("Document searched. Replaced %d instances.", n)
	return n
}

func (e *Editor) replace() {
	what, ok := e.prompt("Replace: %s (ESC to cancel)")
	if !ok || what == "" {
		e.SetStatusMessage("")
		return
	}
	with, ok := e.prompt("Replace " + strings.ReplaceAll(what, "%", "%%") + " with: %s (ESC to cancel)")
	if !ok {
		e.SetStatusMessage("")
		return
	}
	all, ok := e.prompt("Replace all? (y/N) %s")
	if !ok {
		e.SetStatusMessage("Replace aborted")
		return
	}
	e.lastQuery = what
	if all == "y" || all == "Y" {
		e.ReplaceAll(what, with)
		return
	}
	if e.Replace(what, with) {
		e.SetStatusMessage("")
	}
}
