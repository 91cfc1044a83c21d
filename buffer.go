package kilox

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ErrPosition is returned when an edit targets a row or column that does not exist.
var ErrPosition = errors.New("position out of range")

// Buffer is the ordered sequence of rows making up a document.
// It always holds at least one row.
type Buffer struct {
	rows     []string
	dirty    bool
	revision int
}

// NewBuffer returns a buffer with a single empty row.
func NewBuffer() *Buffer {
	return &Buffer{rows: []string{""}}
}

// Load replaces the contents of the buffer and marks it clean.
// Loading zero lines leaves one empty row.
func (b *Buffer) Load(lines []string) {
	b.rows = append(make([]string, 0, len(lines)), lines...)
	if len(b.rows) == 0 {
		b.rows = append(b.rows, "")
	}
	b.dirty = false
	b.revision++
}

// Len returns the number of rows.
func (b *Buffer) Len() int {
	return len(b.rows)
}

// Row returns the text of row i, or "" if i is out of range.
func (b *Buffer) Row(i int) string {
	if i < 0 || i >= len(b.rows) {
		return ""
	}
	return b.rows[i]
}

// RowLen returns the length in bytes of row i.
func (b *Buffer) RowLen(i int) int {
	return len(b.Row(i))
}

// Lines returns a copy of all rows.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.rows...)
}

// Dirty reports whether the buffer differs from what was last saved or loaded.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// MarkClean clears the dirty flag.
func (b *Buffer) MarkClean() {
	b.dirty = false
}

// Revision is bumped on every change to the rows.
func (b *Buffer) Revision() int {
	return b.revision
}

func (b *Buffer) touch() {
	b.dirty = true
	b.revision++
}

func (b *Buffer) insertRow(at int, s string) {
	b.rows = append(b.rows, "")
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = s
}

func (b *Buffer) delRow(at int) {
	b.rows = append(b.rows[:at], b.rows[at+1:]...)
}

// InsertChar inserts c into row at col, shifting the rest of the row right.
// A row equal to Len appends a new empty row first.
func (b *Buffer) InsertChar(row, col int, c byte) error {
	if row < 0 || row > len(b.rows) {
		return fmt.Errorf("insert at row %d: %w", row, ErrPosition)
	}
	if row == len(b.rows) {
		if col != 0 {
			return fmt.Errorf("insert at %d:%d: %w", row, col, ErrPosition)
		}
		b.insertRow(row, "")
	}
	s := b.rows[row]
	if col < 0 || col > len(s) {
		return fmt.Errorf("insert at %d:%d: %w", row, col, ErrPosition)
	}
	b.rows[row] = s[:col] + string([]byte{c}) + s[col:]
	b.touch()
	return nil
}

// DeleteCharBefore removes the byte to the left of col.
// It does nothing at column 0 and reports whether a byte was removed.
func (b *Buffer) DeleteCharBefore(row, col int) bool {
	if row < 0 || row >= len(b.rows) {
		return false
	}
	s := b.rows[row]
	if col <= 0 || col > len(s) {
		return false
	}
	b.rows[row] = s[:col-1] + s[col:]
	b.touch()
	return true
}

// JoinWithPrevious appends row to the row above it and removes row.
// It returns the column in the merged row where the joined text starts.
func (b *Buffer) JoinWithPrevious(row int) (int, bool) {
	if row <= 0 || row >= len(b.rows) {
		return 0, false
	}
	col := len(b.rows[row-1])
	b.rows[row-1] += b.rows[row]
	b.delRow(row)
	b.touch()
	return col, true
}

// SplitLine truncates row at col and inserts the remainder as a new row below it.
func (b *Buffer) SplitLine(row, col int) error {
	if row < 0 || row >= len(b.rows) {
		return fmt.Errorf("split at row %d: %w", row, ErrPosition)
	}
	s := b.rows[row]
	if col < 0 || col > len(s) {
		return fmt.Errorf("split at %d:%d: %w", row, col, ErrPosition)
	}
	b.rows[row] = s[:col]
	b.insertRow(row+1, s[col:])
	b.touch()
	return nil
}

// InsertString inserts s into row at col. It is used to lay down
// indentation in one step after a split.
func (b *Buffer) InsertString(row, col int, s string) error {
	if row < 0 || row >= len(b.rows) {
		return fmt.Errorf("insert at row %d: %w", row, ErrPosition)
	}
	r := b.rows[row]
	if col < 0 || col > len(r) {
		return fmt.Errorf("insert at %d:%d: %w", row, col, ErrPosition)
	}
	if s == "" {
		return nil
	}
	b.rows[row] = r[:col] + s + r[col:]
	b.touch()
	return nil
}

// ReplaceAt replaces the n bytes at row, col with s.
func (b *Buffer) ReplaceAt(row, col, n int, s string) error {
	if row < 0 || row >= len(b.rows) {
		return fmt.Errorf("replace at row %d: %w", row, ErrPosition)
	}
	r := b.rows[row]
	if col < 0 || n < 0 || col+n > len(r) {
		return fmt.Errorf("replace at %d:%d+%d: %w", row, col, n, ErrPosition)
	}
	b.rows[row] = r[:col] + s + r[col+n:]
	b.touch()
	return nil
}

// ReplaceAll replaces every non-overlapping occurrence of old, scanning each
// row from its start, and returns how many were replaced.
func (b *Buffer) ReplaceAll(old, s string) int {
	if old == "" {
		return 0
	}
	count := 0
	for i, row := range b.rows {
		if n := strings.Count(row, old); n > 0 {
			b.rows[i] = strings.ReplaceAll(row, old, s)
			count += n
		}
	}
	if count > 0 {
		b.touch()
	}
	return count
}

// Snapshot returns a copy of the rows that later edits cannot change.
func (b *Buffer) Snapshot() []string {
	return b.Lines()
}

// Restore installs a previously taken snapshot. Unlike Load it marks the
// buffer dirty, since the result is an edit relative to the file on disk.
func (b *Buffer) Restore(lines []string) {
	b.rows = append(make([]string, 0, len(lines)), lines...)
	if len(b.rows) == 0 {
		b.rows = append(b.rows, "")
	}
	b.touch()
}

// Serialize yields every row followed by a newline.
func (b *Buffer) Serialize() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, row := range b.rows {
			if !yield(row + "\n") {
				return
			}
		}
	}
}

// WriteTo writes the serialized buffer to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for line := range b.Serialize() {
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the serialized buffer.
func (b *Buffer) String() string {
	var sb strings.Builder
	b.WriteTo(&sb)
	return sb.String()
}

// Stats describes the size of a document.
type Stats struct {
	Lines int
	Words int
	Chars int
}

// Stats counts rows, words and characters. A word is a run of ASCII letters
// and digits ended by whitespace or a row end; other punctuation neither
// extends nor ends a word.
func (b *Buffer) Stats() Stats {
	st := Stats{Lines: len(b.rows)}
	for i, row := range b.rows {
		st.Chars += len(row)
		if i > 0 {
			st.Chars++ // newline between rows
		}
		inWord := false
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case isAlnum(c):
				inWord = true
			case c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r':
				if inWord {
					st.Words++
					inWord = false
				}
			}
		}
		if inWord {
			st.Words++
		}
	}
	return st
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}
