package kilox

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrNoFilename is returned by Save when the buffer has no file yet.
var ErrNoFilename = errors.New("no filename")

// readLines reads filename and splits it into rows. A trailing newline does
// not produce an extra empty row and carriage returns before newlines are
// dropped.
func readLines(filename string) ([]string, []byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, data, nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines, data, nil
}

// Open associates the editor with filename and loads it. Failing to read
// the file is not an error for the caller: the buffer is left with a single
// empty row and the problem is reported in the status bar.
func (e *Editor) Open(filename string) {
	e.filename = filename
	e.cur = Cursor{}
	e.view.RowOffset, e.view.ColOffset = 0, 0
	e.hist.Clear()
	e.match = nil

	lines, data, err := readLines(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.buf.Load(nil)
		e.SetStatusMessage("New file: %s", filename)
		e.log.Printf("open %s: new file", filename)
	case err != nil:
		e.buf.Load(nil)
		e.SetStatusMessage("Can't open %s: %v", filename, err)
		e.log.Printf("open %s: %v", filename, err)
	default:
		e.buf.Load(lines)
		e.log.Printf("open %s: %d lines", filename, e.buf.Len())
	}
	if e.hl != nil {
		e.hl.Select(filename, data)
	}
}

// Save writes the buffer to its file and clears the dirty flag.
// On failure the dirty flag is kept and the error is shown in the status bar.
func (e *Editor) Save() error {
	if e.filename == "" {
		return ErrNoFilename
	}
	var out bytes.Buffer
	e.buf.WriteTo(&out)
	if err := os.WriteFile(e.filename, out.Bytes(), 0o644); err != nil {
		e.SetStatusMessage("Can't save! I/O error: %s", err)
		e.log.Printf("save %s: %v", e.filename, err)
		return fmt.Errorf("save %s: %w", e.filename, err)
	}
	e.buf.MarkClean()
	e.SetStatusMessage("%d bytes written on disk", out.Len())
	e.log.Printf("save %s: %d bytes", e.filename, out.Len())
	return nil
}

// SaveAs associates the buffer with filename and saves it.
// On failure the previous filename is kept.
func (e *Editor) SaveAs(filename string) error {
	prev := e.filename
	e.filename = filename
	if err := e.Save(); err != nil {
		e.filename = prev
		return err
	}
	if e.hl != nil {
		e.hl.Select(filename, []byte(e.buf.String()))
	}
	return nil
}

func (e *Editor) save() {
	if e.filename != "" {
		e.Save()
		return
	}
	name, ok := e.prompt("Save as: %s (ESC to cancel)")
	if !ok || name == "" {
		e.SetStatusMessage("Save aborted")
		return
	}
	e.SaveAs(name)
}
