// Package kilox is a small kilo-style terminal text editor. It talks to the
// terminal with VT100 escape sequences only, keeps the document as a slice
// of rows, and supports whole-document undo/redo and wrap-around search.
package kilox

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"
)

const Version = "0.1.0"

const helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find | Ctrl-R = replace | Ctrl-Z/Ctrl-Y = undo/redo"

// State is the state of the main loop.
type State int

const (
	Running State = iota
	Exiting
)

// Editor holds the complete state of the editor.
type Editor struct {
	cfg  Config
	term Terminal
	log  *log.Logger

	buf  *Buffer
	cur  Cursor
	view Viewport
	hist History
	hl   *Highlighter

	filename   string
	statusmsg  string
	statustime time.Time
	state      State
	quitTimes  int
	lastQuery  string
	match      *match
}

// New creates an editor drawing on t, sized to the terminal.
// Two screen rows are kept for the status and message bars.
func New(cfg Config, t Terminal) (*Editor, error) {
	rows, cols, err := t.Size()
	if err != nil {
		return nil, err
	}
	if rows < 3 || cols < 1 {
		return nil, fmt.Errorf("terminal too small: %dx%d", cols, rows)
	}
	if cfg.TabStop < 1 {
		cfg.TabStop = 1
	}
	e := &Editor{
		cfg:       cfg,
		term:      t,
		log:       log.New(io.Discard, "", 0),
		buf:       NewBuffer(),
		view:      Viewport{Rows: rows - 2, Cols: cols},
		quitTimes: cfg.QuitTimes,
	}
	if cfg.Highlight {
		e.hl = NewHighlighter(cfg.Style)
	}
	return e, nil
}

// SetLogger directs diagnostic output to l.
func (e *Editor) SetLogger(l *log.Logger) {
	if l != nil {
		e.log = l
	}
}

// Buffer returns the document.
func (e *Editor) Buffer() *Buffer { return e.buf }

// Cursor returns the cursor position in buffer coordinates.
func (e *Editor) Cursor() Cursor { return e.cur }

// SetCursor moves the cursor, clamped to the buffer.
func (e *Editor) SetCursor(c Cursor) { e.cur = c.Clamp(e.buf) }

// Viewport returns the current scroll window.
func (e *Editor) Viewport() Viewport { return e.view }

// Filename returns the file the buffer is associated with.
func (e *Editor) Filename() string { return e.filename }

// State returns the state of the main loop.
func (e *Editor) State() State { return e.state }

// StatusMessage returns the current status message.
func (e *Editor) StatusMessage() string { return e.statusmsg }

// SetStatusMessage sets the editor status message.
func (e *Editor) SetStatusMessage(format string, args ...any) {
	e.statusmsg = fmt.Sprintf(format, args...)
	e.statustime = time.Now()
}

// Scroll brings the cursor into view.
func (e *Editor) Scroll() {
	rx := renderCol(e.buf.Row(e.cur.Row), e.cur.Col, e.cfg.TabStop)
	e.view = e.view.Scroll(e.cur.Row, rx)
}

// Run is the main editor loop. It redraws, reads one key and dispatches it
// until the quit command is given or input ends. The caller owns the
// terminal mode and restores it after Run returns.
func (e *Editor) Run() error {
	e.SetStatusMessage(helpMessage)
	for e.state == Running {
		e.refreshScreen()
		k, err := ReadKey(e.term)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		e.Dispatch(Decode(k))
	}
	e.state = Exiting
	_, err := e.term.Write([]byte("\x1b[2J\x1b[H"))
	return err
}

// Dispatch applies one command to the editor.
func (e *Editor) Dispatch(cmd Command) {
	e.match = nil
	switch cmd.Action {
	case ActionMoveLeft:
		e.cur = e.cur.Move(Left, e.buf)
	case ActionMoveRight:
		e.cur = e.cur.Move(Right, e.buf)
	case ActionMoveUp:
		e.cur = e.cur.Move(Up, e.buf)
	case ActionMoveDown:
		e.cur = e.cur.Move(Down, e.buf)
	case ActionMoveHome:
		e.cur = e.cur.Move(Home, e.buf)
	case ActionMoveEnd:
		e.cur = e.cur.Move(End, e.buf)
	case ActionPageUp, ActionPageDown:
		e.cur = e.view.pageCursor(e.cur, cmd.Action == ActionPageDown, e.buf)
	case ActionInsertChar:
		e.InsertChar(cmd.Char)
	case ActionDeleteBefore:
		e.DeleteBefore()
	case ActionDeleteAt:
		e.DeleteAt()
	case ActionSplit:
		e.Split()
	case ActionSave:
		e.save()
	case ActionQuit:
		if e.buf.Dirty() && e.quitTimes > 0 {
			e.SetStatusMessage("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
			e.quitTimes--
			return
		}
		e.state = Exiting
		return
	case ActionFind:
		e.find()
	case ActionReplace:
		e.replace()
	case ActionUndo:
		e.Undo()
	case ActionRedo:
		e.Redo()
	case ActionGoToLine:
		e.goToLine()
	case ActionStats:
		st := e.buf.Stats()
		e.SetStatusMessage("%d lines, %d words, %d characters", st.Lines, st.Words, st.Chars)
	}
	e.quitTimes = e.cfg.QuitTimes
}

func (e *Editor) snapshot() Snapshot {
	return Snapshot{Lines: e.buf.Snapshot(), Cursor: e.cur}
}

// InsertChar inserts c at the cursor and advances the cursor.
func (e *Editor) InsertChar(c byte) {
	before := e.snapshot()
	if err := e.buf.InsertChar(e.cur.Row, e.cur.Col, c); err != nil {
		e.log.Printf("insert: %v", err)
		return
	}
	e.hist.Record(before)
	e.cur.Col++
}

// DeleteBefore removes the byte left of the cursor. At column 0 it does
// nothing unless JoinLines is set, in which case the row is merged into
// the one above.
func (e *Editor) DeleteBefore() {
	before := e.snapshot()
	if e.cur.Col == 0 {
		if !e.cfg.JoinLines {
			return
		}
		col, ok := e.buf.JoinWithPrevious(e.cur.Row)
		if !ok {
			return
		}
		e.hist.Record(before)
		e.cur = Cursor{Row: e.cur.Row - 1, Col: col}
		return
	}
	if e.buf.DeleteCharBefore(e.cur.Row, e.cur.Col) {
		e.hist.Record(before)
		e.cur.Col--
	}
}

// DeleteAt removes the byte under the cursor. The cursor stays put.
func (e *Editor) DeleteAt() {
	if e.cur.Col >= e.buf.RowLen(e.cur.Row) {
		return
	}
	before := e.snapshot()
	if e.buf.DeleteCharBefore(e.cur.Row, e.cur.Col+1) {
		e.hist.Record(before)
	}
}

// Split breaks the row at the cursor and moves to the start of the new row.
func (e *Editor) Split() {
	before := e.snapshot()
	indent := ""
	if e.cfg.AutoIndent {
		indent = leadingWhitespace(e.buf.Row(e.cur.Row))
		if len(indent) > e.cur.Col {
			indent = indent[:e.cur.Col]
		}
	}
	if err := e.buf.SplitLine(e.cur.Row, e.cur.Col); err != nil {
		e.log.Printf("split: %v", err)
		return
	}
	e.hist.Record(before)
	e.cur = Cursor{Row: e.cur.Row + 1, Col: 0}
	if indent != "" {
		if err := e.buf.InsertString(e.cur.Row, 0, indent); err != nil {
			e.log.Printf("indent: %v", err)
			return
		}
		e.cur.Col = len(indent)
	}
}

// Undo restores the document as it was before the last edit.
func (e *Editor) Undo() bool {
	s, err := e.hist.Undo(e.snapshot())
	if err != nil {
		e.SetStatusMessage("%s", err)
		return false
	}
	e.install(s)
	return true
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	s, err := e.hist.Redo(e.snapshot())
	if err != nil {
		e.SetStatusMessage("%s", err)
		return false
	}
	e.install(s)
	return true
}

func (e *Editor) install(s Snapshot) {
	e.buf.Restore(s.Lines)
	e.cur = s.Cursor.Clamp(e.buf)
}

// GoToLine moves the cursor to the start of the 1-based line n.
func (e *Editor) GoToLine(n int) bool {
	if n < 1 || n > e.buf.Len() {
		e.SetStatusMessage("Invalid line number.")
		return false
	}
	e.cur = Cursor{Row: n - 1}
	return true
}

func (e *Editor) goToLine() {
	s, ok := e.prompt("Go to line: %s (ESC to cancel)")
	if !ok || s == "" {
		e.SetStatusMessage("")
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e.SetStatusMessage("Invalid line number.")
		return
	}
	if e.GoToLine(n) {
		e.SetStatusMessage("")
	}
}

// prompt shows format in the message bar, with %s replaced by the input so
// far, and reads a line. It returns false if the user pressed ESC or input
// ended.
func (e *Editor) prompt(format string) (string, bool) {
	var input []byte
	for {
		e.SetStatusMessage(format, string(input))
		e.refreshScreen()
		k, err := ReadKey(e.term)
		if err != nil {
			return "", false
		}
		switch {
		case k == KeyDelete || k == ctrlH || k == keyBackspace:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case k == KeyEsc:
			return "", false
		case k == keyEnter:
			return string(input), true
		case k >= 32 && k < 127:
			input = append(input, byte(k))
		}
	}
}
