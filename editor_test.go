package kilox

import (
	"bytes"
	"math/rand"
	"slices"
	"strings"
	"testing"
)

// fakeTerm is a terminal backed by in-memory buffers.
type fakeTerm struct {
	in         *strings.Reader
	out        bytes.Buffer
	rows, cols int
}

func (f *fakeTerm) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeTerm) Write(p []byte) (int, error) { return f.out.Write(p) }
func (f *fakeTerm) Size() (int, int, error)     { return f.rows, f.cols, nil }

func newTestEditorConfig(t *testing.T, cfg Config, rows, cols int, input string, lines ...string) (*Editor, *fakeTerm) {
	t.Helper()
	ft := &fakeTerm{in: strings.NewReader(input), rows: rows, cols: cols}
	e, err := New(cfg, ft)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if lines != nil {
		e.Buffer().Load(lines)
	}
	return e, ft
}

func newTestEditor(t *testing.T, rows, cols int, input string, lines ...string) *Editor {
	t.Helper()
	e, _ := newTestEditorConfig(t, DefaultConfig(), rows, cols, input, lines...)
	return e
}

func assertLines(t *testing.T, e *Editor, want ...string) {
	t.Helper()
	if got := e.Buffer().Lines(); !slices.Equal(got, want) {
		t.Errorf("buffer = %q, want %q", got, want)
	}
}

func TestNewRejectsTinyTerminal(t *testing.T) {
	if _, err := New(DefaultConfig(), &fakeTerm{rows: 2, cols: 80}); err == nil {
		t.Error("New accepted a two-row terminal")
	}
}

func TestInsertUndoRedo(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "hello world")

	e.Dispatch(Decode('X'))
	assertLines(t, e, "Xhello world")
	if e.Cursor() != (Cursor{0, 1}) {
		t.Errorf("cursor after insert = %v, want 0:1", e.Cursor())
	}

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	assertLines(t, e, "hello world")
	if e.Cursor() != (Cursor{0, 0}) {
		t.Errorf("cursor after undo = %v, want 0:0", e.Cursor())
	}

	if !e.Redo() {
		t.Fatal("redo failed")
	}
	assertLines(t, e, "Xhello world")
	if e.Cursor() != (Cursor{0, 1}) {
		t.Errorf("cursor after redo = %v, want 0:1", e.Cursor())
	}
}

func TestUndoEveryMutation(t *testing.T) {
	tests := []struct {
		name string
		at   Cursor
		cmd  Command
	}{
		{"insert", Cursor{1, 2}, Command{Action: ActionInsertChar, Char: 'z'}},
		{"delete before", Cursor{1, 2}, Command{Action: ActionDeleteBefore}},
		{"delete at", Cursor{1, 0}, Command{Action: ActionDeleteAt}},
		{"split", Cursor{0, 1}, Command{Action: ActionSplit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t, 24, 80, "", "one", "two", "three")
			e.SetCursor(tt.at)
			before := e.Buffer().Lines()
			e.Dispatch(tt.cmd)
			after := e.Buffer().Lines()
			if slices.Equal(before, after) {
				t.Fatal("command did not change the buffer")
			}
			if !e.Buffer().Dirty() {
				t.Error("mutation did not mark the buffer dirty")
			}
			e.Dispatch(Command{Action: ActionUndo})
			assertLines(t, e, before...)
			if e.Cursor() != tt.at {
				t.Errorf("cursor after undo = %v, want %v", e.Cursor(), tt.at)
			}
			e.Dispatch(Command{Action: ActionRedo})
			assertLines(t, e, after...)
		})
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "ab")
	e.SetCursor(Cursor{0, 2})
	e.InsertChar('c')
	e.Undo()
	e.InsertChar('d')
	if e.Redo() {
		t.Error("redo succeeded after a new edit")
	}
	assertLines(t, e, "abd")
	if e.StatusMessage() != ErrNothingToRedo.Error() {
		t.Errorf("status = %q", e.StatusMessage())
	}
}

func TestBackspaceAtColumnZero(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "abc", "def")
	e.SetCursor(Cursor{1, 0})
	e.DeleteBefore()
	assertLines(t, e, "abc", "def")
	if e.Cursor() != (Cursor{1, 0}) {
		t.Errorf("cursor = %v", e.Cursor())
	}
	if e.hist.CanUndo() {
		t.Error("no-op delete recorded an undo step")
	}

	cfg := DefaultConfig()
	cfg.JoinLines = true
	j, _ := newTestEditorConfig(t, cfg, 24, 80, "", "abc", "def")
	j.SetCursor(Cursor{1, 0})
	j.DeleteBefore()
	assertLines(t, j, "abcdef")
	if j.Cursor() != (Cursor{0, 3}) {
		t.Errorf("cursor after join = %v, want 0:3", j.Cursor())
	}
}

func TestSplitMovesCursor(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "hello")
	e.SetCursor(Cursor{0, 5})
	e.Split()
	assertLines(t, e, "hello", "")
	if e.Cursor() != (Cursor{1, 0}) {
		t.Errorf("cursor = %v, want 1:0", e.Cursor())
	}
}

func TestSplitAutoIndent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoIndent = true
	e, _ := newTestEditorConfig(t, cfg, 24, 80, "", "\t\tfoo(bar)")
	e.SetCursor(Cursor{0, 6})
	e.Split()
	assertLines(t, e, "\t\tfoo(", "\t\tbar)")
	if e.Cursor() != (Cursor{1, 2}) {
		t.Errorf("cursor = %v, want 1:2", e.Cursor())
	}
	e.Undo()
	assertLines(t, e, "\t\tfoo(bar)")
}

func TestDeleteAtEndOfRow(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "ab")
	e.SetCursor(Cursor{0, 2})
	e.DeleteAt()
	assertLines(t, e, "ab")
	e.SetCursor(Cursor{0, 0})
	e.DeleteAt()
	assertLines(t, e, "b")
	if e.Cursor() != (Cursor{0, 0}) {
		t.Errorf("cursor = %v", e.Cursor())
	}
}

func TestQuit(t *testing.T) {
	e := newTestEditor(t, 24, 80, "", "x")
	e.InsertChar('y')
	e.Dispatch(Command{Action: ActionQuit})
	if e.State() != Exiting {
		t.Error("quit with unsaved changes should exit immediately by default")
	}

	cfg := DefaultConfig()
	cfg.QuitTimes = 2
	q, _ := newTestEditorConfig(t, cfg, 24, 80, "", "x")
	q.InsertChar('y')
	for i := 0; i < 2; i++ {
		q.Dispatch(Command{Action: ActionQuit})
		if q.State() != Running {
			t.Fatalf("exited after %d presses", i+1)
		}
	}
	q.Dispatch(Command{Action: ActionQuit})
	if q.State() != Exiting {
		t.Error("third quit press did not exit")
	}
}

func TestQuitCountResetsOnOtherKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuitTimes = 1
	e, _ := newTestEditorConfig(t, cfg, 24, 80, "", "x")
	e.InsertChar('y')
	e.Dispatch(Command{Action: ActionQuit})
	e.Dispatch(Command{Action: ActionMoveLeft})
	e.Dispatch(Command{Action: ActionQuit})
	if e.State() != Running {
		t.Error("quit count was not reset by another key")
	}
}

func TestRunTypesAndQuits(t *testing.T) {
	e, ft := newTestEditorConfig(t, DefaultConfig(), 10, 40, "ab\rc\x1b[D\x7f\x11")
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertLines(t, e, "ab", "c")
	if e.State() != Exiting {
		t.Error("Run returned without exiting")
	}
	out := ft.out.String()
	if !strings.HasSuffix(out, "\x1b[2J\x1b[H") {
		t.Error("screen not cleared on exit")
	}
	if !strings.Contains(out, "\x1b[7m") {
		t.Error("status bar not drawn in inverse video")
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	e, _ := newTestEditorConfig(t, DefaultConfig(), 10, 40, "hi")
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertLines(t, e, "hi")
}

func TestRunFindPrompt(t *testing.T) {
	input := "\x06two\r" + "\x06\r" + "\x11"
	e, _ := newTestEditorConfig(t, DefaultConfig(), 10, 40, input, "one two", "three", "two")
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	// The second, empty query repeats the first one.
	if e.Cursor() != (Cursor{2, 0}) {
		t.Errorf("cursor = %v, want 2:0", e.Cursor())
	}
}

func TestRunFindCancelled(t *testing.T) {
	e, _ := newTestEditorConfig(t, DefaultConfig(), 10, 40, "\x06th\x1b", "one", "three")
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Cursor() != (Cursor{0, 0}) {
		t.Errorf("cancelled search moved the cursor to %v", e.Cursor())
	}
}

func TestRunGoToLine(t *testing.T) {
	e, _ := newTestEditorConfig(t, DefaultConfig(), 10, 40, "\x073\r\x11", "a", "b", "c", "d")
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Cursor() != (Cursor{2, 0}) {
		t.Errorf("cursor = %v, want 2:0", e.Cursor())
	}

	bad := newTestEditor(t, 10, 40, "", "a")
	if bad.GoToLine(2) || bad.StatusMessage() != "Invalid line number." {
		t.Errorf("GoToLine(2) on one line: status %q", bad.StatusMessage())
	}
}

func TestStatsCommand(t *testing.T) {
	e := newTestEditor(t, 10, 40, "", "one two", "three")
	e.Dispatch(Command{Action: ActionStats})
	if want := "2 lines, 3 words, 13 characters"; e.StatusMessage() != want {
		t.Errorf("status = %q, want %q", e.StatusMessage(), want)
	}
}

func TestCursorStaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	actions := []Action{
		ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown,
		ActionMoveHome, ActionMoveEnd, ActionPageUp, ActionPageDown,
		ActionInsertChar, ActionInsertChar, ActionInsertChar,
		ActionDeleteBefore, ActionDeleteAt, ActionSplit, ActionUndo, ActionRedo,
	}
	cfg := DefaultConfig()
	cfg.JoinLines = true
	e, _ := newTestEditorConfig(t, cfg, 8, 12, "", "some text", "", "more\ttext here")
	for i := 0; i < 3000; i++ {
		cmd := Command{Action: actions[rng.Intn(len(actions))]}
		if cmd.Action == ActionInsertChar {
			cmd.Char = byte('a' + rng.Intn(26))
		}
		e.Dispatch(cmd)
		c, b := e.Cursor(), e.Buffer()
		if c.Row < 0 || c.Row >= b.Len() || c.Col < 0 || c.Col > b.RowLen(c.Row) {
			t.Fatalf("step %d (%v): cursor %v invalid for %q", i, cmd.Action, c, b.Lines())
		}
		e.Scroll()
		rx := renderCol(b.Row(c.Row), c.Col, cfg.TabStop)
		if !e.Viewport().Contains(c.Row, rx) {
			t.Fatalf("step %d: cursor %v outside %+v", i, c, e.Viewport())
		}
	}
}

func TestRunModifiedArrowKeys(t *testing.T) {
	e, _ := newTestEditorConfig(t, DefaultConfig(), 10, 40, "\x1b[1;5C\x1b[1;5Cz\x1b[1;2D\x11", "abc")
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	assertLines(t, e, "abzc")
	if e.Cursor() != (Cursor{0, 2}) {
		t.Errorf("cursor = %v, want 0:2", e.Cursor())
	}
}
