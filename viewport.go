package kilox

// Viewport is the window of the buffer shown on the terminal.
// Rows and Cols are the size of the text area, excluding the two bars.
type Viewport struct {
	RowOffset int
	ColOffset int
	Rows      int
	Cols      int
}

// Scroll returns the viewport with its offsets adjusted so that (row, col)
// is visible. col is a render column.
func (v Viewport) Scroll(row, col int) Viewport {
	if row < v.RowOffset {
		v.RowOffset = row
	}
	if row >= v.RowOffset+v.Rows {
		v.RowOffset = row - v.Rows + 1
	}
	if col < v.ColOffset {
		v.ColOffset = col
	}
	if col >= v.ColOffset+v.Cols {
		v.ColOffset = col - v.Cols + 1
	}
	return v
}

// Contains reports whether (row, col) is inside the visible window.
func (v Viewport) Contains(row, col int) bool {
	return row >= v.RowOffset && row < v.RowOffset+v.Rows &&
		col >= v.ColOffset && col < v.ColOffset+v.Cols
}

// pageCursor moves c by one screen the way kilo does: first to the top or
// bottom of the visible window, then a full screen further.
func (v Viewport) pageCursor(c Cursor, down bool, b *Buffer) Cursor {
	if down {
		c.Row = v.RowOffset + v.Rows - 1
	} else {
		c.Row = v.RowOffset
	}
	c = c.Clamp(b)
	dir := Up
	if down {
		dir = Down
	}
	for i := 0; i < v.Rows; i++ {
		c = c.Move(dir, b)
	}
	return c
}
