package kilox

import "fmt"

// Direction is a cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	Home
	End
)

// Cursor is a position in buffer coordinates. Col may equal the row length,
// which is the append position just past the last byte.
type Cursor struct {
	Row int
	Col int
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

// Move returns the cursor moved one step in d within b.
// Moves that would leave the buffer are ignored.
func (c Cursor) Move(d Direction, b *Buffer) Cursor {
	switch d {
	case Left:
		if c.Col > 0 {
			c.Col--
		}
	case Right:
		if c.Col < b.RowLen(c.Row) {
			c.Col++
		}
	case Up:
		if c.Row > 0 {
			c.Row--
		}
	case Down:
		if c.Row < b.Len()-1 {
			c.Row++
		}
	case Home:
		c.Col = 0
	case End:
		c.Col = b.RowLen(c.Row)
	}
	// Up and Down can land on a shorter row.
	return c.Clamp(b)
}

// Clamp returns the nearest valid position in b.
func (c Cursor) Clamp(b *Buffer) Cursor {
	if c.Row >= b.Len() {
		c.Row = b.Len() - 1
	}
	if c.Row < 0 {
		c.Row = 0
	}
	if n := b.RowLen(c.Row); c.Col > n {
		c.Col = n
	}
	if c.Col < 0 {
		c.Col = 0
	}
	return c
}
