package kilox

import "time"

// Config holds the tunable parts of the editor.
type Config struct {
	// TabStop is the width a tab expands to on screen.
	TabStop int
	// QuitTimes is how many extra quit presses are needed when the buffer is
	// dirty. Zero quits immediately and discards unsaved changes.
	QuitTimes int
	// StatusTimeout is how long a status message stays visible.
	StatusTimeout time.Duration
	// AutoIndent copies the leading whitespace of a row when it is split.
	AutoIndent bool
	// JoinLines makes backspace at column 0 merge the row into the previous one.
	JoinLines bool
	// Highlight enables syntax colouring.
	Highlight bool
	// Style is the chroma style name used for colouring.
	Style string
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		TabStop:       8,
		QuitTimes:     0,
		StatusTimeout: 5 * time.Second,
		Highlight:     true,
		Style:         "catppuccin-mocha",
	}
}
