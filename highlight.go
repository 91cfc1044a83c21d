package kilox

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

// Color is a 24-bit foreground colour. The zero value means the terminal default.
type Color struct {
	R, G, B uint8
	Set     bool
}

func (c Color) sgr() string {
	if !c.Set {
		return "\x1b[39m"
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Highlighter colours buffer text with a chroma lexer. Colours are computed
// for the whole document and cached until the buffer revision changes.
type Highlighter struct {
	lexer    chroma.Lexer
	style    *chroma.Style
	revision int
	colors   [][]Color
}

// NewHighlighter returns a highlighter using the named chroma style.
// It colours nothing until Select finds a lexer.
func NewHighlighter(style string) *Highlighter {
	return &Highlighter{style: styles.Get(style), revision: -1}
}

// Select picks a lexer for filename, using content to disambiguate.
// It reports whether a language was recognised.
func (h *Highlighter) Select(filename string, content []byte) bool {
	h.lexer = nil
	h.colors = nil
	h.revision = -1
	if filename == "" {
		return false
	}
	base := filepath.Base(filename)
	var lexer chroma.Lexer
	if lang := enry.GetLanguage(base, content); lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Match(base)
	}
	if lexer == nil || strings.EqualFold(lexer.Config().Name, "plaintext") {
		return false
	}
	h.lexer = chroma.Coalesce(lexer)
	return true
}

// Language returns the name of the selected lexer, or "".
func (h *Highlighter) Language() string {
	if h.lexer == nil {
		return ""
	}
	return h.lexer.Config().Name
}

// Colors returns one colour per byte for every row of b.
// It returns nil when no lexer is selected.
func (h *Highlighter) Colors(b *Buffer) [][]Color {
	if h.lexer == nil {
		return nil
	}
	if h.revision == b.Revision() && h.colors != nil {
		return h.colors
	}
	h.colors = h.colorize(b.rows)
	h.revision = b.Revision()
	return h.colors
}

func (h *Highlighter) colorize(rows []string) [][]Color {
	colors := make([][]Color, len(rows))
	for i, row := range rows {
		colors[i] = make([]Color, len(row))
	}
	text := strings.Join(rows, "\n") + "\n"
	tokens, err := chroma.Tokenise(h.lexer, nil, text)
	if err != nil {
		return colors
	}
	base := h.style.Get(chroma.Text).Colour

	// Lexers see invalid UTF-8 as U+FFFD, so token runes are matched to the
	// source runes they came from and colours follow the source widths.
	row, col, pos := 0, 0, 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		var c Color
		if entry := h.style.Get(tok.Type); entry.Colour.IsSet() && entry.Colour != base {
			c = Color{R: entry.Colour.Red(), G: entry.Colour.Green(), B: entry.Colour.Blue(), Set: true}
		}
		for range tok.Value {
			if pos >= len(text) {
				break
			}
			_, size := utf8.DecodeRuneInString(text[pos:])
			if text[pos] == '\n' {
				row++
				col = 0
				pos++
				continue
			}
			for i := 0; i < size; i++ {
				if row < len(colors) && col < len(colors[row]) {
					colors[row][col] = c
				}
				col++
			}
			pos += size
		}
	}
	return colors
}
