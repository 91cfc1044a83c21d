package kilox

import (
	"io"
	"strings"
)

// Key is a decoded keypress: a raw byte value, or one of the values above
// 255 for escape sequences.
type Key int

const (
	keyNull      Key = 0
	ctrlA        Key = 1
	ctrlC        Key = 3
	ctrlE        Key = 5
	ctrlF        Key = 6
	ctrlG        Key = 7
	ctrlH        Key = 8
	keyTab       Key = 9
	ctrlL        Key = 12
	keyEnter     Key = 13
	ctrlQ        Key = 17
	ctrlR        Key = 18
	ctrlS        Key = 19
	ctrlW        Key = 23
	ctrlY        Key = 25
	ctrlZ        Key = 26
	KeyEsc       Key = 27
	keyBackspace Key = 127
)

const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

func readByte(r io.Reader) (byte, bool, error) {
	var buf [1]byte
	n, err := r.Read(buf[:])
	if n == 1 {
		return buf[0], true, nil
	}
	return 0, false, err
}

// ReadKey blocks until one key is available on r and decodes it.
// Reads that return no data and no error are treated as a timeout: they are
// retried for the first byte and end an escape sequence early.
func ReadKey(r io.Reader) (Key, error) {
	var c byte
	for {
		b, ok, err := readByte(r)
		if ok {
			c = b
			break
		}
		if err != nil {
			return keyNull, err
		}
	}
	if Key(c) != KeyEsc {
		return Key(c), nil
	}

	first, ok, _ := readByte(r)
	if !ok {
		return KeyEsc, nil
	}
	switch first {
	case '[':
		return readCSI(r), nil
	case 'O':
		b, ok, _ := readByte(r)
		if !ok {
			return KeyEsc, nil
		}
		switch b {
		case 'H':
			return KeyHome, nil
		case 'F':
			return KeyEnd, nil
		}
	}
	return KeyEsc, nil
}

// maxCSI bounds how many parameter bytes are read before giving up on a
// sequence.
const maxCSI = 16

// readCSI consumes the rest of an ESC [ sequence up to its final byte and
// decodes it. Modifier parameters, as in ESC [1;5C, are ignored. Anything
// unrecognised decodes as KeyEsc once the whole sequence has been read.
func readCSI(r io.Reader) Key {
	var params []byte
	for {
		b, ok, _ := readByte(r)
		if !ok {
			return KeyEsc
		}
		if b >= 0x40 && b <= 0x7e {
			return decodeCSI(params, b)
		}
		if b < 0x20 || b > 0x3f || len(params) == maxCSI {
			return KeyEsc
		}
		params = append(params, b)
	}
}

func decodeCSI(params []byte, final byte) Key {
	first, _, _ := strings.Cut(string(params), ";")
	if final == '~' {
		switch first {
		case "1", "7":
			return KeyHome
		case "3":
			return KeyDelete
		case "4", "8":
			return KeyEnd
		case "5":
			return KeyPageUp
		case "6":
			return KeyPageDown
		}
		return KeyEsc
	}
	if first != "" && first != "1" {
		return KeyEsc
	}
	switch final {
	case 'A':
		return KeyArrowUp
	case 'B':
		return KeyArrowDown
	case 'C':
		return KeyArrowRight
	case 'D':
		return KeyArrowLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyEsc
}

// Action is what a command asks the editor to do.
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionMoveHome
	ActionMoveEnd
	ActionPageUp
	ActionPageDown
	ActionInsertChar
	ActionDeleteBefore
	ActionDeleteAt
	ActionSplit
	ActionSave
	ActionQuit
	ActionFind
	ActionUndo
	ActionRedo
	ActionGoToLine
	ActionStats
	ActionReplace
)

var actionNames = [...]string{
	ActionNone:         "None",
	ActionMoveLeft:     "MoveLeft",
	ActionMoveRight:    "MoveRight",
	ActionMoveUp:       "MoveUp",
	ActionMoveDown:     "MoveDown",
	ActionMoveHome:     "MoveHome",
	ActionMoveEnd:      "MoveEnd",
	ActionPageUp:       "PageUp",
	ActionPageDown:     "PageDown",
	ActionInsertChar:   "InsertChar",
	ActionDeleteBefore: "DeleteBefore",
	ActionDeleteAt:     "DeleteAt",
	ActionSplit:        "Split",
	ActionSave:         "Save",
	ActionQuit:         "Quit",
	ActionFind:         "Find",
	ActionUndo:         "Undo",
	ActionRedo:         "Redo",
	ActionGoToLine:     "GoToLine",
	ActionStats:        "Stats",
	ActionReplace:      "Replace",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Action(?)"
}

// Command is a decoded editing command. Char is only used by ActionInsertChar.
type Command struct {
	Action Action
	Char   byte
}

var keymap = map[Key]Action{
	ctrlQ:         ActionQuit,
	ctrlS:         ActionSave,
	ctrlF:         ActionFind,
	ctrlR:         ActionReplace,
	ctrlZ:         ActionUndo,
	ctrlY:         ActionRedo,
	ctrlG:         ActionGoToLine,
	ctrlW:         ActionStats,
	ctrlA:         ActionMoveHome,
	KeyHome:       ActionMoveHome,
	ctrlE:         ActionMoveEnd,
	KeyEnd:        ActionMoveEnd,
	KeyArrowLeft:  ActionMoveLeft,
	KeyArrowRight: ActionMoveRight,
	KeyArrowUp:    ActionMoveUp,
	KeyArrowDown:  ActionMoveDown,
	KeyPageUp:     ActionPageUp,
	KeyPageDown:   ActionPageDown,
	keyBackspace:  ActionDeleteBefore,
	ctrlH:         ActionDeleteBefore,
	KeyDelete:     ActionDeleteAt,
	keyEnter:      ActionSplit,
}

// Decode maps a key to a command.
func Decode(k Key) Command {
	if a, ok := keymap[k]; ok {
		return Command{Action: a}
	}
	if isInsertable(k) {
		return Command{Action: ActionInsertChar, Char: byte(k)}
	}
	return Command{Action: ActionNone}
}

func isInsertable(k Key) bool {
	return k == keyTab || (k >= 32 && k < 127) || (k >= 128 && k <= 255)
}
