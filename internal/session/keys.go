package session

// KeyAction is what a key press in the message input means
type KeyAction int

const (
	// KeyNone leaves the key to the input widget
	KeyNone KeyAction = iota
	// KeySend submits the draft; the default newline is suppressed
	KeySend
	// KeyNewline inserts a line break into the draft
	KeyNewline
)

// ResolveKey maps a key name and the Shift modifier onto an input action.
// Enter sends, Shift+Enter inserts a newline.
func ResolveKey(key string, shift bool) KeyAction {
	if key != "enter" {
		return KeyNone
	}
	if shift {
		return KeyNewline
	}
	return KeySend
}
