package tui

// PopupKind tags the single active popup. Exactly one popup can be open at a
// time; opening another replaces it.
type PopupKind int

const (
	PopupNone PopupKind = iota
	PopupHelp
	PopupControls
	PopupError
)

// Popup is the UI's single popup value: the kind plus the payload the kind
// needs. A zero Popup is "no popup".
type Popup struct {
	Kind    PopupKind
	Message string // PopupError
	Cursor  int    // PopupControls
}

// controlEntries are the rows of the playback controls popup.
var controlEntries = []string{
	"Play/Pause",
	"Previous",
	"Next",
	"Close",
}

const (
	controlPlayPause = iota
	controlPrevious
	controlNext
	controlClose
)

func noPopup() Popup { return Popup{} }

func helpPopup() Popup { return Popup{Kind: PopupHelp} }

func controlsPopup() Popup { return Popup{Kind: PopupControls} }

func errorPopup(message string) Popup {
	return Popup{Kind: PopupError, Message: message}
}

// Active reports whether any popup is open.
func (p Popup) Active() bool {
	return p.Kind != PopupNone
}

// MoveCursor moves the controls cursor by delta, clamped to the entries.
func (p Popup) MoveCursor(delta int) Popup {
	if p.Kind != PopupControls {
		return p
	}
	next := p.Cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(controlEntries) {
		next = len(controlEntries) - 1
	}
	p.Cursor = next
	return p
}
