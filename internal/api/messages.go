package api

import (
	"fmt"

	"github.com/rectshot/rectshot/internal/editor"
	"github.com/rectshot/rectshot/internal/geometry"
)

// inputMessage is the wire form of one client input event.
type inputMessage struct {
	Type      string   `json:"type"`
	Action    string   `json:"action,omitempty"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	Button    string   `json:"button,omitempty"`
	Touch     bool     `json:"touch,omitempty"`
	Key       string   `json:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// terminalMessage tells the client the session ended.
type terminalMessage struct {
	Type   string     `json:"type"`
	Region *rectState `json:"region,omitempty"`
}

// rectState is the JSON form of a logical rectangle.
type rectState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func newRectState(r geometry.Rect) rectState {
	return rectState{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func decodePointer(msg inputMessage) (editor.PointerEvent, error) {
	ev := editor.PointerEvent{
		Pos:   geometry.Pt(msg.X, msg.Y),
		Touch: msg.Touch,
	}

	switch msg.Action {
	case "press":
		ev.Action = editor.PointerPress
	case "move":
		ev.Action = editor.PointerMove
	case "release":
		ev.Action = editor.PointerRelease
	case "doubleclick":
		ev.Action = editor.PointerDoubleClick
	default:
		return ev, fmt.Errorf("unknown pointer action %q", msg.Action)
	}

	switch msg.Button {
	case "", "none":
		ev.Button = editor.ButtonNone
	case "left":
		ev.Button = editor.ButtonLeft
	case "right":
		ev.Button = editor.ButtonRight
	default:
		return ev, fmt.Errorf("unknown pointer button %q", msg.Button)
	}

	return ev, nil
}

func decodeKey(msg inputMessage) (editor.KeyEvent, error) {
	var ev editor.KeyEvent

	switch msg.Key {
	case "up":
		ev.Key = editor.KeyUp
	case "down":
		ev.Key = editor.KeyDown
	case "left":
		ev.Key = editor.KeyLeft
	case "right":
		ev.Key = editor.KeyRight
	case "enter":
		ev.Key = editor.KeyEnter
	case "escape":
		ev.Key = editor.KeyEscape
	default:
		return ev, fmt.Errorf("unknown key %q", msg.Key)
	}

	for _, mod := range msg.Modifiers {
		switch mod {
		case "shift":
			ev.Modifiers |= editor.ModShift
		case "alt":
			ev.Modifiers |= editor.ModAlt
		default:
			return ev, fmt.Errorf("unknown modifier %q", mod)
		}
	}

	return ev, nil
}
