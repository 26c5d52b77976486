package editor

import (
	"strings"
)

const (
	actionUndo = "undo"
	actionRedo = "redo"
)

var modifierOrder = []string{"ctrl", "alt", "shift", "cmd"}

// NormalizeKey rewrites a combo like "Shift+Ctrl+Z" into the keymap form
// "ctrl+shift+z".
func NormalizeKey(combo string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	if len(parts) == 0 {
		return ""
	}
	key := parts[len(parts)-1]
	mods := make(map[string]bool, len(parts)-1)
	for _, m := range parts[:len(parts)-1] {
		switch m {
		case "control":
			m = "ctrl"
		case "meta", "super", "command":
			m = "cmd"
		case "option":
			m = "alt"
		}
		mods[m] = true
	}
	var b strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			b.WriteString(m + "+")
		}
	}
	b.WriteString(key)
	return b.String()
}

// HandleKey runs the action bound to combo. It reports whether the combo
// is bound, in which case the client suppresses the platform default.
func (s *Session) HandleKey(combo string) bool {
	action, ok := s.cfg.Keymap[NormalizeKey(combo)]
	if !ok {
		return false
	}
	switch action {
	case actionUndo:
		s.Undo()
	case actionRedo:
		s.Redo()
	default:
		return false
	}
	return true
}

// BoundKeys lists the combos the client should intercept.
func (s *Session) BoundKeys() []string {
	keys := make([]string, 0, len(s.cfg.Keymap))
	for k, a := range s.cfg.Keymap {
		if a == actionUndo || a == actionRedo {
			keys = append(keys, k)
		}
	}
	return keys
}
