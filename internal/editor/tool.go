package editor

// Tool is the active authoring tool. Exactly one value is current.
type Tool int

const (
	ToolNone Tool = iota
	ToolText
	ToolSelect
)

func (t Tool) String() string {
	switch t {
	case ToolText:
		return "text"
	case ToolSelect:
		return "select"
	default:
		return "none"
	}
}

// ParseTool maps a client tool name to a Tool.
func ParseTool(name string) (Tool, bool) {
	switch name {
	case "text":
		return ToolText, true
	case "select":
		return ToolSelect, true
	case "none", "":
		return ToolNone, true
	}
	return ToolNone, false
}

// Activate handles a click on a tool control. Activating the current tool
// toggles it off. Activating another one tears the old one down first.
func (s *Session) Activate(t Tool) {
	s.trace("tool_" + t.String())
	if t == ToolNone || t == s.tool {
		s.Deactivate()
		return
	}
	s.Deactivate()
	s.tool = t
}

// Deactivate returns to ToolNone and removes every side effect of the
// previous tool: selection marker, resize handle, color panel, and the
// button panel's visibility.
func (s *Session) Deactivate() {
	s.tool = ToolNone
	s.clearSelection()
	s.selected = nil
	s.kind = KindNone
	s.drag = nil
	s.colorPanel.Close()
	s.buttonPanel.SetVisible(false)
}
