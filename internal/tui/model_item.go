package tui

import (
	"fmt"
	"slices"
	"strings"

	"schemadesk/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModelActions is what a model row needs from the owner of the workspace data.
// Rows never mutate models or properties themselves: each call is a request the
// owner may apply, reject, or treat as a no-op.
type ModelActions interface {
	RenameModel(modelID, name string)
	ToggleExpand(modelID string)
	DeleteModel(modelID string)
	AddProperty(modelID string)
	DeleteProperty(modelID, propID string)
	RenameProperty(modelID, propID, name string)
	SetPropertyDataType(modelID, propID, dataType string)
	SetPropertyKey(modelID, propID string, isKey bool)
}

// propertyRouter adapts ModelActions to a single property row by currying the model id.
type propertyRouter struct {
	modelID string
	actions ModelActions
}

func (r propertyRouter) RenameProperty(propID, name string) {
	r.actions.RenameProperty(r.modelID, propID, name)
}

func (r propertyRouter) SetPropertyDataType(propID, dataType string) {
	r.actions.SetPropertyDataType(r.modelID, propID, dataType)
}

func (r propertyRouter) SetPropertyKey(propID string, isKey bool) {
	r.actions.SetPropertyKey(r.modelID, propID, isKey)
}

func (r propertyRouter) DeleteProperty(propID string) {
	r.actions.DeleteProperty(r.modelID, propID)
}

type rowFocus int

const (
	focusHeader rowFocus = iota
	focusProperty
	focusAddRow
)

// ModelItem renders one model card. Its output is a function of the last
// snapshot passed to Sync plus the local rename buffer; expanded is owned by the
// caller and only reflected here.
type ModelItem struct {
	id        string
	name      string
	props     []model.Property
	expanded  bool
	dataTypes []string

	// Viewing unless editing is set; input is the rename buffer.
	editing bool
	input   textinput.Model

	focus       rowFocus
	focusPropID string

	// Per-property row state keyed by property id. Empty while collapsed.
	propRows map[string]*PropertyItem
}

func NewModelItem(m model.Model, expanded bool, dataTypes []string) *ModelItem {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "model name"
	in.CharLimit = 128

	r := &ModelItem{dataTypes: dataTypes, input: in, propRows: map[string]*PropertyItem{}}
	r.Sync(m, expanded)
	return r
}

func (r *ModelItem) ID() string { return r.id }

func (r *ModelItem) Expanded() bool { return r.expanded }

// Sync takes a fresh snapshot from the owner. Property rows are matched by id so
// their edit state survives reordering; rows for vanished properties are dropped.
func (r *ModelItem) Sync(m model.Model, expanded bool) {
	prevIdx := slices.IndexFunc(r.props, func(p model.Property) bool { return p.ID == r.focusPropID })

	r.id = m.ID
	r.name = m.Name
	r.props = slices.Clone(m.Properties)
	r.expanded = expanded

	if !expanded {
		clear(r.propRows)
		r.focus = focusHeader
		r.focusPropID = ""
		return
	}

	next := make(map[string]*PropertyItem, len(r.props))
	for _, p := range r.props {
		row := r.propRows[p.ID]
		if row == nil {
			row = NewPropertyItem(p, r.dataTypes)
		} else {
			row.SetProperty(p)
		}
		next[p.ID] = row
	}
	r.propRows = next

	if r.focus == focusProperty && next[r.focusPropID] == nil {
		// The focused property is gone: land on its old position.
		switch {
		case len(r.props) == 0:
			r.focus = focusAddRow
			r.focusPropID = ""
		case prevIdx >= 0:
			r.focusPropID = r.props[min(prevIdx, len(r.props)-1)].ID
		default:
			r.focus = focusHeader
			r.focusPropID = ""
		}
	}
}

// Editing reports whether any inline edit (model name or a property field) is active.
func (r *ModelItem) Editing() bool {
	if r.editing {
		return true
	}
	if r.focus == focusProperty {
		if row := r.propRows[r.focusPropID]; row != nil {
			return row.Editing()
		}
	}
	return false
}

func (r *ModelItem) EditBuffer() string {
	if !r.editing {
		return ""
	}
	return r.input.Value()
}

// StartRename enters the Editing state with the buffer seeded from the committed name.
func (r *ModelItem) StartRename() tea.Cmd {
	if r.editing {
		return nil
	}
	r.editing = true
	r.focus = focusHeader
	r.focusPropID = ""
	r.input.SetValue(r.name)
	r.input.CursorEnd()
	return r.input.Focus()
}

func (r *ModelItem) endRename() string {
	buf := r.input.Value()
	r.editing = false
	r.input.Blur()
	r.input.SetValue("")
	return buf
}

func (r *ModelItem) FocusedPropertyID() string {
	if r.focus != focusProperty {
		return ""
	}
	return r.focusPropID
}

// FocusProperty moves the cursor onto the property with the given id, if it is rendered.
func (r *ModelItem) FocusProperty(propID string) bool {
	if r.propRows[propID] == nil {
		return false
	}
	r.focus = focusProperty
	r.focusPropID = propID
	return true
}

func (r *ModelItem) cursorLen() int {
	if !r.expanded {
		return 1
	}
	return len(r.props) + 2
}

func (r *ModelItem) cursorIndex() int {
	switch r.focus {
	case focusProperty:
		if i := slices.IndexFunc(r.props, func(p model.Property) bool { return p.ID == r.focusPropID }); i >= 0 {
			return i + 1
		}
		return 0
	case focusAddRow:
		return len(r.props) + 1
	default:
		return 0
	}
}

func (r *ModelItem) setCursorIndex(i int) {
	switch {
	case i <= 0 || !r.expanded:
		r.focus, r.focusPropID = focusHeader, ""
	case i <= len(r.props):
		r.focus, r.focusPropID = focusProperty, r.props[i-1].ID
	default:
		r.focus, r.focusPropID = focusAddRow, ""
	}
}

// CursorDown moves within the card and reports false at the bottom edge.
func (r *ModelItem) CursorDown() bool {
	i := r.cursorIndex()
	if i+1 >= r.cursorLen() {
		return false
	}
	r.setCursorIndex(i + 1)
	return true
}

// CursorUp moves within the card and reports false at the top edge.
func (r *ModelItem) CursorUp() bool {
	i := r.cursorIndex()
	if i == 0 {
		return false
	}
	r.setCursorIndex(i - 1)
	return true
}

func (r *ModelItem) CursorTop() { r.setCursorIndex(0) }

func (r *ModelItem) CursorBottom() { r.setCursorIndex(r.cursorLen() - 1) }

// cursorLine is the rendered line of the cursor inside View, for scrolling.
func (r *ModelItem) cursorLine() int {
	i := r.cursorIndex()
	if r.expanded && i > 0 {
		i++ // column header
	}
	return 1 + i // top border
}

func (r *ModelItem) Update(msg tea.KeyMsg, actions ModelActions) tea.Cmd {
	if r.editing {
		switch {
		case key.Matches(msg, keys.Save):
			actions.RenameModel(r.id, r.endRename())
			return nil
		case key.Matches(msg, keys.Cancel):
			r.endRename()
			return nil
		}
		var cmd tea.Cmd
		r.input, cmd = r.input.Update(msg)
		return cmd
	}

	switch r.focus {
	case focusHeader:
		switch {
		case key.Matches(msg, keys.Toggle):
			actions.ToggleExpand(r.id)
		case key.Matches(msg, keys.Expand):
			if !r.expanded {
				actions.ToggleExpand(r.id)
			}
		case key.Matches(msg, keys.Collapse):
			if r.expanded {
				actions.ToggleExpand(r.id)
			}
		case key.Matches(msg, keys.Rename):
			return r.StartRename()
		case key.Matches(msg, keys.Delete):
			actions.DeleteModel(r.id)
		}

	case focusProperty:
		row := r.propRows[r.focusPropID]
		if row == nil {
			return nil
		}
		if !row.Editing() && key.Matches(msg, keys.Collapse) {
			r.CursorTop()
			return nil
		}
		return row.Update(msg, propertyRouter{modelID: r.id, actions: actions})

	case focusAddRow:
		switch {
		case key.Matches(msg, keys.Add):
			actions.AddProperty(r.id)
		case key.Matches(msg, keys.Collapse):
			r.CursorTop()
		}
	}
	return nil
}

func (r *ModelItem) View(width int, focused bool) string {
	width = max(width, 20)
	inner := width - 4 // border + padding

	twisty := glyphTwistyCollapsed()
	if r.expanded {
		twisty = glyphTwistyExpanded()
	}

	var header string
	if r.editing {
		r.input.Width = max(inner-lipgloss.Width(twisty)-2, 8)
		header = twisty + " " + renderInputLine(inner-lipgloss.Width(twisty)-1, r.input.View())
	} else {
		count := styleMuted().Render(propertyCount(len(r.props)))
		header = twisty + " " + styleModelName().Render(r.name) + " " + count
		if focused && r.focus == focusHeader {
			header = styleSelected().Width(inner).Render(twisty + " " + r.name + " " + propertyCount(len(r.props)))
		}
	}

	lines := []string{header}
	if r.expanded {
		lines = append(lines, "  "+styleMuted().Render(propertiesHeader))
		for _, p := range r.props {
			row := r.propRows[p.ID]
			if row == nil {
				continue
			}
			rowFocused := focused && r.focus == focusProperty && r.focusPropID == p.ID
			lines = append(lines, "  "+row.View(inner-2, rowFocused))
		}
		add := glyphAdd() + " add property"
		if focused && r.focus == focusAddRow {
			add = styleSelected().Width(inner - 2).Render(add)
		} else {
			add = styleMuted().Render(add)
		}
		lines = append(lines, "  "+add)
	}

	return styleCard(focused).Width(width - 2).Render(strings.Join(lines, "\n"))
}

const propertiesHeader = "Properties: Name / Datatype / Key"

func propertyCount(n int) string {
	if n == 1 {
		return "(1 property)"
	}
	return fmt.Sprintf("(%d properties)", n)
}
