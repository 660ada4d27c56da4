package tui

import (
	"strings"

	"schemadesk/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// PropertyActions receives the intent of one property row. Every call carries
// the property's own id and happens at most once per key press.
type PropertyActions interface {
	RenameProperty(propID, name string)
	SetPropertyDataType(propID, dataType string)
	SetPropertyKey(propID string, isKey bool)
	DeleteProperty(propID string)
}

type propertyField int

const (
	fieldNone propertyField = iota
	fieldName
	fieldDataType
)

// PropertyItem renders one property row. It only holds the snapshot it was
// given plus an edit buffer while a field is being edited.
type PropertyItem struct {
	prop      model.Property
	dataTypes []string

	editing propertyField
	input   textinput.Model
}

func NewPropertyItem(p model.Property, dataTypes []string) *PropertyItem {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 128
	return &PropertyItem{prop: p, dataTypes: dataTypes, input: in}
}

// SetProperty replaces the snapshot. An edit in progress keeps its buffer.
func (p *PropertyItem) SetProperty(prop model.Property) { p.prop = prop }

func (p *PropertyItem) ID() string { return p.prop.ID }

func (p *PropertyItem) Editing() bool { return p.editing != fieldNone }

func (p *PropertyItem) startEdit(f propertyField) tea.Cmd {
	p.editing = f
	p.input.ShowSuggestions = false
	p.input.SetSuggestions(nil)
	switch f {
	case fieldName:
		p.input.Placeholder = "property name"
		p.input.SetValue(p.prop.Name)
	case fieldDataType:
		p.input.Placeholder = "datatype"
		p.input.ShowSuggestions = true
		p.input.SetSuggestions(p.dataTypes)
		p.input.SetValue(p.prop.DataType)
	}
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *PropertyItem) stopEdit() {
	p.editing = fieldNone
	p.input.Blur()
	p.input.SetValue("")
}

func (p *PropertyItem) Update(msg tea.KeyMsg, actions PropertyActions) tea.Cmd {
	if p.editing != fieldNone {
		switch {
		case key.Matches(msg, keys.Save):
			field, value := p.editing, p.input.Value()
			p.stopEdit()
			if field == fieldName {
				actions.RenameProperty(p.prop.ID, value)
			} else {
				actions.SetPropertyDataType(p.prop.ID, value)
			}
			return nil
		case key.Matches(msg, keys.Cancel):
			p.stopEdit()
			return nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Rename):
		return p.startEdit(fieldName)
	case key.Matches(msg, keys.DataType):
		return p.startEdit(fieldDataType)
	case key.Matches(msg, keys.IsKey):
		actions.SetPropertyKey(p.prop.ID, !p.prop.IsKey)
	case key.Matches(msg, keys.Delete):
		actions.DeleteProperty(p.prop.ID)
	}
	return nil
}

func (p *PropertyItem) View(width int, focused bool) string {
	marker := styleMuted().Render(glyphNotKey())
	if p.prop.IsKey {
		marker = styleKeyMarker().Render(glyphKey())
	}

	name := p.prop.Name
	dataType := styleDataType().Render(p.prop.DataType)
	switch p.editing {
	case fieldName:
		p.input.Width = max(width-lipgloss.Width(p.prop.DataType)-6, 8)
		name = renderInputLine(p.input.Width+1, p.input.View())
	case fieldDataType:
		p.input.Width = max(width-lipgloss.Width(name)-6, 8)
		dataType = renderInputLine(p.input.Width+1, p.input.View())
	}

	line := strings.Join([]string{marker, name, dataType}, " ")
	if focused && p.editing == fieldNone {
		// Nested styles would reset the selection background mid-line.
		return styleSelected().Width(width).Render(xansi.Strip(line))
	}
	return line
}
