package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	NewModel key.Binding
	Preview  key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding

	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Rename   key.Binding
	DataType key.Binding
	IsKey    key.Binding
	Delete   key.Binding
	Add      key.Binding

	Save   key.Binding
	Cancel key.Binding

	Confirm  key.Binding
	Dismiss  key.Binding
	SwitchOp key.Binding
	Select   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	NewModel: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new model")),
	Preview:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Toggle:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter/space", "expand/collapse")),
	Expand:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "expand")),
	Collapse: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "collapse")),
	Rename:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
	DataType: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "datatype")),
	IsKey:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle key")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Add:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add property")),

	Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

	Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Dismiss:  key.NewBinding(key.WithKeys("n", "esc", "ctrl+g"), key.WithHelp("n/esc", "cancel")),
	SwitchOp: key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right"), key.WithHelp("tab", "focus")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Rename, k.NewModel, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Toggle, k.Expand, k.Collapse, k.Rename, k.Delete},
		{k.DataType, k.IsKey, k.Add, k.NewModel},
		{k.Save, k.Cancel, k.Preview, k.Reload, k.Help, k.Quit},
	}
}

// editingKeys is the help shown while an inline edit is active.
type editingKeys struct{}

func (editingKeys) ShortHelp() []key.Binding { return []key.Binding{keys.Save, keys.Cancel} }

func (editingKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{keys.Save, keys.Cancel}} }
