package tui

import (
	"schemadesk/internal/model"
	"schemadesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Dir           string
	DB            *store.DB
	DataTypes     model.DataTypeSet
	Glyphs        string
	Theme         string
	MarkdownStyle string
	ConfirmDelete bool
	Logger        *zap.Logger

	// IDs defaults to store.RandomIDs.
	IDs store.IDGen
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyMarkdownPreference(opts.MarkdownStyle)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	w, err := watchStore(opts.Dir, p.Send, m.log)
	if err != nil {
		m.log.Warn("store watcher unavailable; polling for changes", zap.Error(err))
		go p.Send(pollFallbackMsg{})
	} else {
		defer w.Close()
	}

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		fm.saveViewState()
	}
	return err
}
