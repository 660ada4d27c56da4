package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"schemadesk/internal/export"
	"schemadesk/internal/model"
	"schemadesk/internal/mutate"
	"schemadesk/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type flashKind int

const (
	flashInfo flashKind = iota
	flashError
)

const flashDuration = 3 * time.Second

type flashDoneMsg struct{ seq int }

// appModel owns the workspace snapshot and is the only place it changes.
// Model rows report intent through the ModelActions methods below.
type appModel struct {
	store   store.Store
	db      *store.DB
	ids     store.IDGen
	allowed model.DataTypeSet
	log     *zap.Logger

	width  int
	height int

	// Row state and expand flags are keyed by model id, never by position.
	rows     map[string]*ModelItem
	expanded map[string]bool

	focusID string
	// focusIdx is the last known position of focusID, used to pick a neighbor
	// when the focused model disappears.
	focusIdx int

	showPreview bool
	help        help.Model

	confirmDelete bool
	confirm       *confirmState

	flash     string
	flashKind flashKind
	flashSeq  int

	poll        bool
	lastModTime time.Time
	pendingCmds []tea.Cmd
}

var _ ModelActions = (*appModel)(nil)

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ids := opts.IDs
	if ids == nil {
		ids = store.RandomIDs{}
	}
	db := opts.DB
	if db == nil {
		db = &store.DB{Version: 1}
	}

	m := appModel{
		store:         store.Store{Dir: opts.Dir},
		db:            db,
		ids:           ids,
		allowed:       opts.DataTypes,
		log:           log,
		rows:          map[string]*ModelItem{},
		expanded:      map[string]bool{},
		confirmDelete: opts.ConfirmDelete,
		help:          help.New(),
	}

	if vs, err := m.store.LoadViewState(); err == nil {
		for _, id := range vs.ExpandedModelIDs {
			m.expanded[id] = true
		}
		m.focusID = vs.SelectedModelID
		m.showPreview = vs.ShowPreview
	} else {
		log.Debug("view state unreadable", zap.Error(err))
	}

	m.syncRows()
	m.lastModTime = m.store.ModTime()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.pendingCmds = nil

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case storeChangedMsg:
		m.reloadFromDisk()
		return m, nil

	case pollFallbackMsg:
		m.poll = true
		return m, tickReload()

	case reloadTickMsg:
		if !m.poll {
			return m, nil
		}
		if mt := m.store.ModTime(); mt.After(m.lastModTime) {
			m.reloadFromDisk()
		}
		return m, tickReload()

	case tea.KeyMsg:
		m.handleKey(msg)
		return m, tea.Batch(m.pendingCmds...)
	}
	return m, nil
}

func (m *appModel) push(cmd tea.Cmd) {
	if cmd != nil {
		m.pendingCmds = append(m.pendingCmds, cmd)
	}
}

func (m *appModel) handleKey(msg tea.KeyMsg) {
	if msg.Type == tea.KeyCtrlC {
		m.saveViewState()
		m.push(tea.Quit)
		return
	}
	if m.confirm != nil {
		m.updateConfirm(msg)
		return
	}

	row := m.focusedRow()
	if row != nil && row.Editing() {
		m.push(row.Update(msg, m))
		return
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.saveViewState()
		m.push(tea.Quit)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Preview):
		m.showPreview = !m.showPreview
		m.saveViewState()
	case key.Matches(msg, keys.Reload):
		if m.reloadFromDisk() {
			m.showFlash(flashInfo, "Reloaded")
		}
	case key.Matches(msg, keys.NewModel):
		m.createModel()
	case key.Matches(msg, keys.Down):
		m.cursorDown()
	case key.Matches(msg, keys.Up):
		m.cursorUp()
	case key.Matches(msg, keys.MoveDown):
		m.moveFocused(1)
	case key.Matches(msg, keys.MoveUp):
		m.moveFocused(-1)
	default:
		if row != nil {
			m.push(row.Update(msg, m))
		}
	}
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) {
	c := m.confirm
	switch {
	case key.Matches(msg, keys.Confirm):
		m.confirm = nil
		m.deleteNow(*c)
	case key.Matches(msg, keys.Dismiss):
		m.confirm = nil
	case key.Matches(msg, keys.SwitchOp):
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
	case key.Matches(msg, keys.Select):
		m.confirm = nil
		if c.focus == confirmFocusConfirm {
			m.deleteNow(*c)
		}
	}
}

func (m *appModel) focusedRow() *ModelItem {
	return m.rows[m.focusID]
}

func (m *appModel) modelIndex(id string) int {
	return m.db.ModelIndex(id)
}

func (m *appModel) setFocus(id string) {
	m.focusID = id
	if i := m.modelIndex(id); i >= 0 {
		m.focusIdx = i
	}
}

func (m *appModel) cursorDown() {
	row := m.focusedRow()
	if row == nil || row.CursorDown() {
		return
	}
	i := m.modelIndex(m.focusID)
	if i >= 0 && i+1 < len(m.db.Models) {
		m.setFocus(m.db.Models[i+1].ID)
		m.focusedRow().CursorTop()
	}
}

func (m *appModel) cursorUp() {
	row := m.focusedRow()
	if row == nil || row.CursorUp() {
		return
	}
	i := m.modelIndex(m.focusID)
	if i > 0 {
		m.setFocus(m.db.Models[i-1].ID)
		m.focusedRow().CursorBottom()
	}
}

// syncRows pushes the current snapshot into the row map: rows are reused by id,
// created for new models and dropped for deleted ones.
func (m *appModel) syncRows() {
	seen := make(map[string]bool, len(m.db.Models))
	names := m.allowed.Names()
	for _, mdl := range m.db.Models {
		seen[mdl.ID] = true
		if row := m.rows[mdl.ID]; row != nil {
			row.Sync(mdl, m.expanded[mdl.ID])
		} else {
			m.rows[mdl.ID] = NewModelItem(mdl, m.expanded[mdl.ID], names)
		}
	}
	for id := range m.rows {
		if !seen[id] {
			delete(m.rows, id)
		}
	}
	for id := range m.expanded {
		if !seen[id] {
			delete(m.expanded, id)
		}
	}

	if len(m.db.Models) == 0 {
		m.focusID, m.focusIdx = "", 0
		return
	}
	if m.rows[m.focusID] == nil {
		i := min(max(m.focusIdx, 0), len(m.db.Models)-1)
		m.focusID = m.db.Models[i].ID
	}
	m.focusIdx = m.modelIndex(m.focusID)
}

func (m *appModel) reloadFromDisk() bool {
	db, err := m.store.Load()
	if err != nil {
		m.log.Error("reload failed", zap.Error(err))
		m.showFlash(flashError, "reload failed: "+err.Error())
		return false
	}
	m.db = db
	m.lastModTime = m.store.ModTime()
	m.syncRows()
	return true
}

func (m *appModel) showFlash(kind flashKind, text string) {
	m.flash = text
	m.flashKind = kind
	m.flashSeq++
	seq := m.flashSeq
	m.push(tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} }))
}

// apply runs one mutation against a copy of the snapshot and commits it only
// if it validated and saved. Rejections surface as a flash and leave m.db as is.
func (m *appModel) apply(op string, fn func(db *store.DB) (mutate.Result, error)) (mutate.Result, bool) {
	next := m.db.Clone()
	res, err := fn(next)
	if err != nil {
		m.log.Warn("mutation rejected", zap.String("op", op), zap.Error(err))
		m.showFlash(flashError, rejectionText(err))
		m.syncRows()
		return res, false
	}
	if !res.Changed {
		m.log.Debug("mutation was a no-op", zap.String("op", op))
		m.syncRows()
		return res, true
	}
	if err := m.store.Save(next, mutate.Events(res)...); err != nil {
		m.log.Error("save failed", zap.String("op", op), zap.Error(err))
		m.showFlash(flashError, "save failed: "+err.Error())
		return res, false
	}
	m.db = next
	m.log.Info("mutation applied", zap.String("event", res.EventType), zap.String("entityId", res.EntityID))
	m.lastModTime = m.store.ModTime()
	m.syncRows()
	return res, true
}

func rejectionText(err error) string {
	var nf mutate.NotFoundError
	switch {
	case errors.Is(err, mutate.ErrEmptyName):
		return "Name can't be empty"
	case errors.Is(err, mutate.ErrDuplicateName):
		var ve mutate.ValidationError
		if errors.As(err, &ve) {
			return fmt.Sprintf("%q is already used", ve.Value)
		}
	case errors.Is(err, mutate.ErrUnknownDataType):
		var ve mutate.ValidationError
		if errors.As(err, &ve) {
			return fmt.Sprintf("Unknown datatype %q", ve.Value)
		}
	case errors.As(err, &nf):
		return nf.Error()
	}
	return err.Error()
}

func (m *appModel) createModel() {
	name := mutate.NextModelName(m.db)
	res, ok := m.apply("create model", func(db *store.DB) (mutate.Result, error) {
		return mutate.CreateModel(db, m.ids, name)
	})
	if !ok || res.Model == nil {
		return
	}
	m.setFocus(res.Model.ID)
	if row := m.focusedRow(); row != nil {
		m.push(row.StartRename())
	}
}

func (m *appModel) moveFocused(delta int) {
	row := m.focusedRow()
	if row == nil {
		return
	}
	modelID := row.ID()
	if propID := row.FocusedPropertyID(); propID != "" {
		m.apply("move property", func(db *store.DB) (mutate.Result, error) {
			return mutate.MoveProperty(db, modelID, propID, delta)
		})
		return
	}
	m.apply("move model", func(db *store.DB) (mutate.Result, error) {
		return mutate.MoveModel(db, modelID, delta)
	})
	m.setFocus(modelID)
}

func (m *appModel) deleteNow(c confirmState) {
	if c.propID != "" {
		m.apply("delete property", func(db *store.DB) (mutate.Result, error) {
			return mutate.DeleteProperty(db, c.modelID, c.propID)
		})
		return
	}
	m.apply("delete model", func(db *store.DB) (mutate.Result, error) {
		return mutate.DeleteModel(db, c.modelID)
	})
}

// ModelActions.

func (m *appModel) RenameModel(modelID, name string) {
	m.apply("rename model", func(db *store.DB) (mutate.Result, error) {
		return mutate.RenameModel(db, modelID, name)
	})
}

func (m *appModel) ToggleExpand(modelID string) {
	if m.expanded[modelID] {
		delete(m.expanded, modelID)
	} else {
		m.expanded[modelID] = true
	}
	m.syncRows()
	m.saveViewState()
}

func (m *appModel) DeleteModel(modelID string) {
	mdl, ok := m.db.FindModel(modelID)
	if !ok {
		return
	}
	c := confirmState{
		title:   fmt.Sprintf("Delete model %q?", mdl.Name),
		body:    fmt.Sprintf("Its %s will be deleted with it.", strings.Trim(propertyCount(len(mdl.Properties)), "()")),
		modelID: modelID,
		focus:   confirmFocusCancel,
	}
	if m.confirmDelete {
		m.confirm = &c
		return
	}
	m.deleteNow(c)
}

func (m *appModel) AddProperty(modelID string) {
	res, ok := m.apply("add property", func(db *store.DB) (mutate.Result, error) {
		return mutate.AddProperty(db, m.ids, modelID, mutate.PropertySpec{}, m.allowed)
	})
	if !ok || res.Property == nil {
		return
	}
	if row := m.rows[modelID]; row != nil {
		row.FocusProperty(res.Property.ID)
	}
}

func (m *appModel) DeleteProperty(modelID, propID string) {
	_, p, ok := m.db.FindProperty(modelID, propID)
	if !ok {
		return
	}
	c := confirmState{
		title:   fmt.Sprintf("Delete property %q?", p.Name),
		body:    "This can't be undone.",
		modelID: modelID,
		propID:  propID,
		focus:   confirmFocusCancel,
	}
	if m.confirmDelete {
		m.confirm = &c
		return
	}
	m.deleteNow(c)
}

func (m *appModel) RenameProperty(modelID, propID, name string) {
	m.apply("rename property", func(db *store.DB) (mutate.Result, error) {
		return mutate.RenameProperty(db, modelID, propID, name)
	})
}

func (m *appModel) SetPropertyDataType(modelID, propID, dataType string) {
	m.apply("set datatype", func(db *store.DB) (mutate.Result, error) {
		return mutate.SetPropertyDataType(db, modelID, propID, dataType, m.allowed)
	})
}

func (m *appModel) SetPropertyKey(modelID, propID string, isKey bool) {
	m.apply("set key", func(db *store.DB) (mutate.Result, error) {
		return mutate.SetPropertyKey(db, modelID, propID, isKey)
	})
}

func (m appModel) saveViewState() {
	vs := &store.ViewState{
		Version:         1,
		SelectedModelID: m.focusID,
		ShowPreview:     m.showPreview,
	}
	for _, mdl := range m.db.Models {
		if m.expanded[mdl.ID] {
			vs.ExpandedModelIDs = append(vs.ExpandedModelIDs, mdl.ID)
		}
	}
	if err := m.store.SaveViewState(vs); err != nil {
		m.log.Warn("saving view state failed", zap.Error(err))
	}
}

// View.

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	header := m.renderHeader(w)
	footer := m.renderFooter(w)
	bodyH := max(h-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	if m.showPreview && w >= 60 {
		listW := w * 55 / 100
		previewW := w - listW - 1
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			normalizePane(m.renderList(listW, bodyH), listW, bodyH),
			" ",
			normalizePane(m.renderPreview(previewW), previewW, bodyH),
		)
	} else {
		body = normalizePane(m.renderList(w, bodyH), w, bodyH)
	}

	out := strings.Join([]string{header, body, footer}, "\n")
	if m.confirm != nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, renderConfirmModal(w, *m.confirm))
	}
	return out
}

func (m appModel) renderHeader(w int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("schemadesk")
	meta := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(
		fmt.Sprintf("  %d models  %s", len(m.db.Models), m.store.Dir))
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), max(w, 1)))
	return normalizePane(title+meta, w, 1) + "\n" + rule
}

func (m appModel) renderFooter(w int) string {
	if m.flash != "" {
		st := lipgloss.NewStyle().Foreground(colorFlashInfoFg)
		if m.flashKind == flashError {
			st = lipgloss.NewStyle().Foreground(colorFlashErrorFg).Background(colorFlashErrorBg).Padding(0, 1)
		}
		return normalizePane(st.Render(m.flash), w, 1)
	}
	if row := m.rows[m.focusID]; row != nil && row.Editing() {
		return m.help.View(editingKeys{})
	}
	return m.help.View(keys)
}

func (m appModel) renderList(w, h int) string {
	if len(m.db.Models) == 0 {
		return styleMuted().Render("No models yet. Press a to create one.")
	}

	var lines []string
	focusLine := 0
	for _, mdl := range m.db.Models {
		row := m.rows[mdl.ID]
		if row == nil {
			continue
		}
		focused := mdl.ID == m.focusID
		if focused {
			focusLine = len(lines) + row.cursorLine()
		}
		lines = append(lines, strings.Split(row.View(w, focused), "\n")...)
	}
	start, end := scrollWindow(len(lines), h, focusLine, 0)
	return strings.Join(lines[start:end], "\n")
}

func (m appModel) renderPreview(w int) string {
	mdl, ok := m.db.FindModel(m.focusID)
	if !ok {
		return ""
	}
	var sql strings.Builder
	_ = export.WriteSQL(&sql, []model.Model{*mdl})
	md := export.Markdown([]model.Model{*mdl}) + "\n```sql\n" + sql.String() + "```\n"
	return renderMarkdown(md, w)
}
