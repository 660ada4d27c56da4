package tui

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"schemadesk/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

type recordingActions struct {
	calls []string
}

func (r *recordingActions) RenameModel(modelID, name string) {
	r.calls = append(r.calls, fmt.Sprintf("rename(%s,%s)", modelID, name))
}

func (r *recordingActions) ToggleExpand(modelID string) {
	r.calls = append(r.calls, fmt.Sprintf("toggle(%s)", modelID))
}

func (r *recordingActions) DeleteModel(modelID string) {
	r.calls = append(r.calls, fmt.Sprintf("delete(%s)", modelID))
}

func (r *recordingActions) AddProperty(modelID string) {
	r.calls = append(r.calls, fmt.Sprintf("addProperty(%s)", modelID))
}

func (r *recordingActions) DeleteProperty(modelID, propID string) {
	r.calls = append(r.calls, fmt.Sprintf("deleteProperty(%s,%s)", modelID, propID))
}

func (r *recordingActions) RenameProperty(modelID, propID, name string) {
	r.calls = append(r.calls, fmt.Sprintf("renameProperty(%s,%s,%s)", modelID, propID, name))
}

func (r *recordingActions) SetPropertyDataType(modelID, propID, dataType string) {
	r.calls = append(r.calls, fmt.Sprintf("dataType(%s,%s,%s)", modelID, propID, dataType))
}

func (r *recordingActions) SetPropertyKey(modelID, propID string, isKey bool) {
	r.calls = append(r.calls, fmt.Sprintf("key(%s,%s,%t)", modelID, propID, isKey))
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func userModel() model.Model {
	return model.Model{
		ID:   "m1",
		Name: "User",
		Properties: []model.Property{
			{ID: "p1", Name: "email", DataType: "string", IsKey: true},
		},
	}
}

func threePropModel() model.Model {
	return model.Model{
		ID:   "m1",
		Name: "User",
		Properties: []model.Property{
			{ID: "p1", Name: "id", DataType: "uuid", IsKey: true},
			{ID: "p2", Name: "email", DataType: "string"},
			{ID: "p3", Name: "age", DataType: "int"},
		},
	}
}

func send(row *ModelItem, acts ModelActions, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		row.Update(msg, acts)
	}
}

func assertCalls(t *testing.T, got *recordingActions, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	calls := got.calls
	if calls == nil {
		calls = []string{}
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestModelItem_SaveCallsRenameOnceWithFinalBuffer(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	acts := &recordingActions{}

	send(row, acts, runes("e"))
	if !row.Editing() {
		t.Fatalf("expected Editing after e")
	}
	if got := row.EditBuffer(); got != "User" {
		t.Fatalf("expected buffer seeded from name; got %q", got)
	}

	send(row, acts, keyOf(tea.KeyCtrlU), runes("Acc"), runes("ount"))
	assertCalls(t, acts) // keystrokes only touch the buffer

	send(row, acts, keyOf(tea.KeyEnter))
	assertCalls(t, acts, "rename(m1,Account)")
	if row.Editing() {
		t.Fatalf("expected Viewing right after save")
	}
}

func TestModelItem_SaveUnchangedStillCallsRename(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	acts := &recordingActions{}

	send(row, acts, runes("e"), keyOf(tea.KeyEnter))
	assertCalls(t, acts, "rename(m1,User)")
}

func TestModelItem_SaveEmptyBufferStillCallsRename(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	acts := &recordingActions{}

	send(row, acts, runes("e"), keyOf(tea.KeyCtrlU), keyOf(tea.KeyEnter))
	assertCalls(t, acts, "rename(m1,)")
}

func TestModelItem_CancelDiscardsBufferWithoutRename(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	acts := &recordingActions{}

	send(row, acts, runes("e"), keyOf(tea.KeyCtrlU), runes("Scratch"), keyOf(tea.KeyEscape))
	assertCalls(t, acts)
	if row.Editing() {
		t.Fatalf("expected Viewing after cancel")
	}

	// Re-entering edit seeds from the committed name, not the abandoned buffer.
	send(row, acts, runes("e"))
	if got := row.EditBuffer(); got != "User" {
		t.Fatalf("expected fresh buffer %q; got %q", "User", got)
	}
	if strings.Contains(row.View(60, true), "Scratch") {
		t.Fatalf("abandoned buffer leaked into view")
	}
}

func TestModelItem_EditKeyWhileEditingIsText(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	acts := &recordingActions{}

	send(row, acts, runes("e"), runes("e"), runes("d"))
	if got := row.EditBuffer(); got != "Usered" {
		t.Fatalf("expected keys to go to the buffer while editing; got %q", got)
	}
	assertCalls(t, acts)
}

func TestModelItem_ToggleOnlyRequestsExpand(t *testing.T) {
	m := threePropModel()
	row := NewModelItem(m, false, nil)
	acts := &recordingActions{}

	send(row, acts, keyOf(tea.KeyEnter))
	assertCalls(t, acts, "toggle(m1)")
	if row.Expanded() {
		t.Fatalf("row must not flip expanded locally")
	}
	if diff := cmp.Diff(threePropModel().Properties, m.Properties); diff != "" {
		t.Fatalf("toggle mutated properties (-want +got):\n%s", diff)
	}

	// l only requests expand when collapsed; h only collapse when expanded.
	acts.calls = nil
	send(row, acts, runes("h"), runes("l"))
	assertCalls(t, acts, "toggle(m1)")

	acts.calls = nil
	row.Sync(m, true)
	send(row, acts, runes("l"), runes("h"))
	assertCalls(t, acts, "toggle(m1)")
}

func TestModelItem_CollapsedRendersNoPropertyRows(t *testing.T) {
	row := NewModelItem(threePropModel(), false, nil)
	out := row.View(60, true)
	for _, name := range []string{"id", "email", "age", "add property"} {
		if strings.Contains(out, name) {
			t.Fatalf("collapsed row rendered %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "User") || !strings.Contains(out, "(3 properties)") {
		t.Fatalf("expected header with count; got:\n%s", out)
	}
	if strings.Contains(out, propertiesHeader) {
		t.Fatalf("collapsed row rendered the column header:\n%s", out)
	}

	row.Sync(threePropModel(), true)
	out = row.View(60, true)
	for _, name := range []string{"id", "email", "age", "add property"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expanded row missing %q:\n%s", name, out)
		}
	}
}

func TestModelItem_ExpandedShowsColumnHeaderAboveProperties(t *testing.T) {
	row := NewModelItem(threePropModel(), true, nil)
	lines := strings.Split(row.View(80, false), "\n")

	header := slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, propertiesHeader) })
	first := slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, "id") && !strings.Contains(l, propertiesHeader) })
	if header < 0 {
		t.Fatalf("expected column header; got:\n%s", strings.Join(lines, "\n"))
	}
	if first <= header {
		t.Fatalf("expected property rows below the header (header=%d first=%d)", header, first)
	}

	row.CursorDown()
	if got := row.cursorLine(); got != first {
		t.Fatalf("expected cursor on line %d; got %d", first, got)
	}
}

func TestModelItem_AddPropertyRequestsOnceWithoutLocalRow(t *testing.T) {
	row := NewModelItem(userModel(), true, nil)
	acts := &recordingActions{}

	row.CursorBottom()
	before := row.View(60, true)

	send(row, acts, keyOf(tea.KeyEnter))
	assertCalls(t, acts, "addProperty(m1)")
	send(row, acts, keyOf(tea.KeyEnter))
	assertCalls(t, acts, "addProperty(m1)", "addProperty(m1)")

	if after := row.View(60, true); after != before {
		t.Fatalf("row rendered something new before the owner applied the add:\n%s", after)
	}
	if len(row.propRows) != 1 {
		t.Fatalf("expected 1 property row; got %d", len(row.propRows))
	}
}

func TestModelItem_DeletePropertyRoutesExactID(t *testing.T) {
	for i, wantID := range []string{"p1", "p2", "p3"} {
		row := NewModelItem(threePropModel(), true, nil)
		acts := &recordingActions{}
		for j := 0; j < i+1; j++ {
			if !row.CursorDown() {
				t.Fatalf("cursor stuck")
			}
		}
		send(row, acts, runes("d"))
		assertCalls(t, acts, fmt.Sprintf("deleteProperty(m1,%s)", wantID))
	}

	// Identity follows the id, not the position, across a reorder.
	row := NewModelItem(threePropModel(), true, nil)
	acts := &recordingActions{}
	row.CursorDown()
	row.CursorDown() // p2
	reordered := threePropModel()
	reordered.Properties = []model.Property{reordered.Properties[1], reordered.Properties[2], reordered.Properties[0]}
	row.Sync(reordered, true)
	if got := row.FocusedPropertyID(); got != "p2" {
		t.Fatalf("expected focus to stay on p2; got %q", got)
	}
	send(row, acts, runes("d"))
	assertCalls(t, acts, "deleteProperty(m1,p2)")
}

func TestModelItem_PropertyCallbacksCarryModelAndPropertyIDs(t *testing.T) {
	row := NewModelItem(threePropModel(), true, []string{"string", "text", "uuid"})
	acts := &recordingActions{}
	row.CursorDown()
	row.CursorDown() // p2 "email"

	send(row, acts, runes("e"), keyOf(tea.KeyCtrlU), runes("mail"), keyOf(tea.KeyEnter))
	send(row, acts, runes("t"), keyOf(tea.KeyCtrlU), runes("text"), keyOf(tea.KeyEnter))
	send(row, acts, keyOf(tea.KeySpace))
	send(row, acts, runes("t"), runes("xx"), keyOf(tea.KeyEscape))

	assertCalls(t, acts,
		"renameProperty(m1,p2,mail)",
		"dataType(m1,p2,text)",
		"key(m1,p2,true)",
	)
	if row.Editing() {
		t.Fatalf("expected no edit in progress after esc")
	}
}

func TestModelItem_CollapseDropsPropertyRowState(t *testing.T) {
	m := threePropModel()
	row := NewModelItem(m, true, nil)
	acts := &recordingActions{}
	row.CursorDown()
	send(row, acts, runes("e"))
	if !row.Editing() {
		t.Fatalf("expected property edit in progress")
	}

	row.Sync(m, false)
	if row.Editing() || len(row.propRows) != 0 {
		t.Fatalf("expected property rows dropped on collapse; editing=%v rows=%d", row.Editing(), len(row.propRows))
	}

	row.Sync(m, true)
	for id, pr := range row.propRows {
		if pr.Editing() {
			t.Fatalf("property %s kept edit state across collapse", id)
		}
	}
	if row.FocusedPropertyID() != "" {
		t.Fatalf("expected focus back on the header after collapse")
	}
	assertCalls(t, acts)
}

func TestModelItem_FocusLandsOnNeighborWhenPropertyVanishes(t *testing.T) {
	m := threePropModel()
	row := NewModelItem(m, true, nil)
	row.CursorDown()
	row.CursorDown()
	row.CursorDown() // p3

	m.Properties = m.Properties[:2]
	row.Sync(m, true)
	if got := row.FocusedPropertyID(); got != "p2" {
		t.Fatalf("expected focus on p2; got %q", got)
	}

	m.Properties = nil
	row.Sync(m, true)
	if row.focus != focusAddRow {
		t.Fatalf("expected focus on the add row when no properties remain")
	}
}

func TestModelItem_CursorEdges(t *testing.T) {
	row := NewModelItem(userModel(), false, nil)
	if row.CursorDown() || row.CursorUp() {
		t.Fatalf("collapsed row has a single cursor stop")
	}

	row.Sync(userModel(), true)
	if !row.CursorDown() || row.FocusedPropertyID() != "p1" {
		t.Fatalf("expected cursor on p1")
	}
	if !row.CursorDown() || row.focus != focusAddRow {
		t.Fatalf("expected cursor on add row")
	}
	if row.CursorDown() {
		t.Fatalf("expected bottom edge")
	}
	row.CursorTop()
	if row.focus != focusHeader {
		t.Fatalf("expected header after CursorTop")
	}
}

func TestModelItem_UserScenario(t *testing.T) {
	setGlyphs(glyphSetUnicode)
	row := NewModelItem(userModel(), true, nil)
	acts := &recordingActions{}

	out := row.View(60, false)
	var propLine string
	for _, ln := range strings.Split(out, "\n") {
		if strings.Contains(ln, "email") {
			propLine = ln
		}
	}
	if propLine == "" || !strings.Contains(propLine, "string") || !strings.Contains(propLine, glyphKey()) {
		t.Fatalf("expected email/string row with key marker; got:\n%s", out)
	}

	send(row, acts, runes("e"), keyOf(tea.KeyCtrlU), runes("Account"), keyOf(tea.KeyEnter))
	assertCalls(t, acts, "rename(m1,Account)")

	// Still the committed name until the owner applies the rename.
	if !strings.Contains(row.View(60, false), "User") {
		t.Fatalf("row displayed an uncommitted name")
	}

	applied := userModel()
	applied.Name = "Account"
	row.Sync(applied, true)
	out = row.View(60, false)
	if !strings.Contains(out, "Account") || strings.Contains(out, "User") {
		t.Fatalf("expected Account after owner applied rename; got:\n%s", out)
	}
}
