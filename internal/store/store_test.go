package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schemadesk/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDB() *DB {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &DB{
		Version: 1,
		Models: []model.Model{
			{
				ID:   "mdl-user",
				Name: "User",
				Properties: []model.Property{
					{ID: "prop-id", Name: "id", DataType: "uuid", IsKey: true},
					{ID: "prop-email", Name: "email", DataType: "string"},
				},
				CreatedAt: ts,
				UpdatedAt: ts,
			},
			{
				ID:         "mdl-post",
				Name:       "Post",
				Properties: []model.Property{},
				CreatedAt:  ts,
				UpdatedAt:  ts,
			},
		},
		RetiredIDs: []string{"prop-gone"},
	}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	want := sampleDB()
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Load_FreshWorkspaceIsEmpty(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), DirName)
	s := Store{Dir: dir}

	db, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, db.Version)
	assert.Empty(t, db.Models)
	assert.NotNil(t, db.Models)

	_, err = os.Stat(filepath.Join(dir, sqliteFileName))
	assert.NoError(t, err, "sqlite file should be created on first load")
}

func TestStore_Save_PreservesPropertyOrder(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	db := sampleDB()
	u := &db.Models[0]
	u.Properties[0], u.Properties[1] = u.Properties[1], u.Properties[0]
	db.Models[0], db.Models[1] = db.Models[1], db.Models[0]
	require.NoError(t, s.Save(db))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.Models, 2)
	assert.Equal(t, "mdl-post", got.Models[0].ID)
	assert.Equal(t, []string{"prop-email", "prop-id"}, []string{got.Models[1].Properties[0].ID, got.Models[1].Properties[1].ID})
}

func TestStore_Save_ReplacesDeletedRows(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	db := sampleDB()
	require.NoError(t, s.Save(db))

	db.Models = db.Models[:1]
	db.Models[0].Properties = db.Models[0].Properties[:1]
	require.NoError(t, s.Save(db))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.Models, 1)
	require.Len(t, got.Models[0].Properties, 1)
	assert.Equal(t, "prop-id", got.Models[0].Properties[0].ID)
}

func TestDB_FindHelpers(t *testing.T) {
	t.Parallel()

	db := sampleDB()

	m, ok := db.FindModel("mdl-post")
	require.True(t, ok)
	assert.Equal(t, "Post", m.Name)
	assert.Equal(t, 1, db.ModelIndex("mdl-post"))
	assert.Equal(t, -1, db.ModelIndex("mdl-nope"))

	m, p, ok := db.FindProperty("mdl-user", "prop-email")
	require.True(t, ok)
	assert.Equal(t, "User", m.Name)
	assert.Equal(t, "email", p.Name)

	p.Name = "mail"
	assert.Equal(t, "mail", db.Models[0].Properties[1].Name, "FindProperty returns a pointer into the snapshot")

	_, _, ok = db.FindProperty("mdl-user", "prop-nope")
	assert.False(t, ok)
}

func TestDB_CloneIsDeep(t *testing.T) {
	t.Parallel()

	db := sampleDB()
	c := db.Clone()
	c.Models[0].Name = "Changed"
	c.Models[0].Properties[0].Name = "changed"

	assert.Equal(t, "User", db.Models[0].Name)
	assert.Equal(t, "id", db.Models[0].Properties[0].Name)
}

func TestRandomIDs_SkipsExistingAndRetired(t *testing.T) {
	t.Parallel()

	db := sampleDB()
	id, err := RandomIDs{}.NewID(db, PrefixProperty)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "prop-"))
	assert.Len(t, strings.TrimPrefix(id, "prop-"), 8)
	assert.False(t, idExists(db, id))

	assert.True(t, idExists(db, "prop-gone"))
	assert.True(t, idExists(db, "mdl-user"))
	assert.True(t, idExists(db, "prop-email"))
}

func TestEvents_AppendRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.AppendEvent(ctx, "model.create", "mdl-1", map[string]any{"name": "User"}))
	require.NoError(t, s.AppendEvent(ctx, "model.rename", "mdl-1", map[string]any{"name": "Account"}))
	require.NoError(t, s.AppendEvent(ctx, "model.delete", "mdl-1", nil))

	all, err := s.ReadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"model.create", "model.rename", "model.delete"}, []string{all[0].Type, all[1].Type, all[2].Type})
	assert.Equal(t, map[string]any{"name": "User"}, all[0].Payload)
	assert.NotEqual(t, all[0].ID, all[1].ID)

	last, err := s.ReadEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "model.rename", last[0].Type)
	assert.Equal(t, "model.delete", last[1].Type)
}

func TestStore_Save_WritesEventsInSameTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.Save(sampleDB(), PendingEvent{Type: "model.create", EntityID: "mdl-user", Payload: map[string]any{"name": "User"}}))

	evs, err := s.ReadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "model.create", evs[0].Type)
	assert.Equal(t, "mdl-user", evs[0].EntityID)

	// An event that can't be encoded rolls back the snapshot too.
	next := sampleDB()
	next.Models[0].Name = "Account"
	err = s.Save(next, PendingEvent{Type: "model.rename", EntityID: "mdl-user", Payload: map[string]any{"bad": make(chan int)}})
	require.Error(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "User", got.Models[0].Name)
	evs, err = s.ReadEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestViewState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	st0, err := s.LoadViewState()
	require.NoError(t, err)
	assert.Equal(t, &ViewState{Version: 1}, st0)

	want := &ViewState{
		Version:          1,
		ExpandedModelIDs: []string{"mdl-a", "mdl-b"},
		SelectedModelID:  "mdl-b",
		ShowPreview:      true,
	}
	require.NoError(t, s.SaveViewState(want))

	got, err := s.LoadViewState()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestViewState_CorruptedFileIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, viewStateFileName), []byte("{nope"), 0o644))

	st, err := Store{Dir: dir}.LoadViewState()
	require.NoError(t, err)
	assert.Equal(t, &ViewState{Version: 1}, st)
}

func TestDiscoverDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(ws, 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok := DiscoverDir(nested)
	require.True(t, ok)
	assert.Equal(t, ws, got)
}

func TestStore_ModTimeAndDataFiles(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	assert.True(t, s.ModTime().IsZero())

	require.NoError(t, s.Save(sampleDB()))
	assert.False(t, s.ModTime().IsZero())

	assert.True(t, IsDataFile(filepath.Join(s.Dir, "schemadesk.sqlite")))
	assert.True(t, IsDataFile("schemadesk.sqlite-wal"))
	assert.False(t, IsDataFile(filepath.Join(s.Dir, "view_state.json")))
}
