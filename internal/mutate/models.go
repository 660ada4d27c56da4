package mutate

import (
	"strings"
	"time"

	"schemadesk/internal/model"
	"schemadesk/internal/store"
)

const (
	EventModelCreate = "model.create"
	EventModelRename = "model.rename"
	EventModelDelete = "model.delete"
	EventModelMove   = "model.move"
)

// Result describes one applied (or no-op) mutation.
// Callers are responsible for saving db and appending the event when Changed.
type Result struct {
	Model    *model.Model
	Property *model.Property
	Changed  bool

	EventType    string
	EntityID     string
	EventPayload map[string]any
}

// Events returns the event-log entries to save with the snapshot. Empty for a no-op.
func Events(results ...Result) []store.PendingEvent {
	var out []store.PendingEvent
	for _, r := range results {
		if r.Changed {
			out = append(out, store.PendingEvent{Type: r.EventType, EntityID: r.EntityID, Payload: r.EventPayload})
		}
	}
	return out
}

func CreateModel(db *store.DB, ids store.IDGen, name string) (Result, error) {
	n, err := cleanName("model name", name)
	if err != nil {
		return Result{}, err
	}
	if modelNameTaken(db, n, "") {
		return Result{}, ValidationError{Field: "model name", Value: n, Err: ErrDuplicateName}
	}
	id, err := ids.NewID(db, store.PrefixModel)
	if err != nil {
		return Result{}, err
	}
	now := time.Now().UTC()
	db.Models = append(db.Models, model.Model{
		ID:         id,
		Name:       n,
		Properties: []model.Property{},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	m := &db.Models[len(db.Models)-1]
	return Result{
		Model:        m,
		Changed:      true,
		EventType:    EventModelCreate,
		EntityID:     id,
		EventPayload: map[string]any{"name": n},
	}, nil
}

// RenameModel commits a model name. An unchanged name is a no-op.
func RenameModel(db *store.DB, modelID, name string) (Result, error) {
	m, ok := db.FindModel(strings.TrimSpace(modelID))
	if !ok {
		return Result{}, NotFoundError{Kind: "model", ID: modelID}
	}
	n, err := cleanName("model name", name)
	if err != nil {
		return Result{}, err
	}
	if n == m.Name {
		return Result{Model: m}, nil
	}
	if modelNameTaken(db, n, m.ID) {
		return Result{}, ValidationError{Field: "model name", Value: n, Err: ErrDuplicateName}
	}
	prev := m.Name
	m.Name = n
	m.UpdatedAt = time.Now().UTC()
	return Result{
		Model:        m,
		Changed:      true,
		EventType:    EventModelRename,
		EntityID:     m.ID,
		EventPayload: map[string]any{"name": n, "previous": prev},
	}, nil
}

// DeleteModel removes a model and retires its id and its property ids.
// The returned Model is a detached copy.
func DeleteModel(db *store.DB, modelID string) (Result, error) {
	i := db.ModelIndex(strings.TrimSpace(modelID))
	if i < 0 {
		return Result{}, NotFoundError{Kind: "model", ID: modelID}
	}
	gone := db.Models[i]
	db.Models = append(db.Models[:i], db.Models[i+1:]...)

	propIDs := make([]string, 0, len(gone.Properties))
	for _, p := range gone.Properties {
		propIDs = append(propIDs, p.ID)
	}
	db.Retire(gone.ID)
	db.Retire(propIDs...)

	return Result{
		Model:        &gone,
		Changed:      true,
		EventType:    EventModelDelete,
		EntityID:     gone.ID,
		EventPayload: map[string]any{"name": gone.Name, "propertyIds": propIDs},
	}, nil
}

// MoveModel shifts a model by delta positions, clamped to the list bounds.
func MoveModel(db *store.DB, modelID string, delta int) (Result, error) {
	i := db.ModelIndex(strings.TrimSpace(modelID))
	if i < 0 {
		return Result{}, NotFoundError{Kind: "model", ID: modelID}
	}
	j := clampMove(i, delta, len(db.Models))
	if j == i {
		return Result{Model: &db.Models[i]}, nil
	}
	m := db.Models[i]
	db.Models = append(db.Models[:i], db.Models[i+1:]...)
	db.Models = append(db.Models[:j], append([]model.Model{m}, db.Models[j:]...)...)
	return Result{
		Model:        &db.Models[j],
		Changed:      true,
		EventType:    EventModelMove,
		EntityID:     m.ID,
		EventPayload: map[string]any{"from": i, "to": j},
	}, nil
}
