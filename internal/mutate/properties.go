package mutate

import (
	"strings"
	"time"

	"schemadesk/internal/model"
	"schemadesk/internal/store"
)

const (
	EventPropertyAdd      = "property.add"
	EventPropertyRename   = "property.rename"
	EventPropertyDataType = "property.datatype"
	EventPropertyKey      = "property.key"
	EventPropertyDelete   = "property.delete"
	EventPropertyMove     = "property.move"
)

const DefaultDataType = "string"

// PropertySpec describes a property to add. Zero values pick defaults:
// the first free property_N name and the "string" datatype.
type PropertySpec struct {
	Name     string
	DataType string
	IsKey    bool
}

func findModel(db *store.DB, modelID string) (*model.Model, error) {
	m, ok := db.FindModel(strings.TrimSpace(modelID))
	if !ok {
		return nil, NotFoundError{Kind: "model", ID: modelID}
	}
	return m, nil
}

func findProperty(db *store.DB, modelID, propID string) (*model.Model, *model.Property, error) {
	m, err := findModel(db, modelID)
	if err != nil {
		return nil, nil, err
	}
	i := m.PropertyIndex(strings.TrimSpace(propID))
	if i < 0 {
		return m, nil, NotFoundError{Kind: "property", ID: propID}
	}
	return m, &m.Properties[i], nil
}

func AddProperty(db *store.DB, ids store.IDGen, modelID string, spec PropertySpec, allowed model.DataTypeSet) (Result, error) {
	m, err := findModel(db, modelID)
	if err != nil {
		return Result{}, err
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = nextPropertyName(m)
	}
	if propertyNameTaken(m, name, "") {
		return Result{}, ValidationError{Field: "property name", Value: name, Err: ErrDuplicateName}
	}
	dt := spec.DataType
	if strings.TrimSpace(dt) == "" {
		dt = DefaultDataType
	}
	dt, err = cleanDataType(dt, allowed)
	if err != nil {
		return Result{}, err
	}
	id, err := ids.NewID(db, store.PrefixProperty)
	if err != nil {
		return Result{}, err
	}

	m.Properties = append(m.Properties, model.Property{ID: id, Name: name, DataType: dt, IsKey: spec.IsKey})
	m.UpdatedAt = time.Now().UTC()
	p := &m.Properties[len(m.Properties)-1]
	return Result{
		Model:     m,
		Property:  p,
		Changed:   true,
		EventType: EventPropertyAdd,
		EntityID:  id,
		EventPayload: map[string]any{
			"modelId":  m.ID,
			"name":     p.Name,
			"dataType": p.DataType,
			"isKey":    p.IsKey,
		},
	}, nil
}

// DeleteProperty removes a property and retires its id. The returned Property is a detached copy.
func DeleteProperty(db *store.DB, modelID, propID string) (Result, error) {
	m, p, err := findProperty(db, modelID, propID)
	if err != nil {
		return Result{}, err
	}
	gone := *p
	i := m.PropertyIndex(gone.ID)
	m.Properties = append(m.Properties[:i], m.Properties[i+1:]...)
	m.UpdatedAt = time.Now().UTC()
	db.Retire(gone.ID)
	return Result{
		Model:        m,
		Property:     &gone,
		Changed:      true,
		EventType:    EventPropertyDelete,
		EntityID:     gone.ID,
		EventPayload: map[string]any{"modelId": m.ID, "name": gone.Name},
	}, nil
}

func RenameProperty(db *store.DB, modelID, propID, name string) (Result, error) {
	m, p, err := findProperty(db, modelID, propID)
	if err != nil {
		return Result{}, err
	}
	n, err := cleanName("property name", name)
	if err != nil {
		return Result{}, err
	}
	if n == p.Name {
		return Result{Model: m, Property: p}, nil
	}
	if propertyNameTaken(m, n, p.ID) {
		return Result{}, ValidationError{Field: "property name", Value: n, Err: ErrDuplicateName}
	}
	prev := p.Name
	p.Name = n
	m.UpdatedAt = time.Now().UTC()
	return Result{
		Model:        m,
		Property:     p,
		Changed:      true,
		EventType:    EventPropertyRename,
		EntityID:     p.ID,
		EventPayload: map[string]any{"modelId": m.ID, "name": n, "previous": prev},
	}, nil
}

func SetPropertyDataType(db *store.DB, modelID, propID, dataType string, allowed model.DataTypeSet) (Result, error) {
	m, p, err := findProperty(db, modelID, propID)
	if err != nil {
		return Result{}, err
	}
	dt, err := cleanDataType(dataType, allowed)
	if err != nil {
		return Result{}, err
	}
	if dt == p.DataType {
		return Result{Model: m, Property: p}, nil
	}
	prev := p.DataType
	p.DataType = dt
	m.UpdatedAt = time.Now().UTC()
	return Result{
		Model:        m,
		Property:     p,
		Changed:      true,
		EventType:    EventPropertyDataType,
		EntityID:     p.ID,
		EventPayload: map[string]any{"modelId": m.ID, "dataType": dt, "previous": prev},
	}, nil
}

func SetPropertyKey(db *store.DB, modelID, propID string, isKey bool) (Result, error) {
	m, p, err := findProperty(db, modelID, propID)
	if err != nil {
		return Result{}, err
	}
	if p.IsKey == isKey {
		return Result{Model: m, Property: p}, nil
	}
	p.IsKey = isKey
	m.UpdatedAt = time.Now().UTC()
	return Result{
		Model:        m,
		Property:     p,
		Changed:      true,
		EventType:    EventPropertyKey,
		EntityID:     p.ID,
		EventPayload: map[string]any{"modelId": m.ID, "isKey": isKey},
	}, nil
}

// MoveProperty shifts a property by delta positions within its model, clamped to bounds.
func MoveProperty(db *store.DB, modelID, propID string, delta int) (Result, error) {
	m, p, err := findProperty(db, modelID, propID)
	if err != nil {
		return Result{}, err
	}
	i := m.PropertyIndex(p.ID)
	j := clampMove(i, delta, len(m.Properties))
	if j == i {
		return Result{Model: m, Property: p}, nil
	}
	moved := *p
	m.Properties = append(m.Properties[:i], m.Properties[i+1:]...)
	m.Properties = append(m.Properties[:j], append([]model.Property{moved}, m.Properties[j:]...)...)
	m.UpdatedAt = time.Now().UTC()
	return Result{
		Model:        m,
		Property:     &m.Properties[j],
		Changed:      true,
		EventType:    EventPropertyMove,
		EntityID:     moved.ID,
		EventPayload: map[string]any{"modelId": m.ID, "from": i, "to": j},
	}, nil
}
