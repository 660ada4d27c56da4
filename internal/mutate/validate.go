package mutate

import (
	"fmt"
	"strings"

	"schemadesk/internal/model"
	"schemadesk/internal/store"
)

func cleanName(field, name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ValidationError{Field: field, Value: name, Err: ErrEmptyName}
	}
	return n, nil
}

// Names compare case-insensitively so "User" and "user" can't both exist.
func modelNameTaken(db *store.DB, name, exceptID string) bool {
	for _, m := range db.Models {
		if m.ID != exceptID && strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

func propertyNameTaken(m *model.Model, name, exceptID string) bool {
	for _, p := range m.Properties {
		if p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func cleanDataType(dataType string, allowed model.DataTypeSet) (string, error) {
	dt := model.NormalizeDataType(dataType)
	if dt == "" || !allowed.Contains(dt) {
		return "", ValidationError{Field: "datatype", Value: dataType, Err: ErrUnknownDataType}
	}
	return dt, nil
}

// NextModelName returns the first free model_N name in db.
func NextModelName(db *store.DB) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("model_%d", n)
		if !modelNameTaken(db, name, "") {
			return name
		}
	}
}

// nextPropertyName returns the first free property_N name within m.
func nextPropertyName(m *model.Model) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("property_%d", n)
		if !propertyNameTaken(m, name, "") {
			return name
		}
	}
}

func clampMove(i, delta, n int) int {
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > n-1 {
		j = n - 1
	}
	return j
}
