package model

import "time"

type Property struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	DataType string `json:"dataType" yaml:"dataType"`
	IsKey    bool   `json:"isKey" yaml:"isKey"`
}

type Model struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Properties are kept in display order.
	Properties []Property `json:"properties" yaml:"properties"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// PropertyIndex returns the position of the property with the given id, or -1.
func (m *Model) PropertyIndex(id string) int {
	for i := range m.Properties {
		if m.Properties[i].ID == id {
			return i
		}
	}
	return -1
}

// KeyNames returns the names of key properties in display order.
func (m Model) KeyNames() []string {
	var out []string
	for _, p := range m.Properties {
		if p.IsKey {
			out = append(out, p.Name)
		}
	}
	return out
}

type Event struct {
	ID       string    `json:"id" yaml:"id"`
	TS       time.Time `json:"ts" yaml:"ts"`
	Type     string    `json:"type" yaml:"type"`
	EntityID string    `json:"entityId" yaml:"entityId"`
	Payload  any       `json:"payload" yaml:"payload"`
}
