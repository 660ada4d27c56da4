package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"schemadesk/internal/model"
	"schemadesk/internal/mutate"
)

// All command output is wrapped in a {"data": ...} envelope. Mutations add a
// "meta" object so scripts can tell a no-op from a write.

type mutationMeta struct {
	Changed bool   `json:"changed" yaml:"changed"`
	Event   string `json:"event,omitempty" yaml:"event,omitempty"`
}

func metaOf(res mutate.Result) *mutationMeta {
	return &mutationMeta{Changed: res.Changed, Event: res.EventType}
}

type modelsOut struct {
	Data []model.Model `json:"data" yaml:"data"`
}

func (o modelsOut) TableHeader() []string { return []string{"ID", "NAME", "PROPERTIES", "KEYS"} }

func (o modelsOut) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Data))
	for _, m := range o.Data {
		rows = append(rows, []string{m.ID, m.Name, strconv.Itoa(len(m.Properties)), strings.Join(m.KeyNames(), ", ")})
	}
	return rows
}

type modelOut struct {
	Data model.Model   `json:"data" yaml:"data"`
	Meta *mutationMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// A single model renders as its property table.
func (o modelOut) TableHeader() []string { return propertyHeader }

func (o modelOut) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Data.Properties))
	for _, p := range o.Data.Properties {
		rows = append(rows, propertyRow(p))
	}
	return rows
}

type propertyOut struct {
	Data    model.Property `json:"data" yaml:"data"`
	ModelID string         `json:"modelId" yaml:"modelId"`
	Meta    *mutationMeta  `json:"meta,omitempty" yaml:"meta,omitempty"`
}

func (o propertyOut) TableHeader() []string { return propertyHeader }

func (o propertyOut) TableRows() [][]string { return [][]string{propertyRow(o.Data)} }

var propertyHeader = []string{"ID", "NAME", "TYPE", "KEY"}

func propertyRow(p model.Property) []string {
	k := ""
	if p.IsKey {
		k = "yes"
	}
	return []string{p.ID, p.Name, p.DataType, k}
}

type eventsOut struct {
	Data []model.Event `json:"data" yaml:"data"`
}

func (o eventsOut) TableHeader() []string { return []string{"TS", "TYPE", "ENTITY", "PAYLOAD"} }

func (o eventsOut) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Data))
	for _, ev := range o.Data {
		rows = append(rows, []string{ev.TS.Format(time.RFC3339), ev.Type, ev.EntityID, fmt.Sprint(ev.Payload)})
	}
	return rows
}

type dataTypesOut struct {
	Data []string `json:"data" yaml:"data"`
}

func (o dataTypesOut) TableHeader() []string { return []string{"DATATYPE"} }

func (o dataTypesOut) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Data))
	for _, n := range o.Data {
		rows = append(rows, []string{n})
	}
	return rows
}

type importSummary struct {
	File      string `json:"file" yaml:"file"`
	Models    int    `json:"models" yaml:"models"`
	Changes   int    `json:"changes" yaml:"changes"`
	Unchanged int    `json:"unchanged" yaml:"unchanged"`
}

type importOut struct {
	Data importSummary `json:"data" yaml:"data"`
}

func (o importOut) TableHeader() []string { return []string{"FILE", "MODELS", "CHANGES", "UNCHANGED"} }

func (o importOut) TableRows() [][]string {
	d := o.Data
	return [][]string{{d.File, strconv.Itoa(d.Models), strconv.Itoa(d.Changes), strconv.Itoa(d.Unchanged)}}
}

type exportFile struct {
	Path   string `json:"path" yaml:"path"`
	Format string `json:"format" yaml:"format"`
	Models int    `json:"models" yaml:"models"`
}

type exportOut struct {
	Data exportFile `json:"data" yaml:"data"`
}
