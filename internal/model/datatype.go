package model

import (
	"sort"
	"strings"
)

// DefaultDataTypes is the built-in set of property datatypes.
var DefaultDataTypes = []string{
	"string",
	"text",
	"int",
	"bigint",
	"float",
	"decimal",
	"bool",
	"date",
	"datetime",
	"uuid",
	"json",
	"bytes",
}

// dataTypeAliases maps common spellings (including Postgres catalog names) onto the
// canonical datatype labels.
var dataTypeAliases = map[string]string{
	"str":                         "string",
	"varchar":                     "string",
	"character varying":           "string",
	"char":                        "string",
	"character":                   "string",
	"integer":                     "int",
	"int4":                        "int",
	"smallint":                    "int",
	"int8":                        "bigint",
	"long":                        "bigint",
	"double":                      "float",
	"double precision":            "float",
	"real":                        "float",
	"numeric":                     "decimal",
	"boolean":                     "bool",
	"timestamp":                   "datetime",
	"timestamptz":                 "datetime",
	"timestamp with time zone":    "datetime",
	"timestamp without time zone": "datetime",
	"jsonb":                       "json",
	"bytea":                       "bytes",
	"blob":                        "bytes",
}

// NormalizeDataType lowercases and trims s and resolves known aliases.
func NormalizeDataType(s string) string {
	dt := strings.ToLower(strings.TrimSpace(s))
	dt = strings.Join(strings.Fields(dt), " ")
	if canon, ok := dataTypeAliases[dt]; ok {
		return canon
	}
	return dt
}

// DataTypeSet is the enumerated set of datatypes a workspace accepts.
type DataTypeSet struct {
	names []string
	index map[string]bool
}

// NewDataTypeSet builds a set from the defaults plus extra (normalized, deduplicated).
// Defaults keep their order; extras follow sorted.
func NewDataTypeSet(extra ...string) DataTypeSet {
	s := DataTypeSet{index: map[string]bool{}}
	for _, n := range DefaultDataTypes {
		s.add(n)
	}
	var more []string
	for _, n := range extra {
		n = NormalizeDataType(n)
		if n == "" || s.index[n] {
			continue
		}
		more = append(more, n)
	}
	sort.Strings(more)
	for _, n := range more {
		s.add(n)
	}
	return s
}

func (s *DataTypeSet) add(n string) {
	if s.index[n] {
		return
	}
	s.index[n] = true
	s.names = append(s.names, n)
}

// Contains reports whether the normalized form of dt is in the set.
func (s DataTypeSet) Contains(dt string) bool {
	if s.index == nil {
		return NewDataTypeSet().Contains(dt)
	}
	return s.index[NormalizeDataType(dt)]
}

// Names returns the set members in display order.
func (s DataTypeSet) Names() []string {
	if s.index == nil {
		return NewDataTypeSet().Names()
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
