package export

import (
	"fmt"
	"io"
	"strings"

	"schemadesk/internal/model"
)

var postgresTypes = map[string]string{
	"string":   "varchar(255)",
	"text":     "text",
	"int":      "integer",
	"bigint":   "bigint",
	"float":    "double precision",
	"decimal":  "numeric",
	"bool":     "boolean",
	"date":     "date",
	"datetime": "timestamptz",
	"uuid":     "uuid",
	"json":     "jsonb",
	"bytes":    "bytea",
}

// PostgresType maps a datatype label onto a PostgreSQL column type.
// Unknown (custom) labels pass through unchanged.
func PostgresType(dataType string) string {
	dt := model.NormalizeDataType(dataType)
	if t, ok := postgresTypes[dt]; ok {
		return t
	}
	return dt
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteSQL writes one PostgreSQL CREATE TABLE statement per model.
// Key properties become NOT NULL and form the table's primary key.
func WriteSQL(w io.Writer, models []model.Model) error {
	var sb strings.Builder
	for i, m := range models {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "CREATE TABLE %s (\n", quoteIdent(m.Name))

		var defs []string
		var keys []string
		for _, p := range m.Properties {
			def := fmt.Sprintf("  %s %s", quoteIdent(p.Name), PostgresType(p.DataType))
			if p.IsKey {
				def += " NOT NULL"
				keys = append(keys, quoteIdent(p.Name))
			}
			defs = append(defs, def)
		}
		if len(keys) > 0 {
			defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(keys, ", ")))
		}
		sb.WriteString(strings.Join(defs, ",\n"))
		if len(defs) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(");\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
