// Package export renders a workspace's models into external schema formats and
// reads the YAML format back.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"schemadesk/internal/model"
)

type Format string

const (
	FormatYAML     Format = "yaml"
	FormatSQL      Format = "sql"
	FormatMermaid  Format = "mermaid"
	FormatDBML     Format = "dbml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatYAML, FormatSQL, FormatMermaid, FormatDBML, FormatMarkdown}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "sql", "ddl", "postgres":
		return FormatSQL, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dbml":
		return FormatDBML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Write renders models in the given format.
func Write(w io.Writer, models []model.Model, f Format) error {
	switch f {
	case FormatYAML:
		return WriteYAML(w, models)
	case FormatSQL:
		return WriteSQL(w, models)
	case FormatMermaid:
		return WriteMermaid(w, models)
	case FormatDBML:
		return WriteDBML(w, models)
	case FormatMarkdown:
		return WriteMarkdown(w, models)
	default:
		return fmt.Errorf("unknown export format: %s", f)
	}
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// identifier turns a free-form name into a bare identifier for formats that
// don't support quoting (mermaid, dbml).
func identifier(name string) string {
	id := strings.Trim(nonIdent.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}
