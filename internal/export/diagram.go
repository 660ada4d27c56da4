package export

import (
	"fmt"
	"io"
	"strings"

	"schemadesk/internal/model"
)

// WriteMermaid writes a Mermaid erDiagram. Key properties carry a PK annotation.
func WriteMermaid(w io.Writer, models []model.Model) error {
	var sb strings.Builder
	sb.WriteString("erDiagram\n")
	for _, m := range models {
		fmt.Fprintf(&sb, "    %s {\n", identifier(m.Name))
		for _, p := range m.Properties {
			annotation := ""
			if p.IsKey {
				annotation = " PK"
			}
			fmt.Fprintf(&sb, "        %s %s%s\n", identifier(p.DataType), identifier(p.Name), annotation)
		}
		sb.WriteString("    }\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteDBML writes one DBML Table block per model.
func WriteDBML(w io.Writer, models []model.Model) error {
	var sb strings.Builder
	for i, m := range models {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Table %s {\n", identifier(m.Name))
		for _, p := range m.Properties {
			settings := ""
			if p.IsKey {
				settings = " [pk]"
			}
			fmt.Fprintf(&sb, "  %s %s%s\n", identifier(p.Name), identifier(p.DataType), settings)
		}
		sb.WriteString("}\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteMarkdown writes a heading and a property table per model.
func WriteMarkdown(w io.Writer, models []model.Model) error {
	_, err := io.WriteString(w, Markdown(models))
	return err
}

func Markdown(models []model.Model) string {
	var sb strings.Builder
	for i, m := range models {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", escapeMarkdown(m.Name))
		if len(m.Properties) == 0 {
			sb.WriteString("_No properties._\n")
			continue
		}
		sb.WriteString("| Property | Type | Key |\n")
		sb.WriteString("| --- | --- | :---: |\n")
		for _, p := range m.Properties {
			key := ""
			if p.IsKey {
				key = "yes"
			}
			fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", escapeMarkdown(p.Name), p.DataType, key)
		}
	}
	return sb.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}
