package export

import (
	"bytes"
	"strings"
	"testing"

	"schemadesk/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModels() []model.Model {
	return []model.Model{
		{
			ID:   "mdl-user",
			Name: "User",
			Properties: []model.Property{
				{ID: "prop-id", Name: "id", DataType: "uuid", IsKey: true},
				{ID: "prop-email", Name: "email", DataType: "string"},
				{ID: "prop-meta", Name: "meta", DataType: "json"},
			},
		},
		{ID: "mdl-empty", Name: "Audit Log", Properties: []model.Property{}},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"yaml":     FormatYAML,
		"YML":      FormatYAML,
		"ddl":      FormatSQL,
		"sql":      FormatSQL,
		"mmd":      FormatMermaid,
		"dbml":     FormatDBML,
		" md ":     FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.EqualError(t, err, "unknown export format: xml")
}

func TestWriteSQL(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSQL(&buf, sampleModels()))

	want := `CREATE TABLE "User" (
  "id" uuid NOT NULL,
  "email" varchar(255),
  "meta" jsonb,
  PRIMARY KEY ("id")
);

CREATE TABLE "Audit Log" (
);
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("sql mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSQL_QuotesIdentifiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	models := []model.Model{{Name: `we"ird`, Properties: []model.Property{{Name: "x", DataType: "geometry"}}}}
	require.NoError(t, WriteSQL(&buf, models))
	assert.Contains(t, buf.String(), `CREATE TABLE "we""ird" (`)
	assert.Contains(t, buf.String(), `"x" geometry`)
}

func TestWriteMermaid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteMermaid(&buf, sampleModels()))

	want := `erDiagram
    User {
        uuid id PK
        string email
        json meta
    }
    Audit_Log {
    }
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("mermaid mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDBML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleModels()[:1], FormatDBML))

	want := `Table User {
  id uuid [pk]
  email string
  meta json
}
`
	assert.Equal(t, want, buf.String())
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	md := Markdown(sampleModels())
	assert.Contains(t, md, "## User\n")
	assert.Contains(t, md, "| id | `uuid` | yes |")
	assert.Contains(t, md, "| email | `string` |  |")
	assert.Contains(t, md, "## Audit Log\n\n_No properties._")
}

func TestYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleModels(), FormatYAML))
	assert.True(t, strings.HasPrefix(buf.String(), "# schemadesk schema\n"))

	got, err := ReadYAML(&buf)
	require.NoError(t, err)

	want := []model.Model{
		{
			Name: "User",
			Properties: []model.Property{
				{Name: "id", DataType: "uuid", IsKey: true},
				{Name: "email", DataType: "string"},
				{Name: "meta", DataType: "json"},
			},
		},
		{Name: "Audit Log", Properties: []model.Property{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("yaml roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadYAML_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadYAML(strings.NewReader("models:\n  - properties: []\n"))
	assert.ErrorContains(t, err, "models[0] has no name")

	_, err = ReadYAML(strings.NewReader("models:\n  - name: A\n    colour: red\n"))
	assert.ErrorContains(t, err, "parsing schema")

	got, err := ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Audit_Log", identifier("Audit Log"))
	assert.Equal(t, "_2fa", identifier("2fa"))
	assert.Equal(t, "_", identifier("!!"))
	assert.Equal(t, "varchar_255", identifier("varchar(255)"))
}
