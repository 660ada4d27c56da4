package export

import (
	"fmt"
	"io"

	"schemadesk/internal/model"

	"gopkg.in/yaml.v3"
)

// yamlSchema is the on-disk YAML shape. Lists (not maps) keep display order.
type yamlSchema struct {
	Models []yamlModel `yaml:"models"`
}

type yamlModel struct {
	Name       string         `yaml:"name"`
	Properties []yamlProperty `yaml:"properties,omitempty"`
}

type yamlProperty struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Key  bool   `yaml:"key,omitempty"`
}

func WriteYAML(w io.Writer, models []model.Model) (err error) {
	if _, err := fmt.Fprintln(w, "# schemadesk schema"); err != nil {
		return err
	}

	ys := yamlSchema{Models: make([]yamlModel, 0, len(models))}
	for _, m := range models {
		ym := yamlModel{Name: m.Name}
		for _, p := range m.Properties {
			ym.Properties = append(ym.Properties, yamlProperty{Name: p.Name, Type: p.DataType, Key: p.IsKey})
		}
		ys.Models = append(ys.Models, ym)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return enc.Encode(ys)
}

// ReadYAML parses the YAML format. Returned models carry names and ordered
// properties only; ids are left empty for the caller to assign.
func ReadYAML(r io.Reader) ([]model.Model, error) {
	var ys yamlSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ys); err != nil {
		if err == io.EOF {
			return []model.Model{}, nil
		}
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	out := make([]model.Model, 0, len(ys.Models))
	for i, ym := range ys.Models {
		if ym.Name == "" {
			return nil, fmt.Errorf("parsing schema: models[%d] has no name", i)
		}
		m := model.Model{Name: ym.Name, Properties: []model.Property{}}
		for _, yp := range ym.Properties {
			m.Properties = append(m.Properties, model.Property{Name: yp.Name, DataType: yp.Type, IsKey: yp.Key})
		}
		out = append(out, m)
	}
	return out, nil
}
