package document

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
)

// yamlDocument mirrors the on-disk document format.
type yamlDocument struct {
	Name       string          `yaml:"name"`
	Parameters []yamlParameter `yaml:"parameters"`
	Bodies     []yamlEntity    `yaml:"bodies"`
	Components []yamlEntity    `yaml:"components"`
}

type yamlParameter struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
	Unit       string `yaml:"unit"`
}

type yamlEntity struct {
	Name   string    `yaml:"name"`
	Hidden bool      `yaml:"hidden"`
	Size   [3]string `yaml:"size"`
}

// Load reads a design document file and computes its initial geometry.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document file")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid document %s", path)
	}
	return doc, nil
}

// Parse builds a Document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	if len(raw.Bodies) == 0 && len(raw.Components) == 0 {
		return nil, errors.New("document has no bodies or components")
	}

	d := &Document{name: raw.Name}
	if d.name == "" {
		d.name = "Untitled"
	}

	seenParams := make(map[string]bool)
	for _, p := range raw.Parameters {
		if p.Name == "" {
			return nil, errors.New("parameter without a name")
		}
		if seenParams[p.Name] {
			return nil, errors.Newf("parameter %s: declared twice", p.Name)
		}
		seenParams[p.Name] = true

		kind := host.ParamNumeric
		unit := p.Unit
		switch param.Classify(p.Expression) {
		case param.ClassText:
			kind = host.ParamText
		case param.ClassNumeric:
			if unit == "" {
				_, unit, _ = param.NumericLiteral(p.Expression)
			}
		}
		d.params = append(d.params, &Parameter{
			name: p.Name,
			kind: kind,
			expr: p.Expression,
			unit: unit,
		})
	}

	seenEntities := make(map[string]bool)
	for _, e := range raw.Bodies {
		if err := checkEntity(e, seenEntities); err != nil {
			return nil, err
		}
		d.bodies = append(d.bodies, &Body{
			token:    newToken(),
			name:     e.Name,
			visible:  !e.Hidden,
			sizeSpec: e.Size,
		})
	}
	for _, e := range raw.Components {
		if err := checkEntity(e, seenEntities); err != nil {
			return nil, err
		}
		d.occs = append(d.occs, &Occurrence{
			token:    newToken(),
			name:     e.Name,
			shown:    !e.Hidden,
			sizeSpec: e.Size,
		})
	}

	if err := d.Recompute(); err != nil {
		return nil, errors.Wrap(err, "document does not compute")
	}
	return d, nil
}

func checkEntity(e yamlEntity, seen map[string]bool) error {
	if e.Name == "" {
		return errors.New("body or component without a name")
	}
	if seen[e.Name] {
		return errors.Newf("entity %s: declared twice", e.Name)
	}
	seen[e.Name] = true
	for i, dim := range e.Size {
		if dim == "" {
			return errors.Newf("entity %s: size dimension %d is empty", e.Name, i+1)
		}
	}
	return nil
}
