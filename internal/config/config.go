// Package config loads and validates batch-export session files. A session
// names the design document, the objects to export, the parameters to
// iterate with their candidate value lists, the export format, the filename
// template, and the output folder.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/paramexport/internal/filename"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
)

// Session is the operator-facing configuration of one export run.
type Session struct {
	// Document is the path to the design document the run operates on.
	Document string `yaml:"document"`

	// Objects lists display names of bodies and components to export.
	Objects []string `yaml:"objects"`

	// Parameters lists the parameters to iterate, in declared order.
	Parameters []ParameterSpec `yaml:"parameters"`

	// Format is one of STEP, STL, 3MF, OBJ (case-insensitive).
	Format string `yaml:"format"`

	// Template is the filename template. When empty it is auto-generated
	// from the selection, e.g. "{name}_{width}.stl".
	Template string `yaml:"template"`

	// Output is the folder exported files are written to.
	Output string `yaml:"output"`
}

// ParameterSpec pairs a parameter name with its semicolon-separated
// candidate values, e.g. "1; 5.5; 12" or "'a'; 'b;c'".
type ParameterSpec struct {
	Name   string `yaml:"name"`
	Values string `yaml:"values"`
}

// Loader reads and validates session files.
type Loader struct{}

// NewLoader creates a new session loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a session file, validates it, and makes its paths absolute
// relative to the file's directory.
func (l *Loader) Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session file")
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	if err := l.Validate(&s); err != nil {
		return nil, errors.Wrap(err, "invalid session")
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve session directory")
	}
	if s.Document != "" && !filepath.IsAbs(s.Document) {
		s.Document = filepath.Join(dir, s.Document)
	}
	s.Output = NormalizePath(s.Output)
	if !filepath.IsAbs(s.Output) {
		s.Output = filepath.Join(dir, s.Output)
	}

	return &s, nil
}

// Validate checks the session's own fields. Checks that need a live design
// (object names, parameter kinds) happen in Resolve.
func (l *Loader) Validate(s *Session) error {
	if len(s.Objects) == 0 {
		return errors.New("select at least one body or component")
	}
	if len(s.Parameters) == 0 {
		return errors.New("select at least one parameter")
	}
	seen := make(map[string]bool, len(s.Parameters))
	for i, p := range s.Parameters {
		if p.Name == "" {
			return errors.Newf("parameter %d: name is required", i+1)
		}
		if seen[p.Name] {
			return errors.Newf("parameter %s: listed twice", p.Name)
		}
		seen[p.Name] = true
		if strings.TrimSpace(p.Values) == "" {
			return errors.Newf("parameter %s: values are required", p.Name)
		}
	}
	if s.Format == "" {
		return errors.New("format is required")
	}
	if _, err := host.ParseFormat(s.Format); err != nil {
		return err
	}
	if strings.TrimSpace(s.Output) == "" {
		return errors.New("output folder is required")
	}
	return nil
}

// NormalizePath strips quotes and whitespace, expands a leading ~, and
// cleans the result.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}

// SelectedParameter is one resolved parameter of the run: its live handle,
// its kind, and the parsed candidate values.
type SelectedParameter struct {
	Name   string
	Kind   host.ParamKind
	Unit   string
	Values []param.Value
}

// Selection is the session resolved against a live design.
type Selection struct {
	Targets    []host.Target
	Parameters []SelectedParameter
	Format     host.Format
	Template   string
	Output     string
}

// ParameterNames returns the selected parameter names in declared order.
func (sel *Selection) ParameterNames() []string {
	names := make([]string, len(sel.Parameters))
	for i, p := range sel.Parameters {
		names[i] = p.Name
	}
	return names
}

// Resolve matches the session against a live design: object names become
// export targets, parameters are classified and their value lists parsed per
// kind. Formula parameters are rejected; they cannot be iterated.
func (s *Session) Resolve(design host.Design) (*Selection, error) {
	format, err := host.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Format: format,
		Output: s.Output,
	}

	for _, name := range s.Objects {
		target, err := findTarget(design, name)
		if err != nil {
			return nil, err
		}
		sel.Targets = append(sel.Targets, target)
	}

	for _, spec := range s.Parameters {
		p := design.ParameterByName(spec.Name)
		if p == nil {
			return nil, errors.Newf("parameter %s: not found in design", spec.Name)
		}
		if !param.IsSimpleLiteral(p.Expression()) {
			return nil, errors.Newf("parameter %s: formula parameters cannot be iterated", spec.Name)
		}
		values, err := param.ParseList(spec.Values, p.Kind() == host.ParamText)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", spec.Name)
		}
		sel.Parameters = append(sel.Parameters, SelectedParameter{
			Name:   p.Name(),
			Kind:   p.Kind(),
			Unit:   p.Unit(),
			Values: values,
		})
	}

	sel.Template = strings.TrimSpace(s.Template)
	if sel.Template == "" {
		sel.Template = filename.Autogenerate(sel.ParameterNames(), format.Ext())
	}

	return sel, nil
}

func findTarget(design host.Design, name string) (host.Target, error) {
	for _, b := range design.Bodies() {
		if b.Name() == name {
			return host.Target{Kind: host.EntityBody, Body: b, Name: b.Name()}, nil
		}
	}
	for _, occ := range design.Occurrences() {
		if occ.Name() == name {
			return host.Target{Kind: host.EntityComponent, Occurrence: occ, Name: occ.Name()}, nil
		}
	}
	return host.Target{}, errors.Newf("object %s: no body or component with this name", name)
}
