// Package host defines the collaborator surface a design environment must
// provide for batch export: parameter access and mutation, geometry
// enumeration, visibility toggles, recompute, and the export calls.
package host

import (
	"fmt"
	"strings"
)

// ParamKind distinguishes numeric parameters (value plus unit) from text
// parameters (single-quoted literals).
type ParamKind int

const (
	ParamNumeric ParamKind = iota
	ParamText
)

func (k ParamKind) String() string {
	if k == ParamText {
		return "text"
	}
	return "number"
}

// Parameter is a user parameter of the active design. The expression is the
// string shown in the parameters dialog, e.g. "12 mm" or "'Rev A'".
type Parameter interface {
	Name() string
	Kind() ParamKind
	Expression() string
	SetExpression(expr string) error
	Unit() string
}

// EntityKind is the kind of an exportable object.
type EntityKind int

const (
	EntityBody EntityKind = iota
	EntityComponent
)

func (k EntityKind) String() string {
	if k == EntityComponent {
		return "component"
	}
	return "body"
}

// Body is a top-level solid body of the design.
type Body interface {
	// Token is a stable identity that survives recomputes.
	Token() string
	Name() string
	IsVisible() bool
	SetVisible(visible bool) error
	// Owner returns the occurrence the body belongs to, or nil for a body
	// that lives directly in the root component.
	Owner() Occurrence
}

// Occurrence is a sub-assembly instance. Shown corresponds to the light bulb
// toggle in the browser tree.
type Occurrence interface {
	Token() string
	Name() string
	IsShown() bool
	SetShown(shown bool) error
}

// Target is one exportable object selected by the operator, together with the
// display name used for filename substitution.
type Target struct {
	Kind       EntityKind
	Body       Body       // set when Kind == EntityBody
	Occurrence Occurrence // set when Kind == EntityComponent
	Name       string
}

// Design is the single active document. All mutations happen in place; the
// export driver guarantees it restores everything it touches.
type Design interface {
	Parameters() []Parameter
	ParameterByName(name string) Parameter
	Bodies() []Body
	Occurrences() []Occurrence

	// Recompute forces a full model recompute after parameter changes.
	Recompute() error

	// ExportEntity exports a single body or component to path. Not valid for
	// whole-document formats.
	ExportEntity(target Target, format Format, path string) error

	// ExportDocument exports everything currently visible to path. Used for
	// whole-document formats after isolating the target.
	ExportDocument(format Format, path string) error
}

// Format is an export interchange format.
type Format string

const (
	FormatSTEP Format = "STEP"
	FormatSTL  Format = "STL"
	Format3MF  Format = "3MF"
	FormatOBJ  Format = "OBJ"
)

// Formats lists the supported formats in dialog order.
var Formats = []Format{FormatSTEP, FormatSTL, Format3MF, FormatOBJ}

// ParseFormat accepts the format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (supported: STEP, STL, 3MF, OBJ)", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatSTEP:
		return "step"
	case FormatSTL:
		return "stl"
	case Format3MF:
		return "3mf"
	case FormatOBJ:
		return "obj"
	}
	return "obj"
}

// WholeDocument reports whether the format exports the entire document rather
// than a named entity, requiring visibility isolation of the target first.
func (f Format) WholeDocument() bool {
	return f == FormatSTEP
}
