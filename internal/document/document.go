// Package document implements the design host against a YAML-described
// model: user parameters plus box-shaped bodies and component instances
// whose dimensions may reference parameters. It makes the export driver
// runnable (and testable) without a CAD application; embedding the library
// against a real CAD API replaces this package with a thin adapter.
package document

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
)

// Parameter is a user parameter of the document.
type Parameter struct {
	name string
	kind host.ParamKind
	expr string
	unit string
}

func (p *Parameter) Name() string         { return p.name }
func (p *Parameter) Kind() host.ParamKind { return p.kind }
func (p *Parameter) Expression() string   { return p.expr }
func (p *Parameter) Unit() string         { return p.unit }

// SetExpression replaces the live expression. The string is accepted as-is;
// whether it still evaluates shows up at the next recompute, matching how a
// parameter dialog behaves.
func (p *Parameter) SetExpression(expr string) error {
	p.expr = expr
	return nil
}

// Body is a top-level solid of the document, shaped as a box.
type Body struct {
	token    string
	name     string
	visible  bool
	sizeSpec [3]string
	size     [3]float64
	deleted  bool
}

func (b *Body) Token() string { return b.token }
func (b *Body) Name() string  { return b.name }
func (b *Body) IsVisible() bool {
	return b.visible
}

func (b *Body) SetVisible(visible bool) error {
	if b.deleted {
		return errors.Newf("body %s no longer exists", b.name)
	}
	b.visible = visible
	return nil
}

func (b *Body) Owner() host.Occurrence { return nil }

// Size returns the last computed dimensions.
func (b *Body) Size() [3]float64 { return b.size }

// Delete marks the body as gone, as if removed mid-run. Further visibility
// writes fail, which the restore path must tolerate.
func (b *Body) Delete() { b.deleted = true }

// Occurrence is a component instance, also shaped as a box.
type Occurrence struct {
	token    string
	name     string
	shown    bool
	sizeSpec [3]string
	size     [3]float64
	deleted  bool
}

func (o *Occurrence) Token() string { return o.token }
func (o *Occurrence) Name() string  { return o.name }
func (o *Occurrence) IsShown() bool { return o.shown }

func (o *Occurrence) SetShown(shown bool) error {
	if o.deleted {
		return errors.Newf("component %s no longer exists", o.name)
	}
	o.shown = shown
	return nil
}

// Size returns the last computed dimensions.
func (o *Occurrence) Size() [3]float64 { return o.size }

// Delete marks the occurrence as gone mid-run.
func (o *Occurrence) Delete() { o.deleted = true }

// Document is the simulated active design.
type Document struct {
	name   string
	params []*Parameter
	bodies []*Body
	occs   []*Occurrence
}

var _ host.Design = (*Document)(nil)

// Parameters returns the user parameters in declaration order.
func (d *Document) Parameters() []host.Parameter {
	out := make([]host.Parameter, len(d.params))
	for i, p := range d.params {
		out[i] = p
	}
	return out
}

func (d *Document) ParameterByName(name string) host.Parameter {
	for _, p := range d.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (d *Document) Bodies() []host.Body {
	out := make([]host.Body, len(d.bodies))
	for i, b := range d.bodies {
		out[i] = b
	}
	return out
}

func (d *Document) Occurrences() []host.Occurrence {
	out := make([]host.Occurrence, len(d.occs))
	for i, o := range d.occs {
		out[i] = o
	}
	return out
}

// BodyByName looks up a body by display name, nil when absent.
func (d *Document) BodyByName(name string) *Body {
	for _, b := range d.bodies {
		if b.name == name {
			return b
		}
	}
	return nil
}

// OccurrenceByName looks up a component instance by display name.
func (d *Document) OccurrenceByName(name string) *Occurrence {
	for _, o := range d.occs {
		if o.name == name {
			return o
		}
	}
	return nil
}

// Recompute re-evaluates every dimension from the current parameter
// expressions. A dimension that no longer resolves (unknown parameter,
// non-numeric expression) fails the recompute; geometry keeps its last good
// values, matching a model that failed to regenerate.
func (d *Document) Recompute() error {
	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, b := range d.bodies {
		size, err := d.evalSize(b.sizeSpec)
		if err != nil {
			record(errors.Wrapf(err, "body %s", b.name))
			continue
		}
		b.size = size
	}
	for _, o := range d.occs {
		size, err := d.evalSize(o.sizeSpec)
		if err != nil {
			record(errors.Wrapf(err, "component %s", o.name))
			continue
		}
		o.size = size
	}
	return firstErr
}

// evalSize resolves each dimension: a number literal stands for itself, any
// other token is a parameter reference whose current expression must be a
// simple numeric literal.
func (d *Document) evalSize(spec [3]string) ([3]float64, error) {
	var out [3]float64
	for i, tok := range spec {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return out, errors.Newf("dimension %d is empty", i+1)
		}
		if n, err := strconv.ParseFloat(tok, 64); err == nil {
			out[i] = n
			continue
		}
		p := d.ParameterByName(tok)
		if p == nil {
			return out, errors.Newf("dimension %d references unknown parameter %q", i+1, tok)
		}
		n, _, ok := param.NumericLiteral(p.expr)
		if !ok {
			return out, errors.Newf("parameter %q does not evaluate to a number (expression %q)", tok, p.expr)
		}
		if n <= 0 {
			return out, errors.Newf("parameter %q yields non-positive dimension %g", tok, n)
		}
		out[i] = n
	}
	return out, nil
}

func newToken() string { return uuid.NewString() }
