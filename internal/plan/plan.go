// Package plan materializes the full work list of an export run before any
// work starts: every parameter combination crossed with every selected
// object, each with its final filename. The total is known up front so the
// progress indicator can be sized before the first export.
package plan

import (
	"path/filepath"

	"github.com/philipparndt/paramexport/internal/combo"
	"github.com/philipparndt/paramexport/internal/config"
	"github.com/philipparndt/paramexport/internal/filename"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
)

// Job is one (combination, object) pair.
type Job struct {
	ComboIndex  int // 1-based
	ObjectIndex int // 1-based
	Target      host.Target
	Filename    string
	Path        string
	Note        string // "width=10.0, height=1.0"
}

// Plan is the materialized work list of one run.
type Plan struct {
	Names   []string // selected parameter names, declared order
	Combos  [][]param.Value
	Targets []host.Target
	Jobs    []Job
	Output  string
	Format  host.Format
}

// Build computes the Cartesian product of the selection's value lists and
// instantiates the filename template for every job. The selection must have
// passed validation.
func Build(sel *config.Selection) *Plan {
	names := sel.ParameterNames()
	lists := make([][]param.Value, len(sel.Parameters))
	for i, p := range sel.Parameters {
		lists[i] = p.Values
	}

	p := &Plan{
		Names:   names,
		Combos:  combo.Product(lists),
		Targets: sel.Targets,
		Output:  sel.Output,
		Format:  sel.Format,
	}

	p.Jobs = make([]Job, 0, len(p.Combos)*len(p.Targets))
	for ci, c := range p.Combos {
		values := make(map[string]param.Value, len(names))
		for i, name := range names {
			values[name] = c[i]
		}
		note := combo.Describe(names, c)
		for oi, target := range p.Targets {
			file := filename.Build(sel.Template, target.Name, values)
			p.Jobs = append(p.Jobs, Job{
				ComboIndex:  ci + 1,
				ObjectIndex: oi + 1,
				Target:      target,
				Filename:    file,
				Path:        filepath.Join(sel.Output, file),
				Note:        note,
			})
		}
	}
	return p
}

// Total is the number of work items, |combinations| x |objects|.
func (p *Plan) Total() int {
	return len(p.Combos) * len(p.Targets)
}

// Values returns the name->value map of one combination.
func (p *Plan) Values(comboIndex int) map[string]param.Value {
	c := p.Combos[comboIndex]
	values := make(map[string]param.Value, len(p.Names))
	for i, name := range p.Names {
		values[name] = c[i]
	}
	return values
}

// Job returns the job for the given 0-based combination and object indices.
func (p *Plan) Job(comboIndex, objectIndex int) Job {
	return p.Jobs[comboIndex*len(p.Targets)+objectIndex]
}
