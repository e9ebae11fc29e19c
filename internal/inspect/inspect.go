// Package inspect renders a session and its design document for review
// before a run: the selected objects, the parameter table with current
// values and candidate lists, and the run settings.
package inspect

import (
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/philipparndt/paramexport/internal/config"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
	"github.com/philipparndt/paramexport/internal/plan"
	"github.com/philipparndt/paramexport/internal/ui"
)

// Inspector prints sessions and plans to the console.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// ShowSession prints the resolved session: objects, parameters, settings.
func (i *Inspector) ShowSession(s *config.Session, sel *config.Selection, design host.Design) {
	ui.PrintTitle("Batch parametric export")

	ui.PrintStep("Objects")
	for _, t := range sel.Targets {
		ui.PrintInfo(fmt.Sprintf("[%s] %s", title(t.Kind), t.Name))
	}

	ui.PrintStep("Parameters")
	for _, sp := range sel.Parameters {
		current := ""
		if live := design.ParameterByName(sp.Name); live != nil {
			current = param.FormatTwoDecimals(live.Expression())
		}
		ui.PrintInfo(fmt.Sprintf("%s  (current %s)  %d values", sp.Name, current, len(sp.Values)))
	}

	ui.PrintSeparator()
	ui.PrintKeyValue("Format", string(sel.Format))
	ui.PrintKeyValue("Template", sel.Template)
	ui.PrintKeyValue("Output", sel.Output)
}

// ShowPlan prints the materialized work list of a dry run.
func (i *Inspector) ShowPlan(p *plan.Plan) {
	ui.PrintStep(fmt.Sprintf("%d combinations x %d objects = %d files", len(p.Combos), len(p.Targets), p.Total()))
	for _, job := range p.Jobs {
		ui.PrintInfo(fmt.Sprintf("[%d] %s -> %s", job.ComboIndex, job.Note, job.Filename))
	}
}

// ShowRaw dumps the session file with YAML syntax highlighting.
func (i *Inspector) ShowRaw(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return quick.Highlight(os.Stdout, string(data), "yaml", "terminal256", "monokai")
}

func title(k host.EntityKind) string {
	if k == host.EntityComponent {
		return "Comp"
	}
	return "Body"
}
