// Package driver runs one batch export: for every combination of the
// selected parameter values it mutates the live parameters, recomputes the
// design, exports every selected object, and restores all mutated state when
// the run ends, however it ends.
package driver

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/philipparndt/paramexport/internal/config"
	"github.com/philipparndt/paramexport/internal/filename"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/plan"
	"github.com/philipparndt/paramexport/internal/preconditions"
	"github.com/philipparndt/paramexport/internal/visibility"
)

// State is the lifecycle phase of a run.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRunning
	StateRestoring
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateRestoring:
		return "restoring"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrCancelled is returned when the operator aborts the run. It is a
// controlled stop, not a failure; restoration still happens.
var ErrCancelled = errors.New("export cancelled")

// ValidationError blocks a run from starting. It carries an operator-facing
// message suitable for inline display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExportError is fatal to a run: a single export call failed. Remaining work
// is abandoned and state is restored.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export failed: %s", e.Path) }
func (e *ExportError) Unwrap() error { return e.Err }

// Progress receives one update per (combination, object) pair. Update
// returning true requests cancellation; the request is honored after the
// current object, never mid-export.
type Progress interface {
	Start(total int)
	Update(step, total int, note string) (cancelRequested bool)
	Done()
}

// NopProgress discards all updates and never cancels.
type NopProgress struct{}

func (NopProgress) Start(int)                    {}
func (NopProgress) Update(int, int, string) bool { return false }
func (NopProgress) Done()                        {}

// Report summarizes a finished run.
type Report struct {
	RunID             string
	State             State
	Total             int
	Exported          int
	Combinations      int
	Objects           int
	RecomputeWarnings int
	Restore           visibility.RestoreOutcome
	FailedPath        string
}

// Runner holds the session-scoped state of one run. A Runner is single use
// and single threaded; only one run may be active at a time.
type Runner struct {
	design   host.Design
	sel      *config.Selection
	progress Progress
	log      *zap.SugaredLogger

	state State
	runID string

	// originals caches each touched parameter's pre-run expression, filled
	// the first time the parameter is mutated, never per combination.
	originals map[string]string
}

// NewRunner builds a runner for one export run.
func NewRunner(design host.Design, sel *config.Selection, progress Progress, log *zap.SugaredLogger) *Runner {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{
		design:    design,
		sel:       sel,
		progress:  progress,
		log:       log,
		state:     StateIdle,
		runID:     uuid.NewString(),
		originals: make(map[string]string),
	}
}

// State returns the runner's current lifecycle phase.
func (r *Runner) State() State { return r.state }

// Validate gates the transition to Running: objects and parameters selected,
// template valid, output folder present and writable. On failure the runner
// stays idle and the error message is suitable for inline display.
func (r *Runner) Validate() error {
	r.state = StateValidating
	err := r.validate()
	if err != nil {
		r.state = StateIdle
		return err
	}
	return nil
}

func (r *Runner) validate() error {
	if len(r.sel.Targets) == 0 {
		return &ValidationError{Message: "select at least one body or component"}
	}
	if len(r.sel.Parameters) == 0 {
		return &ValidationError{Message: "select at least one parameter"}
	}
	for _, p := range r.sel.Parameters {
		if len(p.Values) == 0 {
			return &ValidationError{Message: "all selected parameters must have semicolon-separated constant values"}
		}
	}
	if err := filename.ValidateTemplate(r.sel.Template, r.sel.ParameterNames()); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := preconditions.CheckOutputDir(r.sel.Output); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// Run executes the batch export. It returns ErrCancelled on operator abort
// and an *ExportError when an export call fails; validation failures come
// back as *ValidationError. Whatever the exit path, every mutated parameter
// expression and every visibility flag is restored exactly once and the
// design is recomputed once more before Run returns.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: r.runID, State: StateIdle}

	if err := r.Validate(); err != nil {
		return report, err
	}

	p := plan.Build(r.sel)
	report.Total = p.Total()
	report.Combinations = len(p.Combos)
	report.Objects = len(p.Targets)

	r.log.Infow("starting batch export",
		"run", r.runID,
		"combinations", len(p.Combos),
		"objects", len(p.Targets),
		"format", string(p.Format),
		"output", p.Output)

	visSnapshot := visibility.Snapshot(r.design)
	r.progress.Start(report.Total)

	r.state = StateRunning
	runErr := func() error {
		// The restoration block runs exactly once for every exit path:
		// success, cancellation, or failure.
		defer func() {
			r.state = StateRestoring
			r.restoreParameters()
			report.Restore = visSnapshot.Restore(r.design, r.log)
			if rerr := r.design.Recompute(); rerr != nil {
				report.RecomputeWarnings++
				r.log.Warnw("final recompute failed", "run", r.runID, "error", rerr)
			}
			r.progress.Done()
		}()

		step := 0
		for ci := range p.Combos {
			if err := r.applyCombination(p, ci, report); err != nil {
				return err
			}

			for oi, target := range p.Targets {
				job := p.Job(ci, oi)

				step++
				note := fmt.Sprintf("[%d/%d] %s -> %s", job.ComboIndex, len(p.Combos), job.Note, job.Filename)
				cancelled := r.progress.Update(step, report.Total, note)
				if cancelled || ctx.Err() != nil {
					return ErrCancelled
				}

				if err := r.exportOne(p.Format, target, job.Path, visSnapshot); err != nil {
					report.FailedPath = job.Path
					return err
				}
				report.Exported++
			}
		}
		return nil
	}()

	switch {
	case runErr == nil:
		r.state = StateDone
	case errors.Is(runErr, ErrCancelled):
		r.state = StateCancelled
	default:
		r.state = StateFailed
	}
	report.State = r.state

	r.log.Infow("batch export finished",
		"run", r.runID,
		"state", r.state.String(),
		"exported", report.Exported,
		"recompute_warnings", report.RecomputeWarnings)

	return report, runErr
}

// applyCombination writes one combination into the live parameters and
// recomputes. The first touch of a parameter snapshots its original
// expression. Recompute failures are warnings, not fatal: the export may
// still partially succeed.
func (r *Runner) applyCombination(p *plan.Plan, comboIndex int, report *Report) error {
	c := p.Combos[comboIndex]
	for i, sp := range r.sel.Parameters {
		live := r.design.ParameterByName(sp.Name)
		if live == nil {
			r.log.Warnw("parameter vanished from design", "run", r.runID, "parameter", sp.Name)
			continue
		}
		if _, ok := r.originals[sp.Name]; !ok {
			r.originals[sp.Name] = live.Expression()
		}
		expr := c[i].Expression(sp.Unit)
		r.log.Debugw("setting parameter", "run", r.runID, "parameter", sp.Name, "expression", expr)
		if err := live.SetExpression(expr); err != nil {
			return errors.Wrapf(err, "failed to set parameter %s", sp.Name)
		}
	}

	if err := r.design.Recompute(); err != nil {
		report.RecomputeWarnings++
		r.log.Warnw("recompute failed, continuing", "run", r.runID, "error", err)
	}
	return nil
}

// exportOne exports a single object. Whole-document formats isolate the
// target first, export everything visible, and put visibility back right
// away so the scene stays sane between objects; entity formats export the
// target directly without touching visibility.
func (r *Runner) exportOne(format host.Format, target host.Target, path string, snapshot visibility.State) error {
	r.log.Infow("exporting", "run", r.runID, "format", string(format), "path", path)

	if format.WholeDocument() {
		if err := visibility.Isolate(r.design, target); err != nil {
			return &ExportError{Path: path, Err: err}
		}
		err := r.design.ExportDocument(format, path)
		snapshot.Restore(r.design, r.log)
		if err != nil {
			return &ExportError{Path: path, Err: err}
		}
		return nil
	}

	if err := r.design.ExportEntity(target, format, path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// restoreParameters writes every cached original expression back. Parameters
// that can no longer be addressed are logged and skipped.
func (r *Runner) restoreParameters() {
	for name, expr := range r.originals {
		live := r.design.ParameterByName(name)
		if live == nil {
			r.log.Warnw("could not restore parameter, no longer in design", "run", r.runID, "parameter", name)
			continue
		}
		if err := live.SetExpression(expr); err != nil {
			r.log.Warnw("could not restore parameter", "run", r.runID, "parameter", name, "error", err)
		}
	}
}
