package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/paramexport/internal/config"
	"github.com/philipparndt/paramexport/internal/document"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/param"
	"github.com/philipparndt/paramexport/internal/visibility"
)

const testDoc = `
name: Assembly
parameters:
  - name: width
    expression: "10 mm"
  - name: height
    expression: "4 mm"
  - name: label
    expression: "'Rev A'"
bodies:
  - name: Plate
    size: [width, height, "2"]
components:
  - name: Bracket
    size: ["5", width, "2"]
`

// recordingProgress captures updates and optionally requests cancellation at
// a given step.
type recordingProgress struct {
	starts   int
	updates  []string
	dones    int
	cancelAt int // 0 = never
}

func (p *recordingProgress) Start(total int) { p.starts++ }

func (p *recordingProgress) Update(step, total int, note string) bool {
	p.updates = append(p.updates, fmt.Sprintf("%d/%d %s", step, total, note))
	return p.cancelAt > 0 && step >= p.cancelAt
}

func (p *recordingProgress) Done() { p.dones++ }

// flakyDesign fails every entity export after the first n calls.
type flakyDesign struct {
	host.Design
	succeed int
	calls   int
}

func (f *flakyDesign) ExportEntity(target host.Target, format host.Format, path string) error {
	f.calls++
	if f.calls > f.succeed {
		return errors.New("disk full")
	}
	return f.Design.ExportEntity(target, format, path)
}

// brokenRecompute makes every recompute fail while everything else works.
type brokenRecompute struct {
	host.Design
}

func (b *brokenRecompute) Recompute() error { return errors.New("feature regeneration failed") }

func newDesign(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(testDoc))
	require.NoError(t, err)
	return doc
}

func newSelection(t *testing.T, design *document.Document, format host.Format, outDir string) *config.Selection {
	t.Helper()

	widths, err := param.ParseNumericList("10; 20")
	require.NoError(t, err)
	heights, err := param.ParseNumericList("1; 2; 3")
	require.NoError(t, err)

	return &config.Selection{
		Targets: []host.Target{
			{Kind: host.EntityBody, Body: design.BodyByName("Plate"), Name: "Plate"},
			{Kind: host.EntityComponent, Occurrence: design.OccurrenceByName("Bracket"), Name: "Bracket"},
		},
		Parameters: []config.SelectedParameter{
			{Name: "width", Kind: host.ParamNumeric, Unit: "mm", Values: widths},
			{Name: "height", Kind: host.ParamNumeric, Unit: "mm", Values: heights},
		},
		Format:   format,
		Template: "{name}_{width}_{height}." + format.Ext(),
		Output:   outDir,
	}
}

func paramExpressions(design *document.Document) map[string]string {
	out := make(map[string]string)
	for _, p := range design.Parameters() {
		out[p.Name()] = p.Expression()
	}
	return out
}

func TestRunExportsEveryCombination(t *testing.T) {
	design := newDesign(t)
	outDir := t.TempDir()
	sel := newSelection(t, design, host.FormatSTL, outDir)
	before := paramExpressions(design)
	visBefore := visibility.Snapshot(design)

	progress := &recordingProgress{}
	runner := NewRunner(design, sel, progress, nil)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 12, report.Total) // 2x3 combinations, 2 objects
	assert.Equal(t, 12, report.Exported)
	assert.Equal(t, 6, report.Combinations)
	assert.Equal(t, 2, report.Objects)
	assert.Equal(t, 1, progress.starts)
	assert.Equal(t, 1, progress.dones)
	assert.Len(t, progress.updates, 12)

	// every file exists
	for _, w := range []string{"10.0", "20.0"} {
		for _, h := range []string{"1.0", "2.0", "3.0"} {
			for _, name := range []string{"Plate", "Bracket"} {
				path := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s.stl", name, w, h))
				_, statErr := os.Stat(path)
				assert.NoError(t, statErr, path)
			}
		}
	}

	// every mutated parameter is back to its original expression
	assert.Equal(t, before, paramExpressions(design))
	assert.Equal(t, visBefore, visibility.Snapshot(design))
}

func TestRunOrderLastParameterVariesFastest(t *testing.T) {
	design := newDesign(t)
	sel := newSelection(t, design, host.FormatSTL, t.TempDir())
	progress := &recordingProgress{}

	_, err := NewRunner(design, sel, progress, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, progress.updates, 12)
	assert.Contains(t, progress.updates[0], "width=10.0, height=1.0")
	assert.Contains(t, progress.updates[2], "width=10.0, height=2.0")
	assert.Contains(t, progress.updates[6], "width=20.0, height=1.0")
}

func TestRunCancellationRestoresState(t *testing.T) {
	design := newDesign(t)
	sel := newSelection(t, design, host.FormatSTL, t.TempDir())
	before := paramExpressions(design)
	visBefore := visibility.Snapshot(design)

	progress := &recordingProgress{cancelAt: 5}
	runner := NewRunner(design, sel, progress, nil)

	report, err := runner.Run(context.Background())
	require.ErrorIs(t, err, ErrCancelled)

	assert.Equal(t, StateCancelled, report.State)
	// cancellation observed before the fifth export starts
	assert.Equal(t, 4, report.Exported)
	assert.Equal(t, 1, progress.dones)

	assert.Equal(t, before, paramExpressions(design))
	assert.Equal(t, visBefore, visibility.Snapshot(design))
}

func TestRunContextCancellation(t *testing.T) {
	design := newDesign(t)
	sel := newSelection(t, design, host.FormatSTL, t.TempDir())
	before := paramExpressions(design)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(design, sel, &recordingProgress{}, nil).Run(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, report.Exported)
	assert.Equal(t, before, paramExpressions(design))
}

func TestRunExportFailureAbortsAndRestores(t *testing.T) {
	design := newDesign(t)
	sel := newSelection(t, design, host.FormatSTL, t.TempDir())
	before := paramExpressions(design)
	visBefore := visibility.Snapshot(design)

	flaky := &flakyDesign{Design: design, succeed: 2}
	// selection targets resolve by name through the wrapped design, so the
	// wrapper only needs to intercept the export calls
	progress := &recordingProgress{}
	runner := NewRunner(flaky, sel, progress, nil)

	report, err := runner.Run(context.Background())
	require.Error(t, err)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Contains(t, exportErr.Path, "Plate_10.0_2.0.stl")
	assert.Equal(t, exportErr.Path, report.FailedPath)

	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, 2, report.Exported)
	// restoration ran exactly once
	assert.Equal(t, 1, progress.dones)
	assert.Equal(t, before, paramExpressions(design))
	assert.Equal(t, visBefore, visibility.Snapshot(design))
}

func TestRunRecomputeFailuresAreWarnings(t *testing.T) {
	design := newDesign(t)
	sel := newSelection(t, design, host.FormatSTL, t.TempDir())

	broken := &brokenRecompute{Design: design}
	report, err := NewRunner(broken, sel, &recordingProgress{}, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 12, report.Exported)
	// one warning per combination plus the final restore recompute
	assert.Equal(t, 7, report.RecomputeWarnings)
}

func TestRunStepIsolatesTarget(t *testing.T) {
	design := newDesign(t)
	outDir := t.TempDir()
	sel := newSelection(t, design, host.FormatSTEP, outDir)
	visBefore := visibility.Snapshot(design)

	report, err := NewRunner(design, sel, &recordingProgress{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.Exported)

	// the Plate export saw only the plate: its STEP file must not mention
	// the Bracket component
	data, err := os.ReadFile(filepath.Join(outDir, "Plate_10.0_1.0.step"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "'Plate'")
	assert.NotContains(t, string(data), "'Bracket'")

	// component isolation lights only the Bracket instance; root bodies
	// keep their own visibility
	data, err = os.ReadFile(filepath.Join(outDir, "Bracket_10.0_1.0.step"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "'Bracket'")

	assert.Equal(t, visBefore, visibility.Snapshot(design))
}

func TestRunTextParameter(t *testing.T) {
	design := newDesign(t)
	outDir := t.TempDir()

	labels, err := param.ParseTextList("'a'; 'b;c'")
	require.NoError(t, err)

	sel := &config.Selection{
		Targets: []host.Target{
			{Kind: host.EntityBody, Body: design.BodyByName("Plate"), Name: "Plate"},
		},
		Parameters: []config.SelectedParameter{
			{Name: "label", Kind: host.ParamText, Values: labels},
		},
		Format:   host.FormatOBJ,
		Template: "{name}_{label}.obj",
		Output:   outDir,
	}

	report, err := NewRunner(design, sel, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Exported)

	// the semicolon inside the quoted value survives into the filename
	_, err = os.Stat(filepath.Join(outDir, "Plate_a.obj"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "Plate_b;c.obj"))
	assert.NoError(t, err)

	// text parameter restored to its original quoted literal
	assert.Equal(t, "'Rev A'", design.ParameterByName("label").Expression())
}

func TestValidateFailures(t *testing.T) {
	design := newDesign(t)
	outDir := t.TempDir()

	tests := []struct {
		name   string
		mutate func(sel *config.Selection)
		want   string
	}{
		{
			"no objects",
			func(sel *config.Selection) { sel.Targets = nil },
			"select at least one body or component",
		},
		{
			"no parameters",
			func(sel *config.Selection) { sel.Parameters = nil },
			"select at least one parameter",
		},
		{
			"empty value list",
			func(sel *config.Selection) { sel.Parameters[0].Values = nil },
			"semicolon-separated constant values",
		},
		{
			"template missing placeholder",
			func(sel *config.Selection) { sel.Template = "{name}.stl" },
			"missing placeholders",
		},
		{
			"missing output dir",
			func(sel *config.Selection) { sel.Output = filepath.Join(outDir, "nope") },
			"output folder must exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := newSelection(t, design, host.FormatSTL, outDir)
			tt.mutate(sel)

			runner := NewRunner(design, sel, nil, nil)
			_, err := runner.Run(context.Background())
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Message, tt.want)
			assert.Equal(t, StateIdle, runner.State())
		})
	}
}
