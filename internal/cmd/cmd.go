package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/philipparndt/paramexport/internal/config"
	"github.com/philipparndt/paramexport/internal/document"
	"github.com/philipparndt/paramexport/internal/driver"
	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/inspect"
	"github.com/philipparndt/paramexport/internal/log"
	"github.com/philipparndt/paramexport/internal/param"
	"github.com/philipparndt/paramexport/internal/plan"
	"github.com/philipparndt/paramexport/internal/preconditions"
	"github.com/philipparndt/paramexport/internal/ui"
	"github.com/philipparndt/paramexport/version"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging" short:"v"`

	Run        *RunCmd        `cmd:"" help:"Execute a batch export session"`
	Plan       *PlanCmd       `cmd:"" help:"Show the work list of a session without exporting"`
	Show       *ShowCmd       `cmd:"" help:"Show a session and its design document"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
}

type RunCmd struct {
	Session string `arg:"" help:"Session file (YAML)"`
}

// Help adds additional help text with examples
func (c *RunCmd) Help() string {
	return renderRunHelp()
}

func (c *RunCmd) Run(cli *CLI) error {
	sel, design, err := loadSession(c.Session)
	if err != nil {
		return err
	}

	logger := log.New(cli.Verbose)
	defer logger.Sync()

	progress := ui.NewConsoleProgress()
	runner := driver.NewRunner(design, sel, progress, logger)

	// SIGINT stops after the current object, it never tears mid-export.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		progress.RequestCancel()
	}()

	report, err := runner.Run(ctx)
	switch {
	case err == nil:
		ui.PrintSuccess(fmt.Sprintf("Exported %d files to %s", report.Exported, sel.Output))
		if report.RecomputeWarnings > 0 {
			ui.PrintWarning(fmt.Sprintf("%d recompute warnings, check the exported geometry", report.RecomputeWarnings))
		}
		return nil
	case errors.Is(err, driver.ErrCancelled):
		ui.PrintWarning(fmt.Sprintf("Export cancelled after %d of %d files; original state restored", report.Exported, report.Total))
		return nil
	default:
		var exportErr *driver.ExportError
		if errors.As(err, &exportErr) {
			ui.PrintError("Export failed: " + exportErr.Path)
		}
		return err
	}
}

type PlanCmd struct {
	Session string `arg:"" help:"Session file (YAML)"`
}

func (c *PlanCmd) Run(cli *CLI) error {
	sel, _, err := loadSession(c.Session)
	if err != nil {
		return err
	}

	inspector := inspect.NewInspector()
	inspector.ShowPlan(plan.Build(sel))
	return nil
}

type ShowCmd struct {
	Session string `arg:"" help:"Session file (YAML)"`
	Raw     bool   `help:"Dump the session file with syntax highlighting"`
}

func (c *ShowCmd) Run(cli *CLI) error {
	inspector := inspect.NewInspector()
	if c.Raw {
		return inspector.ShowRaw(c.Session)
	}

	loader := config.NewLoader()
	session, err := loader.Load(c.Session)
	if err != nil {
		return err
	}
	design, err := loadDesign(session)
	if err != nil {
		return err
	}
	sel, err := session.Resolve(design)
	if err != nil {
		return err
	}
	inspector.ShowSession(session, sel, design)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(cli *CLI) error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// loadSession loads the session file and resolves it against its design
// document. Value-list parse failures get the operator-facing message the
// inline validation of the dialog would show.
func loadSession(path string) (*config.Selection, host.Design, error) {
	loader := config.NewLoader()
	session, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}

	design, err := loadDesign(session)
	if err != nil {
		return nil, nil, err
	}

	sel, err := session.Resolve(design)
	if err != nil {
		if errors.Is(err, param.ErrBadValueList) {
			return nil, nil, errors.New("all selected parameters must have semicolon-separated constant values")
		}
		return nil, nil, err
	}
	return sel, design, nil
}

func loadDesign(session *config.Session) (host.Design, error) {
	if session.Document == "" {
		return nil, errors.New("session does not name a design document")
	}
	if err := preconditions.CheckReadableFile(session.Document, ".yaml", ".yml"); err != nil {
		return nil, err
	}
	return document.Load(session.Document)
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("paramexport"),
		kong.Description("Batch parametric design-space export"),
		kong.UsageOnError(),
	)
	err := ctx.Run(cli)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
