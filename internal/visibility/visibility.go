// Package visibility captures, restores, and temporarily overrides the
// show/hide state of the design so whole-document exports see only one
// target at a time.
package visibility

import (
	"go.uber.org/zap"

	"github.com/philipparndt/paramexport/internal/host"
)

// State is a snapshot of show/hide flags keyed by stable entity tokens.
type State struct {
	Bodies      map[string]bool
	Occurrences map[string]bool
}

// RestoreOutcome reports how a restore went. Entities that vanished during
// the run are tolerated and counted, not treated as failures.
type RestoreOutcome struct {
	Restored int
	Skipped  int
}

// Snapshot records the current visibility of every top-level body and every
// sub-assembly instance.
func Snapshot(design host.Design) State {
	st := State{
		Bodies:      make(map[string]bool),
		Occurrences: make(map[string]bool),
	}
	for _, b := range design.Bodies() {
		st.Bodies[b.Token()] = b.IsVisible()
	}
	for _, occ := range design.Occurrences() {
		st.Occurrences[occ.Token()] = occ.IsShown()
	}
	return st
}

// Restore writes every captured flag back. Entities missing from the
// snapshot default to visible; entities that can no longer be addressed are
// logged and skipped.
func (st State) Restore(design host.Design, log *zap.SugaredLogger) RestoreOutcome {
	var out RestoreOutcome
	for _, b := range design.Bodies() {
		vis, ok := st.Bodies[b.Token()]
		if !ok {
			vis = true
		}
		if err := b.SetVisible(vis); err != nil {
			out.Skipped++
			if log != nil {
				log.Warnw("could not restore body visibility", "body", b.Name(), "error", err)
			}
			continue
		}
		out.Restored++
	}
	for _, occ := range design.Occurrences() {
		shown, ok := st.Occurrences[occ.Token()]
		if !ok {
			shown = true
		}
		if err := occ.SetShown(shown); err != nil {
			out.Skipped++
			if log != nil {
				log.Warnw("could not restore occurrence visibility", "occurrence", occ.Name(), "error", err)
			}
			continue
		}
		out.Restored++
	}
	return out
}

// Isolate hides everything except the target's ownership chain. For a
// component only its own instance stays lit; for a body the owning instance
// stays lit, every body is hidden, then the target body is shown again.
func Isolate(design host.Design, target host.Target) error {
	for _, occ := range design.Occurrences() {
		if err := occ.SetShown(false); err != nil {
			return err
		}
	}

	if target.Kind == host.EntityComponent {
		return target.Occurrence.SetShown(true)
	}

	if owner := target.Body.Owner(); owner != nil {
		if err := owner.SetShown(true); err != nil {
			return err
		}
	}
	for _, b := range design.Bodies() {
		if err := b.SetVisible(false); err != nil {
			return err
		}
	}
	return target.Body.SetVisible(true)
}
