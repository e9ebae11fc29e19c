package ui

import (
	"fmt"
	"sync/atomic"
)

// ConsoleProgress prints one line per (combination, object) work item and
// polls an operator cancel request. It satisfies the driver's Progress
// interface.
type ConsoleProgress struct {
	cancelled atomic.Bool
}

// NewConsoleProgress creates a console progress sink.
func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{}
}

// RequestCancel asks the run to stop after the current object. Safe to call
// from a signal handler goroutine; the run itself polls at each update.
func (p *ConsoleProgress) RequestCancel() {
	p.cancelled.Store(true)
}

// Start announces the total before the first work item.
func (p *ConsoleProgress) Start(total int) {
	PrintStep(fmt.Sprintf("Exporting %d files", total))
}

// Update prints the progress line and reports whether cancellation was
// requested.
func (p *ConsoleProgress) Update(step, total int, note string) bool {
	fmt.Println(RenderProgressLine(step, total, note))
	return p.cancelled.Load()
}

// Done releases the indicator.
func (p *ConsoleProgress) Done() {
	PrintSeparator()
}
