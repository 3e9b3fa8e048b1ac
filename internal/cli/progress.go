package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter shows a progress bar while a directory tree is processed.
type ProgressReporter struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewProgressReporter creates a progress reporter.
func NewProgressReporter(quiet bool) *ProgressReporter {
	return &ProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// OnStart sets up the bar for the discovered module count.
func (p *ProgressReporter) OnStart(totalModules int) {
	if p.quiet {
		return
	}
	p.bar = progressbar.NewOptions(totalModules,
		progressbar.OptionSetDescription("Generating help files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("modules/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// OnModuleProcessed advances the bar.
func (p *ProgressReporter) OnModuleProcessed(moduleName string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Add(1)
}

// OnComplete prints the run summary.
func (p *ProgressReporter) OnComplete(total, regenerated, upToDate int) {
	if p.quiet {
		return
	}
	fmt.Println()
	fmt.Printf("✓ Processed %d module(s) in %.1fs: %d regenerated, %d up to date\n",
		total, time.Since(p.startTime).Seconds(), regenerated, upToDate)
}
