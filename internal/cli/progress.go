package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter renders index build progress with a progress bar.
// Corpora below the threshold build silently; progress markers are a UX
// concern, not a correctness one.
type CLIProgressReporter struct {
	quiet     bool
	threshold int
	bar       *progressbar.ProgressBar
	total     int
}

// NewCLIProgressReporter creates a reporter. threshold is the minimum
// corpus size before any output appears.
func NewCLIProgressReporter(quiet bool, threshold int) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		threshold: threshold,
	}
}

func (c *CLIProgressReporter) OnBuildStart(totalDocs int) {
	c.total = totalDocs
	if c.quiet || totalDocs < c.threshold {
		return
	}

	c.bar = progressbar.NewOptions(totalDocs,
		progressbar.OptionSetDescription("Indexing documents"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("docs/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnDocumentIndexed(relPath string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnBuildComplete(totalDocs int) {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}
