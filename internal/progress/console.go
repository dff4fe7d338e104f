// Package progress renders batch progress on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Console is a terminal worker surface: one progress bar per file, written
// to stderr so log lines on stdout stay intact. Files of unknown size get a
// spinner instead of a percentage bar.
type Console struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewConsole creates a Console surface writing to stderr.
func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleWriter creates a Console surface writing to w. Used by tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) BeginFile(name string, size int64) {
	total := int64(100)
	if size == 0 {
		total = -1 // spinner
	}
	c.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(c.out, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (c *Console) Percent(pct int) {
	if c.bar != nil {
		_ = c.bar.Set64(int64(pct))
	}
}

func (c *Console) EndFile() {
	if c.bar == nil {
		return
	}
	// A failed or cancelled file must not render as complete.
	if c.bar.IsFinished() {
		_ = c.bar.Finish()
	} else {
		_ = c.bar.Exit()
		fmt.Fprint(c.out, "\n")
	}
	c.bar = nil
}

func (c *Console) Close() {}
