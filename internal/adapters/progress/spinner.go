package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// SpinnerSink prints deployment milestones and spins while waiting on the chain
type SpinnerSink struct {
	out            io.Writer
	spinner        *spinner.Spinner
	animate        bool
	currentStage   usecase.ExecutionStage
	stageStartTime time.Time
}

// NewSpinnerSink creates a new spinner-based progress sink writing to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		spinner: s,
		animate: isTerminal(out),
	}
}

// isTerminal reports whether the spinner can draw on out
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	// A failed stage is not completed, just stop spinning before the error is printed
	if event.Stage == usecase.StageFailed {
		r.stop()
		r.currentStage = event.Stage
		return
	}

	if r.currentStage != event.Stage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stageStartTime = time.Now()
	}

	// Without a terminal the spinner never starts, print the milestone instead
	if event.Spinner && !r.animate {
		if event.Message != "" {
			fmt.Fprintln(r.out, event.Message)
		}
		return
	}

	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	r.stop()
	if event.Message != "" {
		color.New(color.FgGreen).Fprintln(r.out, event.Message)
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Warn prints a warning
func (r *SpinnerSink) Warn(message string) {
	r.pause(func() {
		color.New(color.FgYellow).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// pause stops the spinner while printing and restarts it afterwards
func (r *SpinnerSink) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	print()

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerSink) stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// completeCurrentStage prints how long a spinning stage took
func (r *SpinnerSink) completeCurrentStage() {
	if r.currentStage == "" || !r.spinner.Active() {
		return
	}
	r.spinner.Stop()
	elapsed := time.Since(r.stageStartTime).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s%s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.spinner.Suffix,
		color.New(color.Faint).Sprintf("(%s)", elapsed),
	)
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
