package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sokinpui/gdindent/model"
)

// Output receives every status line. It is stdout, wrapped so colors work
// on all platforms.
var Output io.Writer = color.Output

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

// --- Per-file messages ---

func FixingMsg(path string) string {
	return fmt.Sprintf("Fixing: %s", path)
}

func FixedMsg(path string) string {
	return fmt.Sprintf("✓ Successfully fixed %s", path)
}

func FailedMsg(path string, err error) string {
	return fmt.Sprintf("✗ Error fixing %s: %v", path, err)
}

// Reporter prints one line per file event.
type Reporter struct{}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Start(path string) {
	fmt.Fprintln(Output, FixingMsg(path))
}

func (r *Reporter) Success(path string) {
	Success("%s", FixedMsg(path))
}

func (r *Reporter) Failure(path string, err error) {
	Error("%s", FailedMsg(path, err))
}

// --- Summary ---

func PrintSummary(summary model.Summary) {
	Header("\n--- Indentation Summary ---")

	if summary.Message != "" {
		Info("%s", summary.Message)
	}
	if summary.Total() == 0 && len(summary.Skipped) == 0 {
		if summary.Message == "" {
			Info("No files were processed.")
		}
		return
	}

	if len(summary.Fixed) > 0 {
		Success("Reindented %d file(s):", len(summary.Fixed))
		printList(summary.Fixed)
	}
	if len(summary.Unchanged) > 0 {
		Info("%d file(s) already indented correctly.", len(summary.Unchanged))
	}
	if len(summary.Skipped) > 0 {
		Warning("Could not read %d director(ies):", len(summary.Skipped))
		for _, d := range summary.Skipped {
			Path("- %s", d)
		}
	}
	if len(summary.Failed) > 0 {
		Error("Failed to process %d file(s):", len(summary.Failed))
		printList(summary.Failed)
	}
}

func printList(paths []string) {
	for _, p := range paths {
		fmt.Fprintf(Output, "  - %s\n", p)
	}
}
