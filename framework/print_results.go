package framework

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxErrorWidth = 80

// PrintResults writes a summary of the run: counts, then a table of every failed test and
// every hook that failed or timed out.
func PrintResults(out io.Writer, results Results) {
	passed, failed, skipped := results.Counts()
	failedHooks := results.FailedHooks()

	fmt.Fprintf(out, "Test run %s finished in %s: %d passed, %d failed, %d skipped",
		results.RunID, formatDuration(results.Duration), passed, failed, skipped)
	if len(failedHooks) > 0 {
		fmt.Fprintf(out, ", %d hook(s) did not succeed", len(failedHooks))
	}
	fmt.Fprintln(out)

	if results.OK() {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Failures")
	t.AppendHeader(table.Row{"Test", "Status", "Kind", "Attempts", "Duration", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Attempts", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: maxErrorWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, f := range results.Failures {
		t.AppendRow(table.Row{
			f.TestID.String(),
			string(f.Outcome),
			string(f.Kind),
			f.Attempts,
			formatDuration(f.Duration),
			firstLine(f.Errors),
		})
	}
	for _, h := range failedHooks {
		t.AppendRow(table.Row{
			h.TestID.String(),
			string(h.Status),
			string(h.Kind) + " hook",
			"-",
			formatDuration(h.Duration),
			firstLine(h.Errors),
		})
	}
	t.Render()
}

func firstLine(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	s := errs[0].Error()
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[:i] + " ..."
	}
	if len(errs) > 1 {
		s += fmt.Sprintf(" (+%d more)", len(errs)-1)
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
