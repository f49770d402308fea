package framework

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ConsoleTestLogger is a TestLogger that prints progress as the run goes.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	// Out defaults to os.Stdout.
	Out io.Writer
}

var (
	failedLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	skippedLabel = color.New(color.FgYellow).SprintFunc()
	errorText    = color.New(color.FgRed).SprintFunc()
)

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(id TestID) {
	fmt.Fprintf(c.out(), "[%s]\n", id)
}

func (c ConsoleTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.out(), "  %s\n", errorText(line))
	}
}

func (c ConsoleTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if failed {
		fmt.Fprintf(c.out(), "  %s %s\n", failedLabel("FAILED:"), id)
	}
	c.dump(failed, debugOutput)
}

func (c ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.out(), "  %s %s\n", skippedLabel("SKIPPED:"), id)
	} else {
		fmt.Fprintf(c.out(), "  %s %s (%s)\n", skippedLabel("SKIPPED:"), id, reason)
	}
}

// HookFinished only prints anything for hooks that did not succeed; their errors were already
// printed by TestError.
func (c ConsoleTestLogger) HookFinished(id TestID, status HookStatus, debugOutput CapturedOutput) {
	failed := status != HookSucceeded
	if failed {
		fmt.Fprintf(c.out(), "  %s %s\n", failedLabel("HOOK "+strings.ToUpper(string(status))+":"), id)
	}
	c.dump(failed, debugOutput)
}

func (c ConsoleTestLogger) dump(failed bool, debugOutput CapturedOutput) {
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out(), "    DEBUG ")
	}
}
