package framework

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome is the final state of a test case.
type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Skipped Outcome = "skipped"
)

// HookStatus is the final state of a single hook invocation.
type HookStatus string

const (
	HookSucceeded HookStatus = "succeeded"
	HookFailed    HookStatus = "failed"
	HookTimedOut  HookStatus = "timed out"
)

// Results is everything recorded during one call to Run, in execution order.
type Results struct {
	RunID    string
	Tests    []TestResult
	Failures []TestResult
	Hooks    []HookResult
	Duration time.Duration
}

type TestResult struct {
	TestID     TestID
	Outcome    Outcome
	Kind       FailureKind
	Errors     []error
	SkipReason string
	Attempts   int
	Duration   time.Duration
}

type HookResult struct {
	TestID   TestID
	Kind     HookKind
	Name     string
	Status   HookStatus
	Errors   []error
	Duration time.Duration
}

// OK is true if no test case failed and no hook failed or timed out.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.FailedHooks()) == 0
}

// FailedHooks returns the hook invocations that did not succeed.
func (r Results) FailedHooks() []HookResult {
	var ret []HookResult
	for _, h := range r.Hooks {
		if h.Status != HookSucceeded {
			ret = append(ret, h)
		}
	}
	return ret
}

// Counts returns the number of passed, failed and skipped test cases.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch t.Outcome {
		case Passed:
			passed++
		case Failed:
			failed++
		case Skipped:
			skipped++
		}
	}
	return
}

// Find returns the result for the test case with the given path.
func (r Results) Find(path ...string) (TestResult, bool) {
	want := TestID{Path: path}.String()
	for _, t := range r.Tests {
		if t.TestID.String() == want {
			return t, true
		}
	}
	return TestResult{}, false
}

// Failure returns a TestFailure describing why the test failed, or nil if it did not.
func (t TestResult) Failure() error {
	if t.Outcome != Failed {
		return nil
	}
	err := errors.Join(t.Errors...)
	if err == nil {
		err = ErrFailedNoMessage
	}
	return TestFailure{ID: t.TestID, Kind: t.Kind, Err: err}
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns a new TestID with one more path element. Empty names add nothing, so an
// anonymous root group does not show up in test paths.
func (t TestID) Plus(name string) TestID {
	if name == "" {
		return t
	}
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

// Name is the last path element.
func (t TestID) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

type TestFailure struct {
	ID   TestID
	Kind FailureKind
	Err  error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s] %s: %s", f.ID, f.Kind, f.Err)
}

func (f TestFailure) Unwrap() error {
	return f.Err
}
