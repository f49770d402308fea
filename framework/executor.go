package framework

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is how long an asynchronous hook or body may take to call Done if nothing
// more specific was configured.
const DefaultTimeout = 2 * time.Second

const filteredOutReason = "excluded by filter parameters"

// Config holds run-wide defaults. Groups, cases and hooks can override them.
type Config struct {
	Timeout time.Duration
	Retries int
}

type environment struct {
	config     Config
	filter     Filter
	testLogger TestLogger
	results    Results
}

type executor struct {
	env *environment
}

// scope is the runtime state of a group that is currently being executed.
type scope struct {
	parent  *scope
	group   *Group
	id      TestID
	values  *Values
	timeout time.Duration
	retries int
}

type caseVisit struct {
	c          *Case
	id         TestID
	skipped    bool
	skipReason string
}

// Run executes every case under root, one at a time and in declaration order, and returns
// the results. Failures and panics in hooks or cases are recorded, never propagated, so Run
// always visits the whole tree.
//
// The filter may be nil. Cases it rejects are reported as skipped, and groups that contain no
// selected cases are not entered at all, so their hooks do not run.
//
// If a before-all hook fails, every case under its group is reported as a
// PropagatedSetupFailure, except cases that were already marked skipped or are rejected by the
// filter: those stay skipped.
//
// After Run starts, the tree is sealed: trying to register anything else on it panics.
func Run(root *Group, config Config, filter Filter, testLogger TestLogger) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	env := &environment{
		config:     config,
		filter:     filter,
		testLogger: testLogger,
		results:    Results{RunID: uuid.New().String()},
	}
	x := &executor{env: env}

	root.seal()
	started := time.Now()
	x.runGroup(root, nil)
	env.results.Duration = time.Since(started)
	return env.results
}

func (x *executor) enter(g *Group, parent *scope) *scope {
	s := &scope{
		parent:  parent,
		group:   g,
		timeout: x.env.config.Timeout,
		retries: x.env.config.Retries,
	}
	if parent == nil {
		s.id = TestID{}.Plus(g.name)
		s.values = newValues(nil)
	} else {
		s.id = parent.id.Plus(g.name)
		s.values = newValues(parent.values)
		s.timeout, s.retries = parent.timeout, parent.retries
	}
	if g.timeout > 0 {
		s.timeout = g.timeout
	}
	if g.retries >= 0 {
		s.retries = g.retries
	}
	return s
}

// chain returns the scopes from the outermost group down to this one.
func (s *scope) chain() []*scope {
	var ret []*scope
	for p := s; p != nil; p = p.parent {
		ret = append([]*scope{p}, ret...)
	}
	return ret
}

func (x *executor) runGroup(g *Group, parent *scope) {
	s := x.enter(g, parent)
	if !x.hasSelected(g, s.id) {
		x.skipAll(collectCases(g, s.id, false, ""))
		return
	}

	skipReason, failure := x.runSetupHooks(s, BeforeAll, "", nil)
	switch {
	case g.skipped:
		x.skipAll(collectCases(g, s.id, true, g.skipReason))
	case failure != nil:
		x.failAll(collectCases(g, s.id, false, ""), failure)
	case skipReason != nil:
		x.skipAll(collectCases(g, s.id, true, *skipReason))
	default:
		for _, child := range g.children {
			switch n := child.(type) {
			case *Case:
				x.runCase(n, s)
			case *Group:
				x.runGroup(n, s)
			}
		}
	}

	x.runTeardownHooks(s, AfterAll, "", nil)
}

func (x *executor) runCase(c *Case, s *scope) {
	id := s.id.Plus(c.name)
	x.env.testLogger.TestStarted(id)
	if !x.selected(id) {
		x.record(TestResult{TestID: id, Outcome: Skipped, SkipReason: filteredOutReason}, nil)
		return
	}
	if c.skipped {
		x.record(TestResult{TestID: id, Outcome: Skipped, SkipReason: c.skipReason}, nil)
		return
	}

	retries := s.retries
	if c.retries >= 0 {
		retries = c.retries
	}
	timeout := s.timeout
	if c.timeout > 0 {
		timeout = c.timeout
	}

	debugOutput := &CapturingLogger{}
	started := time.Now()
	var result TestResult
	for attempt := 1; ; attempt++ {
		result = x.runAttempt(c, id, s, timeout, debugOutput)
		result.Attempts = attempt
		if result.Outcome != Failed || attempt > retries {
			break
		}
		debugOutput.Printf("attempt %d of %d failed, retrying", attempt, retries+1)
	}
	result.Duration = time.Since(started)
	x.record(result, debugOutput.Output())
}

// runAttempt runs the before-each chain from the outermost group inward, the body, and then
// the after-each hooks of every group that was entered, from the innermost outward.
func (x *executor) runAttempt(c *Case, id TestID, s *scope, timeout time.Duration, debugOutput *CapturingLogger) TestResult {
	result := TestResult{TestID: id, Outcome: Passed}
	chain := s.chain()

	entered := 0
	ready := true
	for _, sc := range chain {
		entered++
		skipReason, failure := x.runSetupHooks(sc, BeforeEach, c.name, debugOutput)
		if failure != nil {
			result.Outcome = Failed
			result.Kind = PropagatedSetupFailure
			result.Errors = []error{fmt.Errorf("%w: %w", ErrPropagatedSetup, failure)}
			ready = false
			break
		}
		if skipReason != nil {
			result.Outcome = Skipped
			result.SkipReason = *skipReason
			ready = false
			break
		}
	}

	if ready {
		t := x.newT(id, s.values, debugOutput)
		inv := t.invoke(c.sync, c.async, timeout)
		switch {
		case inv.failed:
			result.Outcome = Failed
			result.Kind = inv.kind
			result.Errors = inv.errors
		case inv.skipped:
			result.Outcome = Skipped
			result.SkipReason = inv.skipReason
		}
	}

	for i := entered - 1; i >= 0; i-- {
		x.runTeardownHooks(chain[i], AfterEach, c.name, debugOutput)
	}
	return result
}

// runSetupHooks runs the before-all or before-each hooks of one group in order, stopping at the
// first one that fails or skips. It returns the skip reason if a hook skipped, or a TestFailure
// for the hook that failed.
func (x *executor) runSetupHooks(s *scope, kind HookKind, caseName string, debugOutput *CapturingLogger) (*string, error) {
	for _, h := range s.group.hooks[kind] {
		inv, id := x.runHook(h, s, caseName, debugOutput)
		if inv.failed {
			return nil, TestFailure{ID: id, Kind: inv.kind, Err: errors.Join(inv.errors...)}
		}
		if inv.skipped {
			reason := inv.skipReason
			return &reason, nil
		}
	}
	return nil, nil
}

// runTeardownHooks runs every after-all or after-each hook of one group. A failing teardown hook
// is recorded in the results but does not stop the others or change any case outcome.
func (x *executor) runTeardownHooks(s *scope, kind HookKind, caseName string, debugOutput *CapturingLogger) {
	for _, h := range s.group.hooks[kind] {
		x.runHook(h, s, caseName, debugOutput)
	}
}

func (x *executor) runHook(h *Hook, s *scope, caseName string, debugOutput *CapturingLogger) (invocation, TestID) {
	id := s.id.Plus(h.label(caseName))
	ownOutput := debugOutput == nil
	if ownOutput {
		debugOutput = &CapturingLogger{}
	}
	timeout := s.timeout
	if h.timeout > 0 {
		timeout = h.timeout
	}

	t := x.newT(id, s.values, debugOutput)
	inv := t.invoke(h.sync, h.async, timeout)

	status := HookSucceeded
	switch {
	case inv.timedOut:
		status = HookTimedOut
	case inv.failed:
		status = HookFailed
	}
	x.env.results.Hooks = append(x.env.results.Hooks, HookResult{
		TestID:   id,
		Kind:     h.kind,
		Name:     h.name,
		Status:   status,
		Errors:   inv.errors,
		Duration: inv.duration,
	})

	var output CapturedOutput
	if ownOutput {
		output = debugOutput.Output()
	}
	x.env.testLogger.HookFinished(id, status, output)
	return inv, id
}

func (x *executor) skipAll(cases []caseVisit) {
	for _, v := range cases {
		x.env.testLogger.TestStarted(v.id)
		reason := v.skipReason
		if !x.selected(v.id) {
			reason = filteredOutReason
		}
		x.record(TestResult{TestID: v.id, Outcome: Skipped, SkipReason: reason}, nil)
	}
}

func (x *executor) failAll(cases []caseVisit, cause error) {
	for _, v := range cases {
		if v.skipped || !x.selected(v.id) {
			x.skipAll([]caseVisit{v})
			continue
		}
		x.env.testLogger.TestStarted(v.id)
		x.record(TestResult{
			TestID:  v.id,
			Outcome: Failed,
			Kind:    PropagatedSetupFailure,
			Errors:  []error{fmt.Errorf("%w: %w", ErrPropagatedSetup, cause)},
		}, nil)
	}
}

func (x *executor) record(result TestResult, debugOutput CapturedOutput) {
	x.env.results.Tests = append(x.env.results.Tests, result)
	if result.Outcome == Skipped {
		x.env.testLogger.TestSkipped(result.TestID, result.SkipReason)
		return
	}
	failed := result.Outcome == Failed
	if failed {
		x.env.results.Failures = append(x.env.results.Failures, result)
		if result.Kind == PropagatedSetupFailure {
			for _, err := range result.Errors {
				x.env.testLogger.TestError(result.TestID, err)
			}
		}
	}
	x.env.testLogger.TestFinished(result.TestID, failed, debugOutput)
}

func (x *executor) selected(id TestID) bool {
	return x.env.filter == nil || x.env.filter(id)
}

func (x *executor) hasSelected(g *Group, id TestID) bool {
	for _, v := range collectCases(g, id, false, "") {
		if x.selected(v.id) {
			return true
		}
	}
	return false
}

// collectCases lists every case under g in declaration order, noting which ones are skipped
// either directly or because they are inside a skipped group.
func collectCases(g *Group, id TestID, skipped bool, skipReason string) []caseVisit {
	if g.skipped && !skipped {
		skipped, skipReason = true, g.skipReason
	}
	var ret []caseVisit
	for _, child := range g.children {
		switch n := child.(type) {
		case *Case:
			v := caseVisit{c: n, id: id.Plus(n.name), skipped: skipped, skipReason: skipReason}
			if n.skipped && !skipped {
				v.skipped, v.skipReason = true, n.skipReason
			}
			ret = append(ret, v)
		case *Group:
			ret = append(ret, collectCases(n, id.Plus(n.name), skipped, skipReason)...)
		}
	}
	return ret
}
