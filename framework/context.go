package framework

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// T is passed to every hook and case body. It is used similarly to *testing.T, but outside of
// the Go test runner: it implements require.TestingT and mock.TestingT, so failed assertions
// and unmet mock expectations fail the current hook or case.
//
// As with *testing.T, FailNow and Skip must be called on the goroutine that is running the hook
// or body. From any other goroutine, report problems with Errorf or by passing an error to Done.
type T struct {
	env         *environment
	id          TestID
	values      *Values
	debugLogger Logger
	ctx         context.Context
	cancel      context.CancelFunc
	lock        sync.Mutex
	failed      bool
	timedOut    bool
	skipped     bool
	skipReason  string
	finished    bool
	kind        FailureKind
	errors      []error
}

// invocation is the snapshot of a T after its hook or body has finished.
type invocation struct {
	failed     bool
	timedOut   bool
	skipped    bool
	skipReason string
	kind       FailureKind
	errors     []error
	duration   time.Duration
}

func (x *executor) newT(id TestID, values *Values, debugOutput *CapturingLogger) *T {
	return &T{
		env:         x.env,
		id:          id,
		values:      values,
		debugLogger: debugOutput.withSource(id.Name()),
	}
}

// invoke runs a synchronous or asynchronous callback to completion, or until the timeout
// elapses for an asynchronous one.
func (t *T) invoke(sync func(*T), async func(*T, Done), timeout time.Duration) invocation {
	started := time.Now()
	if async != nil {
		t.ctx, t.cancel = context.WithTimeout(context.Background(), timeout)
		t.runAsync(async, timeout)
	} else if sync != nil {
		t.ctx, t.cancel = context.WithCancel(context.Background())
		t.run(sync)
	}
	inv := t.finish()
	inv.duration = time.Since(started)
	return inv
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			t.recovered(r)
		}
	}()
	action(t)
}

func (t *T) runAsync(action func(*T, Done), timeout time.Duration) {
	signal := make(chan error, 1)
	var once sync.Once
	done := Done(func(err error) {
		once.Do(func() { signal <- err })
	})
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.recovered(r)
				done(nil)
			}
		}()
		action(t, done)
	}()

	select {
	case err := <-signal:
		if err != nil {
			t.addError(AssertionFailure, fmt.Errorf("done called with error: %w", err))
		}
	case <-t.ctx.Done():
		t.lock.Lock()
		t.timedOut = true
		t.lock.Unlock()
		t.addError(HookTimeout, fmt.Errorf("%w: done was not called within %s", ErrHookTimeout, timeout))
	}
}

func (t *T) recovered(r interface{}) {
	t.lock.Lock()
	skipped := t.skipped
	noErrors := len(t.errors) == 0
	t.lock.Unlock()
	if skipped {
		return
	}
	if _, ok := r.(*T); ok {
		if noErrors {
			t.addError(AssertionFailure, ErrFailedNoMessage)
		}
		return
	}
	t.addError(UnhandledException, fmt.Errorf("%w: %+v\n%s", ErrUnhandledPanic, r, string(debug.Stack())))
}

func (t *T) addError(kind FailureKind, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return
	}
	t.failed = true
	if t.kind == "" {
		t.kind = kind
	}
	t.errors = append(t.errors, err)
	t.env.testLogger.TestError(t.id, err)
}

// finish stops the T from accepting any more state changes, so that a late callback from a
// timed-out async hook cannot affect results that were already recorded.
func (t *T) finish() invocation {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.finished = true
	if t.cancel != nil {
		t.cancel()
	}
	return invocation{
		failed:     t.failed,
		timedOut:   t.timedOut,
		skipped:    t.skipped && !t.failed,
		skipReason: t.skipReason,
		kind:       t.kind,
		errors:     append([]error(nil), t.errors...),
	}
}

// ID returns the path of the current case or hook.
func (t *T) ID() TestID {
	return t.id
}

// Context is cancelled when the current hook or body finishes or times out.
func (t *T) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Values returns the shared values of the group that the current hook or case belongs to.
func (t *T) Values() *Values {
	return t.values
}

// Errorf is called by assertions to log a failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.addError(AssertionFailure, fmt.Errorf(format, args...))
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	panic(t)
}

// Failed reports whether the current hook or case has failed so far.
func (t *T) Failed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.failed
}

func (t *T) Skip() {
	t.lock.Lock()
	t.skipped = true
	t.lock.Unlock()
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.lock.Lock()
	t.skipReason = reason
	t.lock.Unlock()
	t.Skip()
}

// Logf is called by mocks to describe calls; it goes to the debug output like Debug.
func (t *T) Logf(format string, args ...interface{}) {
	t.debugLogger.Printf(format, args...)
}

// Debug adds a line of debug output. The output is passed to the test logger at the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() Logger {
	return t.debugLogger
}

// Helper exists so that assertion libraries that look for it can call it; it does nothing.
func (t *T) Helper() {}
