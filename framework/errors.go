package framework

import "errors"

// FailureKind classifies why a test case or hook failed.
type FailureKind string

const (
	// AssertionFailure means Errorf or FailNow was called, usually by an assert/require function.
	AssertionFailure FailureKind = "assertion failure"

	// HookTimeout means an asynchronous hook or body did not signal completion in time.
	HookTimeout FailureKind = "hook timeout"

	// UnhandledException means a hook or body panicked with something other than a FailNow.
	UnhandledException FailureKind = "unhandled exception"

	// PropagatedSetupFailure means the case never ran because a before-all or before-each
	// hook it depends on failed.
	PropagatedSetupFailure FailureKind = "propagated setup failure"
)

var (
	ErrHookTimeout     = errors.New("timed out")
	ErrPropagatedSetup = errors.New("setup hook failed")
	ErrUnhandledPanic  = errors.New("unexpected panic")
	ErrFailedNoMessage = errors.New("test failed with no failure message")
)
