// Package framework runs trees of test groups and cases outside of the Go test runner, with
// setup and teardown hooks scoped to groups and cases.
//
// The general model is:
//
// 1. A tree is built once, by calling Describe and then registering cases, nested groups and
// hooks on each Group. Cases can be generated in a loop; each one is an ordinary Case whose
// body closes over its own input.
//
// 2. Run walks the tree exactly once, strictly sequentially. A group's before-all hooks run
// before anything inside it and its after-all hooks run after everything inside it, even if
// something failed. Before-each hooks run from the outermost group inward before every case,
// and after-each hooks from the innermost group outward after it.
//
// 3. Every hook and case body gets a *T, which is similar to Go's *testing.T: it accumulates
// failures, can be passed to the assert, require and mock packages, and can skip. Hooks and
// bodies registered with the Async methods also get a Done function; Run waits for it to be
// called, up to a timeout.
//
// Nothing that happens inside a hook or body stops the run. A failing before-all hook fails
// every case under its group without running them; a failing before-each hook fails just that
// case. The Results returned by Run list every case and every hook invocation in order.
package framework
