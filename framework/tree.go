package framework

import (
	"fmt"
	"time"
)

// HookKind says when a hook runs relative to the cases of its group.
type HookKind string

const (
	BeforeAll  HookKind = "before all"
	AfterAll   HookKind = "after all"
	BeforeEach HookKind = "before each"
	AfterEach  HookKind = "after each"
)

const pendingReason = "pending"

// Done signals that an asynchronous hook or case body has finished. A non-nil error fails it.
// Only the first call has any effect.
type Done func(err error)

type node interface {
	nodeName() string
}

// Group is a named scope containing cases, nested groups and hooks. Groups are built once,
// by the build function passed to Describe, and must not be changed after Run starts.
type Group struct {
	name       string
	children   []node
	hooks      map[HookKind][]*Hook
	skipped    bool
	skipReason string
	timeout    time.Duration
	retries    int
	sealed     bool
}

// Case is a single named test with a body.
type Case struct {
	name       string
	sync       func(*T)
	async      func(*T, Done)
	skipped    bool
	skipReason string
	timeout    time.Duration
	retries    int
	owner      *Group
}

// Hook is a setup or teardown callback registered on a group.
type Hook struct {
	kind    HookKind
	name    string
	sync    func(*T)
	async   func(*T, Done)
	timeout time.Duration
	owner   *Group
}

// Describe creates a root group and calls build to register its contents. An empty name
// creates an anonymous group whose name does not appear in test IDs.
func Describe(name string, build func(*Group)) *Group {
	g := newGroup(name)
	if build != nil {
		build(g)
	}
	return g
}

func newGroup(name string) *Group {
	return &Group{
		name:    name,
		hooks:   make(map[HookKind][]*Hook),
		retries: -1,
	}
}

func (g *Group) nodeName() string { return g.name }

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Describe registers a nested group. The build function is called immediately.
func (g *Group) Describe(name string, build func(*Group)) *Group {
	g.checkOpen(name)
	child := newGroup(name)
	g.children = append(g.children, child)
	if build != nil {
		build(child)
	}
	return child
}

// It registers a synchronous test case. A case with a nil body is pending: it is reported as
// skipped and none of its hooks run.
func (g *Group) It(name string, body func(*T)) *Case {
	return g.addCase(&Case{name: name, sync: body})
}

// ItAsync registers a test case that finishes when it calls Done.
func (g *Group) ItAsync(name string, body func(*T, Done)) *Case {
	return g.addCase(&Case{name: name, async: body})
}

func (g *Group) addCase(c *Case) *Case {
	g.checkOpen(c.name)
	c.retries = -1
	c.owner = g
	if c.sync == nil && c.async == nil {
		c.skipped, c.skipReason = true, pendingReason
	}
	g.children = append(g.children, c)
	return c
}

func (g *Group) BeforeAll(fn func(*T)) *Hook { return g.addHook(BeforeAll, fn, nil) }

func (g *Group) BeforeAllAsync(fn func(*T, Done)) *Hook { return g.addHook(BeforeAll, nil, fn) }

func (g *Group) AfterAll(fn func(*T)) *Hook { return g.addHook(AfterAll, fn, nil) }

func (g *Group) AfterAllAsync(fn func(*T, Done)) *Hook { return g.addHook(AfterAll, nil, fn) }

func (g *Group) BeforeEach(fn func(*T)) *Hook { return g.addHook(BeforeEach, fn, nil) }

func (g *Group) BeforeEachAsync(fn func(*T, Done)) *Hook { return g.addHook(BeforeEach, nil, fn) }

func (g *Group) AfterEach(fn func(*T)) *Hook { return g.addHook(AfterEach, fn, nil) }

func (g *Group) AfterEachAsync(fn func(*T, Done)) *Hook { return g.addHook(AfterEach, nil, fn) }

func (g *Group) addHook(kind HookKind, sync func(*T), async func(*T, Done)) *Hook {
	g.checkOpen(string(kind) + " hook")
	if sync == nil && async == nil {
		panic(fmt.Sprintf("framework: %q hook in group %q has no function", string(kind), g.name))
	}
	h := &Hook{kind: kind, sync: sync, async: async, owner: g}
	g.hooks[kind] = append(g.hooks[kind], h)
	return h
}

// Skip marks every case in the group and its nested groups as skipped. The group's own
// before-all and after-all hooks still run.
func (g *Group) Skip() *Group {
	return g.SkipWithReason("")
}

func (g *Group) SkipWithReason(reason string) *Group {
	g.checkOpen(g.name)
	g.skipped = true
	g.skipReason = reason
	return g
}

// Timeout sets how long asynchronous hooks and bodies in this group and its nested groups may
// take to call Done.
func (g *Group) Timeout(d time.Duration) *Group {
	g.checkOpen(g.name)
	g.timeout = d
	return g
}

// Retries sets how many extra attempts a failing case in this group or its nested groups gets.
func (g *Group) Retries(n int) *Group {
	g.checkOpen(g.name)
	g.retries = n
	return g
}

func (g *Group) checkOpen(what string) {
	if g.sealed {
		panic(fmt.Sprintf("framework: cannot register %q in group %q after the run has started", what, g.name))
	}
}

func (g *Group) seal() {
	g.sealed = true
	for _, child := range g.children {
		if cg, ok := child.(*Group); ok {
			cg.seal()
		}
	}
}

func (c *Case) nodeName() string { return c.name }

// Name returns the case name.
func (c *Case) Name() string { return c.name }

// Skip keeps the case from running. Its before-each and after-each hooks do not fire for it.
func (c *Case) Skip() *Case {
	return c.SkipWithReason("")
}

func (c *Case) SkipWithReason(reason string) *Case {
	c.owner.checkOpen(c.name)
	c.skipped = true
	c.skipReason = reason
	return c
}

func (c *Case) Timeout(d time.Duration) *Case {
	c.owner.checkOpen(c.name)
	c.timeout = d
	return c
}

func (c *Case) Retries(n int) *Case {
	c.owner.checkOpen(c.name)
	c.retries = n
	return c
}

// Named gives the hook a name for reporting.
func (h *Hook) Named(name string) *Hook {
	h.owner.checkOpen(name)
	h.name = name
	return h
}

func (h *Hook) Timeout(d time.Duration) *Hook {
	h.owner.checkOpen(h.name)
	h.timeout = d
	return h
}

func (h *Hook) Kind() HookKind { return h.kind }

func (h *Hook) Name() string { return h.name }

// label is how the hook appears in test IDs, e.g. `"before each" hook: reset for "case1"`.
func (h *Hook) label(caseName string) string {
	s := fmt.Sprintf("%q hook", string(h.kind))
	if h.name != "" {
		s += ": " + h.name
	}
	if caseName != "" {
		s += fmt.Sprintf(" for %q", caseName)
	}
	return s
}
