// Package model defines the data structures for specification trees and their results.
package model

// HookFunc is a zero-argument side-effecting operation run at a lifecycle point.
type HookFunc func()

// LeafFunc executes one example body and reports its outcome. The executor
// invokes it at most once per tree walk; the builder wraps user bodies so a
// panic surfaces as a failed outcome instead of unwinding the run.
type LeafFunc func() Outcome

// HookPhase identifies the lifecycle point a hook runs at.
type HookPhase string

const (
	// PhaseBeforeAll runs once per group, before any child.
	PhaseBeforeAll HookPhase = "beforeAll"
	// PhaseBeforeEach runs before every descendant example.
	PhaseBeforeEach HookPhase = "beforeEach"
	// PhaseAfterEach runs after every descendant example.
	PhaseAfterEach HookPhase = "afterEach"
	// PhaseAfterAll runs once per group, after all children.
	PhaseAfterAll HookPhase = "afterAll"
)

// HookSet holds the lifecycle hooks attached to a group, one ordered list per
// phase. Lists preserve declaration order and may accumulate across multiple
// declarations in the same child list.
type HookSet struct {
	BeforeAll  []HookFunc
	BeforeEach []HookFunc
	AfterEach  []HookFunc
	AfterAll   []HookFunc
}

// Add appends fn to the list for the given phase.
func (h *HookSet) Add(phase HookPhase, fn HookFunc) {
	switch phase {
	case PhaseBeforeAll:
		h.BeforeAll = append(h.BeforeAll, fn)
	case PhaseBeforeEach:
		h.BeforeEach = append(h.BeforeEach, fn)
	case PhaseAfterEach:
		h.AfterEach = append(h.AfterEach, fn)
	case PhaseAfterAll:
		h.AfterAll = append(h.AfterAll, fn)
	}
}

// IsEmpty reports whether no hooks are attached in any phase.
func (h HookSet) IsEmpty() bool {
	return len(h.BeforeAll) == 0 && len(h.BeforeEach) == 0 &&
		len(h.AfterEach) == 0 && len(h.AfterAll) == 0
}

// Node is one node of an immutable specification tree. A forest of nodes is
// constructed once by the builder and read-only thereafter.
type Node interface {
	node()
}

// Example is a single named test case with a runnable body.
type Example struct {
	Description string
	Run         LeafFunc
	Focused     bool
}

// Group is a named container of child nodes plus lifecycle hooks. Children
// never contains hook declarations; the builder folds those into Hooks at
// construction time.
type Group struct {
	Description string
	Hooks       HookSet
	Children    []Node
	Focused     bool
}

// HookNode is a hook declaration appearing transiently in a group's child
// list. Group construction consumes it; a built tree never contains one.
type HookNode struct {
	Phase HookPhase
	Fn    HookFunc
}

func (*Example) node()  {}
func (*Group) node()    {}
func (*HookNode) node() {}

// SkipSignal aborts an example body via panic and marks the example skipped.
type SkipSignal struct {
	Reason string
}
