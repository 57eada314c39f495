package domain

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	m "bespec.dev/pkg/bespec/internal/model"
)

// Observer receives progress callbacks while the executor walks a forest.
// Path holds descriptions from the outermost group down to the example.
type Observer interface {
	ExampleStarted(path []string)
	ExampleFinished(path []string, result m.ExampleResult)
}

// Executor runs specification forests strictly sequentially, producing the
// isomorphic result forest. Hook chains travel as explicit arguments through
// the recursion; there is no shared scope state between examples.
type Executor struct {
	Observer Observer
}

// NewExecutor creates an Executor reporting progress to observer. A nil
// observer disables callbacks.
func NewExecutor(observer Observer) *Executor {
	return &Executor{Observer: observer}
}

// RunForest executes every root node in order and returns their results. An
// empty forest yields an empty result forest, not an error.
func (e *Executor) RunForest(forest []m.Node) []m.Result {
	results := make([]m.Result, 0, len(forest))
	for _, node := range forest {
		results = append(results, e.run(node, nil, nil, nil))
	}

	return results
}

// run executes one node. beforeChain holds the accumulated beforeEach hooks
// outermost first; afterChain holds the accumulated afterEach hooks innermost
// first. Chains are read-only here; child chains are fresh slices so siblings
// never alias each other's backing arrays.
func (e *Executor) run(node m.Node, path []string, beforeChain, afterChain []m.HookFunc) m.Result {
	switch n := node.(type) {
	case *m.Example:
		return e.runExample(n, path, beforeChain, afterChain)
	case *m.Group:
		return e.runGroup(n, path, beforeChain, afterChain)
	default:
		// Hook declarations never survive group construction; tolerate one
		// reaching the walk by treating it as an empty group.
		slog.Warn("unexpected node type reached the executor", "type", fmt.Sprintf("%T", node))

		return &m.GroupResult{}
	}
}

func (e *Executor) runExample(ex *m.Example, path []string, beforeChain, afterChain []m.HookFunc) m.Result {
	path = childPath(path, ex.Description)
	if e.Observer != nil {
		e.Observer.ExampleStarted(path)
	}

	start := time.Now()
	outcome := e.runLeaf(ex, beforeChain)
	e.runTeardowns(path, afterChain)

	result := m.ExampleResult{
		Description: ex.Description,
		Outcome:     outcome,
		Duration:    time.Since(start),
	}

	if e.Observer != nil {
		e.Observer.ExampleFinished(path, result)
	}

	return &result
}

// runLeaf runs the beforeEach chain and, when it fully succeeds, the body. A
// failing before hook becomes the example's own failed outcome; the remaining
// before hooks and the body are not run.
func (e *Executor) runLeaf(ex *m.Example, beforeChain []m.HookFunc) m.Outcome {
	for i, hook := range beforeChain {
		if err := callHook(hook); err != nil {
			return m.Failed(fmt.Errorf("beforeEach hook %d: %w", i+1, err))
		}
	}

	return ex.Run()
}

// runTeardowns attempts every afterEach hook regardless of how the body or
// earlier teardowns fared. A teardown failure is logged as its own signal and
// never changes the example's outcome.
func (e *Executor) runTeardowns(path []string, afterChain []m.HookFunc) {
	for i, hook := range afterChain {
		if err := callHook(hook); err != nil {
			slog.Error("afterEach hook failed",
				"example", strings.Join(path, " > "),
				"hook", i+1,
				"error", err)
		}
	}
}

func (e *Executor) runGroup(g *m.Group, path []string, beforeChain, afterChain []m.HookFunc) m.Result {
	path = childPath(path, g.Description)

	children := make([]m.Result, 0, len(g.Children))
	children = append(children, e.runOnceHooks(path, m.PhaseBeforeAll, g.Hooks.BeforeAll)...)

	childBefore := concatHooks(beforeChain, g.Hooks.BeforeEach)
	childAfter := concatHooks(g.Hooks.AfterEach, afterChain)

	for _, child := range g.Children {
		children = append(children, e.run(child, path, childBefore, childAfter))
	}

	children = append(children, e.runOnceHooks(path, m.PhaseAfterAll, g.Hooks.AfterAll)...)

	return &m.GroupResult{Description: g.Description, Children: children}
}

// runOnceHooks runs one group-scoped hook phase exactly once, in declaration
// order. Each failure is isolated into a synthetic example result named for
// the failing hook; sibling hooks and the group's children still run.
func (e *Executor) runOnceHooks(path []string, phase m.HookPhase, hooks []m.HookFunc) []m.Result {
	var failures []m.Result

	for i, hook := range hooks {
		start := time.Now()

		err := callHook(hook)
		if err == nil {
			continue
		}

		description := fmt.Sprintf("%s hook %d", phase, i+1)
		result := m.ExampleResult{
			Description: description,
			Outcome:     m.Failed(err),
			Duration:    time.Since(start),
		}
		failures = append(failures, &result)

		slog.Error("group hook failed",
			"group", strings.Join(path, " > "),
			"phase", string(phase),
			"hook", i+1,
			"error", err)

		if e.Observer != nil {
			e.Observer.ExampleFinished(childPath(path, description), result)
		}
	}

	return failures
}

// callHook invokes one hook, converting a panic into an error.
func callHook(hook m.HookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	hook()

	return nil
}

// childPath returns a fresh slice so sibling paths never share backing arrays.
func childPath(path []string, description string) []string {
	next := make([]string, 0, len(path)+1)
	next = append(next, path...)

	return append(next, description)
}

func concatHooks(a, b []m.HookFunc) []m.HookFunc {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	combined := make([]m.HookFunc, 0, len(a)+len(b))
	combined = append(combined, a...)

	return append(combined, b...)
}
