// Package domain contains the tree construction, filtering, and execution
// logic of the framework.
package domain

import (
	"fmt"

	m "bespec.dev/pkg/bespec/internal/model"
)

// PendingReason is the skip reason attached to examples declared pending.
const PendingReason = "marked pending"

// NewExample builds an example from a user body. The body is wrapped so a
// normal return reports Passed, a panic carrying *model.SkipSignal reports
// Skipped, and any other panic reports Failed with the panic value as cause.
func NewExample(description string, body func(), focused bool) *m.Example {
	return &m.Example{
		Description: description,
		Run:         wrapBody(body),
		Focused:     focused,
	}
}

// NewSkippedExample builds an example that always reports Skipped. The body is
// deliberately never invoked, so placeholder tests cannot fail or hang.
func NewSkippedExample(description string, _ func()) *m.Example {
	return &m.Example{
		Description: description,
		Run: func() m.Outcome {
			return m.Skipped(PendingReason)
		},
	}
}

// NewGroup builds a group from a mixed child list, folding hook declarations
// into the group's hook set in encounter order. Partitioning happens exactly
// once, here; built trees never contain hook nodes.
func NewGroup(description string, children []m.Node, focused bool) *m.Group {
	var hooks m.HookSet

	real := make([]m.Node, 0, len(children))

	for _, child := range children {
		if hook, ok := child.(*m.HookNode); ok {
			hooks.Add(hook.Phase, hook.Fn)
			continue
		}

		real = append(real, child)
	}

	return &m.Group{
		Description: description,
		Hooks:       hooks,
		Children:    real,
		Focused:     focused,
	}
}

// NewSkippedGroup builds a pending group: the tree shape is preserved for
// reporting, every descendant example reports Skipped, and no hook or body
// inside it ever runs.
func NewSkippedGroup(description string, children []m.Node) *m.Group {
	return skipGroup(NewGroup(description, children, false))
}

func skipGroup(g *m.Group) *m.Group {
	skipped := make([]m.Node, 0, len(g.Children))

	for _, child := range g.Children {
		switch c := child.(type) {
		case *m.Example:
			skipped = append(skipped, NewSkippedExample(c.Description, nil))
		case *m.Group:
			skipped = append(skipped, skipGroup(c))
		}
	}

	return &m.Group{Description: g.Description, Children: skipped}
}

// NewHook builds the transient hook declaration consumed by NewGroup.
func NewHook(phase m.HookPhase, fn m.HookFunc) *m.HookNode {
	return &m.HookNode{Phase: phase, Fn: fn}
}

func wrapBody(body func()) m.LeafFunc {
	return func() (outcome m.Outcome) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if skip, ok := r.(*m.SkipSignal); ok {
				outcome = m.Skipped(skip.Reason)
				return
			}

			outcome = m.Failed(panicError(r))
		}()

		body()

		return m.Passed()
	}
}

// panicError converts a recovered panic value into an error. Assertion
// failures arrive as error values and are preserved as-is.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("panic: %v", v)
}
