package bespec

import (
	"bespec.dev/pkg/bespec/internal/domain"
	m "bespec.dev/pkg/bespec/internal/model"
)

// Describe declares a group of specifications. Hook declarations among the
// children attach to this group; everything else becomes a child node.
func Describe(description string, children ...Node) Node {
	return domain.NewGroup(description, children, false)
}

// Context is Describe under a name that reads better for stateful variations.
func Context(description string, children ...Node) Node {
	return domain.NewGroup(description, children, false)
}

// When declares a group whose description is prefixed with "when ", so
// When("the cache is cold", ...) reads naturally in reports.
func When(description string, children ...Node) Node {
	return domain.NewGroup("when "+description, children, false)
}

// FDescribe declares a focused group. When any node in the forest is focused,
// only focused nodes run; everything else is silently dropped.
func FDescribe(description string, children ...Node) Node {
	return domain.NewGroup(description, children, true)
}

// XDescribe declares a skipped group. Its examples report Skipped, its hooks
// never run, and none of the bodies execute.
func XDescribe(description string, children ...Node) Node {
	return domain.NewSkippedGroup(description, children)
}

// PDescribe marks a group pending. It is XDescribe under the conventional
// pending name.
func PDescribe(description string, children ...Node) Node {
	return domain.NewSkippedGroup(description, children)
}

// It declares a single example. The body runs with the surrounding groups'
// beforeEach hooks before it and afterEach hooks after it; a panic fails the
// example, Skip marks it skipped, falling off the end passes it.
func It(description string, body func()) Node {
	return domain.NewExample(description, body, false)
}

// Specify is It under a name that reads better for some descriptions.
func Specify(description string, body func()) Node {
	return domain.NewExample(description, body, false)
}

// FIt declares a focused example.
func FIt(description string, body func()) Node {
	return domain.NewExample(description, body, true)
}

// XIt declares a skipped example. The body is never invoked, which protects
// against placeholder tests whose bodies would fail or hang.
func XIt(description string, body func()) Node {
	return domain.NewSkippedExample(description, body)
}

// PIt marks an example pending. It is XIt under the conventional pending name.
func PIt(description string, body func()) Node {
	return domain.NewSkippedExample(description, body)
}

// BeforeAll declares a hook that runs once before the enclosing group's
// children, in declaration order with its siblings.
func BeforeAll(fn func()) Node {
	return domain.NewHook(m.PhaseBeforeAll, fn)
}

// BeforeEach declares a hook that runs before every example in the enclosing
// group and its subgroups, outermost group first.
func BeforeEach(fn func()) Node {
	return domain.NewHook(m.PhaseBeforeEach, fn)
}

// AfterEach declares a hook that runs after every example in the enclosing
// group and its subgroups, innermost group first. AfterEach hooks run even
// when the example fails.
func AfterEach(fn func()) Node {
	return domain.NewHook(m.PhaseAfterEach, fn)
}

// AfterAll declares a hook that runs once after the enclosing group's
// children, in declaration order with its siblings.
func AfterAll(fn func()) Node {
	return domain.NewHook(m.PhaseAfterAll, fn)
}

// Skip aborts the current example body and marks the example skipped with the
// given reason. Calling Skip outside an example body panics the run.
func Skip(reason string) {
	panic(&m.SkipSignal{Reason: reason})
}
