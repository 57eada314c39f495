package bespec

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "bespec.dev/pkg/bespec/internal/model"
)

func TestDescribe_PartitionsHooksFromChildren(t *testing.T) {
	node := Describe("calculator",
		BeforeAll(func() {}),
		BeforeEach(func() {}),
		It("adds", func() {}),
		AfterEach(func() {}),
		AfterAll(func() {}),
	)

	group, ok := node.(*m.Group)
	require.True(t, ok)
	require.Equal(t, "calculator", group.Description)
	require.False(t, group.Focused)

	require.Len(t, group.Children, 1)
	_, ok = group.Children[0].(*m.Example)
	require.True(t, ok)

	require.Len(t, group.Hooks.BeforeAll, 1)
	require.Len(t, group.Hooks.BeforeEach, 1)
	require.Len(t, group.Hooks.AfterEach, 1)
	require.Len(t, group.Hooks.AfterAll, 1)
}

func TestContext_BuildsGroup(t *testing.T) {
	node := Context("with history", It("remembers", func() {}))

	group, ok := node.(*m.Group)
	require.True(t, ok)
	require.Equal(t, "with history", group.Description)
	require.Len(t, group.Children, 1)
}

func TestWhen_PrefixesDescription(t *testing.T) {
	node := When("the stack is empty", It("errors", func() {}))

	group, ok := node.(*m.Group)
	require.True(t, ok)
	require.Equal(t, "when the stack is empty", group.Description)
}

func TestFocusVariants_MarkFocused(t *testing.T) {
	group, ok := FDescribe("only this", It("runs", func() {})).(*m.Group)
	require.True(t, ok)
	require.True(t, group.Focused)

	example, ok := FIt("only this too", func() {}).(*m.Example)
	require.True(t, ok)
	require.True(t, example.Focused)
}

func TestSpecify_BuildsExample(t *testing.T) {
	example, ok := Specify("behaves", func() {}).(*m.Example)
	require.True(t, ok)
	require.Equal(t, "behaves", example.Description)
	require.Equal(t, m.StatusPassed, example.Run().Status)
}

func TestPendingExample_BodyNeverInvoked(t *testing.T) {
	invoked := false

	example, ok := XIt("not yet", func() { invoked = true }).(*m.Example)
	require.True(t, ok)

	outcome := example.Run()

	require.False(t, invoked)
	require.Equal(t, m.StatusSkipped, outcome.Status)
	require.Equal(t, "marked pending", outcome.Reason)
}

func TestPendingGroup_SkipsAllDescendants(t *testing.T) {
	invoked := false

	node := XDescribe("unfinished",
		It("direct", func() { invoked = true }),
		Describe("nested",
			It("deep", func() { invoked = true }),
		),
	)

	group, ok := node.(*m.Group)
	require.True(t, ok)

	direct, ok := group.Children[0].(*m.Example)
	require.True(t, ok)
	require.Equal(t, m.StatusSkipped, direct.Run().Status)

	nested, ok := group.Children[1].(*m.Group)
	require.True(t, ok)
	deep, ok := nested.Children[0].(*m.Example)
	require.True(t, ok)
	require.Equal(t, m.StatusSkipped, deep.Run().Status)

	require.False(t, invoked)
}

func TestPendingAliases(t *testing.T) {
	example, ok := PIt("pending leaf", func() {}).(*m.Example)
	require.True(t, ok)
	require.Equal(t, m.StatusSkipped, example.Run().Status)

	group, ok := PDescribe("pending container", It("leaf", func() {})).(*m.Group)
	require.True(t, ok)
	leaf, ok := group.Children[0].(*m.Example)
	require.True(t, ok)
	require.Equal(t, m.StatusSkipped, leaf.Run().Status)
}

func TestSkip_MarksExampleSkippedAtRuntime(t *testing.T) {
	example, ok := It("skips itself", func() {
		Skip("needs a database")
	}).(*m.Example)
	require.True(t, ok)

	outcome := example.Run()

	require.Equal(t, m.StatusSkipped, outcome.Status)
	require.Equal(t, "needs a database", outcome.Reason)
}

func TestHookConstructors_Phases(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want m.HookPhase
	}{
		{"BeforeAll", BeforeAll(func() {}), m.PhaseBeforeAll},
		{"BeforeEach", BeforeEach(func() {}), m.PhaseBeforeEach},
		{"AfterEach", AfterEach(func() {}), m.PhaseAfterEach},
		{"AfterAll", AfterAll(func() {}), m.PhaseAfterAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook, ok := tt.node.(*m.HookNode)
			require.True(t, ok)
			require.Equal(t, tt.want, hook.Phase)
			require.NotNil(t, hook.Fn)
		})
	}
}
