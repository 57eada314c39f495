package domain

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_AddPreservesOrder(t *testing.T) {
	registry := NewRegistry()

	registry.Add(NewExample("first", func() {}, false))
	registry.Add(
		NewExample("second", func() {}, false),
		NewExample("third", func() {}, false),
	)

	require.Equal(t, 3, registry.Len())
	require.Equal(t, []string{"first", "second", "third"}, leafDescriptions(registry.Nodes()))
}

func TestRegistry_NodesReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewExample("kept", func() {}, false))

	nodes := registry.Nodes()
	nodes[0] = NewExample("clobbered", func() {}, false)

	require.Equal(t, []string{"kept"}, leafDescriptions(registry.Nodes()))
}

func TestRegistry_Reset(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewExample("gone", func() {}, false))

	registry.Reset()

	require.Equal(t, 0, registry.Len())
	require.Empty(t, registry.Nodes())
}

func TestRegistry_ConcurrentAdd(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)

		go func(g int) {
			defer wg.Done()

			for i := 0; i < 10; i++ {
				registry.Add(NewExample(fmt.Sprintf("example %d-%d", g, i), func() {}, false))
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 100, registry.Len())
}
