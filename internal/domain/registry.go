package domain

import (
	"sync"

	m "bespec.dev/pkg/bespec/internal/model"
)

// Registry collects the root nodes of declared suites for discovery. It is
// safe for concurrent registration; suites register from package init across
// many files when run under go test.
type Registry struct {
	mu    sync.RWMutex
	roots []m.Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers root nodes in declaration order.
func (r *Registry) Add(nodes ...m.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots = append(r.roots, nodes...)
}

// Nodes returns the registered forest. The returned slice is a copy; the
// registered nodes themselves are immutable.
func (r *Registry) Nodes() []m.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]m.Node, len(r.roots))
	copy(nodes, r.roots)

	return nodes
}

// Len returns the number of registered roots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.roots)
}

// Reset drops all registrations.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots = nil
}
