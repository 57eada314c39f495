package domain

import (
	"strings"

	m "bespec.dev/pkg/bespec/internal/model"
)

// FilterByDescription keeps examples whose description contains pattern. A
// group whose own description matches keeps its entire subtree; otherwise the
// group survives only if at least one descendant does. An empty pattern keeps
// the forest unchanged.
func FilterByDescription(pattern string, forest []m.Node) []m.Node {
	if pattern == "" {
		return forest
	}

	kept := make([]m.Node, 0, len(forest))

	for _, node := range forest {
		switch n := node.(type) {
		case *m.Example:
			if strings.Contains(n.Description, pattern) {
				kept = append(kept, n)
			}
		case *m.Group:
			if strings.Contains(n.Description, pattern) {
				kept = append(kept, n)
				continue
			}

			children := FilterByDescription(pattern, n.Children)
			if len(children) > 0 {
				kept = append(kept, &m.Group{
					Description: n.Description,
					Hooks:       n.Hooks,
					Children:    children,
					Focused:     n.Focused,
				})
			}
		}
	}

	return kept
}

// ShardForest deterministically keeps the root nodes assigned to one shard:
// root i survives iff i%total == index. Children always travel with their
// root, so shards of the same forest are disjoint and cover it. Invalid shard
// parameters keep everything.
func ShardForest(index, total int, forest []m.Node) []m.Node {
	if total <= 1 || index < 0 || index >= total {
		return forest
	}

	kept := make([]m.Node, 0, (len(forest)+total-1)/total)

	for i, node := range forest {
		if i%total == index {
			kept = append(kept, node)
		}
	}

	return kept
}
