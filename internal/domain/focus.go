package domain

import (
	m "bespec.dev/pkg/bespec/internal/model"
)

// FilterFocused implements focus mode. When any node anywhere in the forest is
// focus-marked, only focused material survives: focused examples run, focused
// groups run in full (their whole subtree, focused or not), and everything
// else is pruned. Without a focus mark the forest is returned unchanged.
//
// The decision is global, computed once over the whole forest: a focus in one
// root suppresses unmarked branches in every other root.
func FilterFocused(forest []m.Node) []m.Node {
	if !anyFocused(forest) {
		return forest
	}

	return keepFocused(forest)
}

func anyFocused(nodes []m.Node) bool {
	for _, node := range nodes {
		switch n := node.(type) {
		case *m.Example:
			if n.Focused {
				return true
			}
		case *m.Group:
			if n.Focused || anyFocused(n.Children) {
				return true
			}
		}
	}

	return false
}

// keepFocused transforms one sibling level: focused examples are kept with
// their marker stripped, focused groups are kept whole with their subtree
// unfocused, unfocused groups survive only if a descendant does, and unfocused
// examples are dropped. Empty groups are pruned.
func keepFocused(nodes []m.Node) []m.Node {
	kept := make([]m.Node, 0, len(nodes))

	for _, node := range nodes {
		switch n := node.(type) {
		case *m.Example:
			if n.Focused {
				kept = append(kept, &m.Example{Description: n.Description, Run: n.Run})
			}
		case *m.Group:
			if n.Focused {
				kept = append(kept, &m.Group{
					Description: n.Description,
					Hooks:       n.Hooks,
					Children:    unfocus(n.Children),
				})

				continue
			}

			children := keepFocused(n.Children)
			if len(children) > 0 {
				kept = append(kept, &m.Group{
					Description: n.Description,
					Hooks:       n.Hooks,
					Children:    children,
				})
			}
		}
	}

	return kept
}

// unfocus strips focus markers from a subtree that a focused ancestor keeps
// unconditionally.
func unfocus(nodes []m.Node) []m.Node {
	out := make([]m.Node, 0, len(nodes))

	for _, node := range nodes {
		switch n := node.(type) {
		case *m.Example:
			if !n.Focused {
				out = append(out, n)
				continue
			}

			out = append(out, &m.Example{Description: n.Description, Run: n.Run})
		case *m.Group:
			out = append(out, &m.Group{
				Description: n.Description,
				Hooks:       n.Hooks,
				Children:    unfocus(n.Children),
			})
		default:
			out = append(out, node)
		}
	}

	return out
}
