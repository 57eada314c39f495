// Package bespec declares and runs behavior specifications. A specification
// is an immutable tree of groups and examples built with the DSL in this
// package. The runner executes the tree strictly sequentially with
// deterministic hook ordering, optional focus and description filtering,
// seeded shuffling, and structured reports that the bes CLI can list, view,
// and merge.
package bespec

import (
	"bespec.dev/pkg/bespec/internal/domain"
	m "bespec.dev/pkg/bespec/internal/model"
)

// The DSL and the run API speak the model types; their implementations live
// in internal packages.
type (
	// Node is one node of a specification tree: a group or an example.
	Node = m.Node
	// Outcome is the three-way result of running one example.
	Outcome = m.Outcome
	// Status labels an outcome as passed, failed, or skipped.
	Status = m.Status
	// Result is one node of a result tree, mirroring the specification tree.
	Result = m.Result
	// ExampleResult is the recorded outcome of a single example.
	ExampleResult = m.ExampleResult
	// GroupResult holds the results of a group's children.
	GroupResult = m.GroupResult
	// Summary aggregates the outcomes of a run.
	Summary = m.Summary
	// RunInfo is the metadata of a run: id, seed, filter, shard.
	RunInfo = m.RunInfo
	// RunReport is a complete run: metadata, summary, result forest.
	RunReport = m.RunReport
	// Registry collects top-level nodes until a run consumes them.
	Registry = domain.Registry
)

// Outcome statuses.
const (
	StatusPassed  = m.StatusPassed
	StatusFailed  = m.StatusFailed
	StatusSkipped = m.StatusSkipped
)

// NewRegistry creates an empty registry for callers that need a specification
// set isolated from the default one.
func NewRegistry() *Registry {
	return domain.NewRegistry()
}
