package model

import "time"

// Result is one node of the result tree produced by an execution pass. Result
// forests mirror the shape of the specification forest they were run from,
// minus focus and hook distinctions, and are immutable once returned.
type Result interface {
	result()
}

// ExampleResult records the outcome and duration of one executed example.
// Duration spans the example's full lifecycle: its beforeEach chain, the body,
// and its afterEach chain.
type ExampleResult struct {
	Description string
	Outcome     Outcome
	Duration    time.Duration
}

// GroupResult mirrors a group, holding its children's results in execution
// order. Failures of the group's own beforeAll and afterAll hooks appear as
// extra example results at the front and back of Children.
type GroupResult struct {
	Description string
	Children    []Result
}

func (*ExampleResult) result() {}
func (*GroupResult) result()   {}
