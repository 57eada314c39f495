package domain

import (
	"time"

	m "bespec.dev/pkg/bespec/internal/model"
)

// CollectOutcomes returns every example outcome in the subtree, post-order.
// Group results contribute nothing themselves; they only recurse.
func CollectOutcomes(result m.Result) []m.Outcome {
	switch r := result.(type) {
	case *m.ExampleResult:
		return []m.Outcome{r.Outcome}
	case *m.GroupResult:
		outcomes := make([]m.Outcome, 0, len(r.Children))
		for _, child := range r.Children {
			outcomes = append(outcomes, CollectOutcomes(child)...)
		}

		return outcomes
	default:
		return nil
	}
}

// CollectForestOutcomes flattens a whole result forest, post-order per root.
func CollectForestOutcomes(results []m.Result) []m.Outcome {
	outcomes := make([]m.Outcome, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, CollectOutcomes(result)...)
	}

	return outcomes
}

// CountPassed returns the number of passed examples in the forest.
func CountPassed(results []m.Result) int {
	return countStatus(results, m.StatusPassed)
}

// CountFailed returns the number of failed examples in the forest.
func CountFailed(results []m.Result) int {
	return countStatus(results, m.StatusFailed)
}

// CountSkipped returns the number of skipped examples in the forest.
func CountSkipped(results []m.Result) int {
	return countStatus(results, m.StatusSkipped)
}

// CountTotal returns the number of examples in the forest.
func CountTotal(results []m.Result) int {
	return len(CollectForestOutcomes(results))
}

func countStatus(results []m.Result, status m.Status) int {
	count := 0

	for _, outcome := range CollectForestOutcomes(results) {
		if outcome.Status == status {
			count++
		}
	}

	return count
}

// Summarize reduces a result forest to totals. wallClock is the elapsed time
// of the whole run, measured by the caller around the execution pass.
func Summarize(results []m.Result, wallClock time.Duration) m.Summary {
	summary := m.Summary{Duration: wallClock}

	for _, outcome := range CollectForestOutcomes(results) {
		summary.Total++

		switch outcome.Status {
		case m.StatusPassed:
			summary.Passed++
		case m.StatusFailed:
			summary.Failed++
		case m.StatusSkipped:
			summary.Skipped++
		}
	}

	return summary
}
