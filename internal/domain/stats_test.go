package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "bespec.dev/pkg/bespec/internal/model"
)

// statsFixture builds a synthetic result forest with known counts at several
// nesting depths: 3 passed, 2 failed, 1 skipped.
func statsFixture() []m.Result {
	return []m.Result{
		&m.GroupResult{Description: "top", Children: []m.Result{
			&m.ExampleResult{Description: "p1", Outcome: m.Passed()},
			&m.GroupResult{Description: "mid", Children: []m.Result{
				&m.ExampleResult{Description: "f1", Outcome: m.Failed(errors.New("nope"))},
				&m.GroupResult{Description: "deep", Children: []m.Result{
					&m.ExampleResult{Description: "s1", Outcome: m.Skipped("pending")},
					&m.ExampleResult{Description: "p2", Outcome: m.Passed()},
				}},
			}},
		}},
		&m.ExampleResult{Description: "p3", Outcome: m.Passed()},
		&m.ExampleResult{Description: "f2", Outcome: m.Failed(errors.New("still no"))},
	}
}

func TestCountHelpers_MatchKnownCounts(t *testing.T) {
	results := statsFixture()

	require.Equal(t, 3, CountPassed(results))
	require.Equal(t, 2, CountFailed(results))
	require.Equal(t, 1, CountSkipped(results))
	require.Equal(t, 6, CountTotal(results))
}

func TestCollectOutcomes_PostOrderLeftToRight(t *testing.T) {
	outcomes := CollectForestOutcomes(statsFixture())

	statuses := make([]m.Status, 0, len(outcomes))
	for _, outcome := range outcomes {
		statuses = append(statuses, outcome.Status)
	}

	require.Equal(t, []m.Status{
		m.StatusPassed,
		m.StatusFailed,
		m.StatusSkipped,
		m.StatusPassed,
		m.StatusPassed,
		m.StatusFailed,
	}, statuses)
}

func TestSummarize_TotalsAndWallClock(t *testing.T) {
	summary := Summarize(statsFixture(), 1500*time.Millisecond)

	require.Equal(t, m.Summary{
		Total:    6,
		Passed:   3,
		Failed:   2,
		Skipped:  1,
		Duration: 1500 * time.Millisecond,
	}, summary)

	require.False(t, summary.Successful())
	require.False(t, summary.AllPassed())
}

func TestSummarize_EmptyForestIsZeroValued(t *testing.T) {
	summary := Summarize(nil, 0)

	require.Equal(t, m.Summary{}, summary)
	require.True(t, summary.Successful())
	require.True(t, summary.AllPassed())
}

func TestSummary_SkippedDoesNotFailTheRun(t *testing.T) {
	results := []m.Result{
		&m.ExampleResult{Description: "p", Outcome: m.Passed()},
		&m.ExampleResult{Description: "s", Outcome: m.Skipped("later")},
	}

	summary := Summarize(results, 0)

	require.True(t, summary.Successful())
	require.False(t, summary.AllPassed())
}
