package adapter

import (
	"errors"
	"testing"
	"time"

	m "bespec.dev/pkg/bespec/internal/model"
	"bespec.dev/pkg/bespec/pkg/expect"
)

func sampleReport(id string, startedAt time.Time) m.RunReport {
	return m.RunReport{
		Info: m.RunInfo{
			ID:        id,
			StartedAt: startedAt,
			Seed:      42,
			Shuffled:  true,
			Filter:    "redirects",
			Version:   "v0.1.0",
		},
		Summary: m.Summary{
			Total:    3,
			Passed:   1,
			Failed:   1,
			Skipped:  1,
			Duration: 1500 * time.Millisecond,
		},
		Results: []m.Result{
			&m.GroupResult{Description: "http client", Children: []m.Result{
				&m.ExampleResult{
					Description: "follows redirects",
					Outcome:     m.Passed(),
					Duration:    12 * time.Millisecond,
				},
				&m.ExampleResult{
					Description: "times out",
					Outcome: m.Failed(&expect.Failure{
						Message:  "expected values to be equal",
						Expected: "200",
						Actual:   "504",
					}),
					Duration: 30 * time.Millisecond,
				},
				&m.ExampleResult{
					Description: "retries",
					Outcome:     m.Skipped("marked pending"),
				},
			}},
		},
	}
}

func TestFileReportStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := NewReportStore()
	dir := t.TempDir()
	startedAt := time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC)

	runDir, err := store.Save(dir, sampleReport("run-1", startedAt))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(runDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Info.ID != "run-1" {
		t.Errorf("ID = %q, want %q", loaded.Info.ID, "run-1")
	}
	if !loaded.Info.StartedAt.Equal(startedAt) {
		t.Errorf("StartedAt = %v, want %v", loaded.Info.StartedAt, startedAt)
	}
	if loaded.Info.Seed != 42 || !loaded.Info.Shuffled || loaded.Info.Filter != "redirects" {
		t.Errorf("run info not preserved: %+v", loaded.Info)
	}
	if loaded.Summary != (m.Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1, Duration: 1500 * time.Millisecond}) {
		t.Errorf("summary not preserved: %+v", loaded.Summary)
	}

	group, ok := loaded.Results[0].(*m.GroupResult)
	if !ok {
		t.Fatalf("expected a group result, got %T", loaded.Results[0])
	}
	if group.Description != "http client" || len(group.Children) != 3 {
		t.Fatalf("group not preserved: %q with %d children", group.Description, len(group.Children))
	}

	failed := group.Children[1].(*m.ExampleResult)
	if failed.Outcome.Status != m.StatusFailed {
		t.Errorf("status = %v, want failed", failed.Outcome.Status)
	}

	var failure *expect.Failure
	if !errors.As(failed.Outcome.Err, &failure) {
		t.Fatalf("expected a *expect.Failure cause, got %T", failed.Outcome.Err)
	}
	if failure.Expected != "200" || failure.Actual != "504" {
		t.Errorf("failure payload not preserved: %+v", failure)
	}

	skipped := group.Children[2].(*m.ExampleResult)
	if skipped.Outcome.Status != m.StatusSkipped || skipped.Outcome.Reason != "marked pending" {
		t.Errorf("skip not preserved: %+v", skipped.Outcome)
	}
}

func TestFileReportStore_SaveRejectsMissingRunID(t *testing.T) {
	store := NewReportStore()

	_, err := store.Save(t.TempDir(), m.RunReport{})
	if err == nil {
		t.Fatal("Save() expected an error for a report without an id")
	}
}

func TestFileReportStore_RunsSortedByStart(t *testing.T) {
	store := NewReportStore()
	dir := t.TempDir()
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	// Saved out of order on purpose.
	for _, run := range []struct {
		id    string
		start time.Time
	}{
		{"run-b", base.Add(2 * time.Hour)},
		{"run-a", base},
		{"run-c", base.Add(4 * time.Hour)},
	} {
		if _, err := store.Save(dir, sampleReport(run.id, run.start)); err != nil {
			t.Fatalf("Save(%s) error = %v", run.id, err)
		}
	}

	runs, err := store.Runs(dir)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}

	if len(runs) != 3 {
		t.Fatalf("Runs() returned %d runs, want 3", len(runs))
	}

	order := []string{runs[0].Info.ID, runs[1].Info.ID, runs[2].Info.ID}
	want := []string{"run-a", "run-b", "run-c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Runs() order = %v, want %v", order, want)
		}
	}

	if runs[0].Results != nil {
		t.Error("Runs() should not load result forests")
	}
}

func TestFileReportStore_LatestRunLoadsResults(t *testing.T) {
	store := NewReportStore()
	dir := t.TempDir()
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		if _, err := store.Save(dir, sampleReport(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	latest, err := store.LatestRun(dir)
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}

	if latest.Info.ID != "new" {
		t.Errorf("LatestRun() = %q, want %q", latest.Info.ID, "new")
	}
	if len(latest.Results) == 0 {
		t.Error("LatestRun() should load the result forest")
	}
}

func TestFileReportStore_LatestRunEmptyDir(t *testing.T) {
	store := NewReportStore()

	_, err := store.LatestRun(t.TempDir())
	if !errors.Is(err, ErrNoRuns) {
		t.Fatalf("LatestRun() error = %v, want ErrNoRuns", err)
	}
}

func TestFileReportStore_LoadRunMissing(t *testing.T) {
	store := NewReportStore()

	_, err := store.LoadRun(t.TempDir(), "nope")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("LoadRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestFileReportStore_RunsMissingDirIsEmpty(t *testing.T) {
	store := NewReportStore()

	runs, err := store.Runs("/definitely/not/a/reports/dir")
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("Runs() = %d entries, want none", len(runs))
	}
}

func TestMergeReports_SumsTotalsAndConcatenatesForests(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	first := sampleReport("shard-0", base.Add(time.Hour))
	second := sampleReport("shard-1", base)

	merged := MergeReports("merged", []m.RunReport{first, second})

	if merged.Info.ID != "merged" {
		t.Errorf("ID = %q, want %q", merged.Info.ID, "merged")
	}
	if !merged.Info.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want the earliest shard start %v", merged.Info.StartedAt, base)
	}
	if merged.Summary.Total != 6 || merged.Summary.Passed != 2 || merged.Summary.Failed != 2 || merged.Summary.Skipped != 2 {
		t.Errorf("summary not summed: %+v", merged.Summary)
	}
	if merged.Summary.Duration != 3*time.Second {
		t.Errorf("duration = %v, want 3s", merged.Summary.Duration)
	}
	if len(merged.Results) != 2 {
		t.Errorf("results = %d roots, want 2", len(merged.Results))
	}
}
