package model

import "time"

// Summary aggregates the outcomes of a whole run. Duration is wall-clock time
// for the run, measured independently of per-example durations.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Successful reports whether the run had no failures. Skipped examples do not
// fail a run.
func (s Summary) Successful() bool {
	return s.Failed == 0
}

// AllPassed reports whether every example ran and passed.
func (s Summary) AllPassed() bool {
	return s.Failed == 0 && s.Skipped == 0
}

// RunInfo carries the metadata of one run.
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Seed      int64
	Shuffled  bool
	Filter    string
	Shard     string // INDEX/TOTAL when the run covered one shard, empty otherwise
	Version   string
}

// RunReport is one persisted run: its metadata, totals, and full result forest.
type RunReport struct {
	Info    RunInfo
	Summary Summary
	Results []Result
}
