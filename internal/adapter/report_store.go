// Package adapter persists run reports and renders machine-readable formats.
package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	m "bespec.dev/pkg/bespec/internal/model"
	"bespec.dev/pkg/bespec/pkg/expect"
)

const (
	resultsFileName = "results.json"
	summaryFileName = "summary.yaml"

	runDirPerm  = 0o755
	runFilePerm = 0o644
)

var (
	// ErrNoRuns is returned when a reports directory holds no runs.
	ErrNoRuns = errors.New("no runs found")
	// ErrRunNotFound is returned when a named run does not exist.
	ErrRunNotFound = errors.New("run not found")
)

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	Save(reportsDir string, report m.RunReport) (string, error)
	Load(runDir string) (m.RunReport, error)
	LoadRun(reportsDir, runID string) (m.RunReport, error)
	Runs(reportsDir string) ([]m.RunReport, error)
	LatestRun(reportsDir string) (m.RunReport, error)
}

// FileReportStore stores each run in its own directory under the reports
// root: results.json holds the result forest, summary.yaml the run metadata
// and totals.
type FileReportStore struct{}

// NewReportStore creates a FileReportStore.
func NewReportStore() *FileReportStore {
	return &FileReportStore{}
}

// Save writes the report under reportsDir and returns the run directory.
func (s *FileReportStore) Save(reportsDir string, report m.RunReport) (string, error) {
	if report.Info.ID == "" {
		return "", errors.New("report has no run id")
	}

	runDir := filepath.Join(reportsDir, report.Info.ID)
	if err := os.MkdirAll(runDir, runDirPerm); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}

	results, err := json.MarshalIndent(encodeResults(report.Results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}

	if err := os.WriteFile(filepath.Join(runDir, resultsFileName), results, runFilePerm); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}

	meta, err := yaml.Marshal(encodeRunMeta(report))
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	if err := os.WriteFile(filepath.Join(runDir, summaryFileName), meta, runFilePerm); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	return runDir, nil
}

// Load reads one run directory back into a report.
func (s *FileReportStore) Load(runDir string) (m.RunReport, error) {
	meta, err := os.ReadFile(filepath.Join(runDir, summaryFileName))
	if err != nil {
		return m.RunReport{}, fmt.Errorf("read summary: %w", err)
	}

	var metaDTO runMetaDTO
	if err := yaml.Unmarshal(meta, &metaDTO); err != nil {
		return m.RunReport{}, fmt.Errorf("decode summary: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(runDir, resultsFileName))
	if err != nil {
		return m.RunReport{}, fmt.Errorf("read results: %w", err)
	}

	var results []resultDTO
	if err := json.Unmarshal(data, &results); err != nil {
		return m.RunReport{}, fmt.Errorf("decode results: %w", err)
	}

	report, err := decodeRunMeta(metaDTO)
	if err != nil {
		return m.RunReport{}, err
	}

	report.Results = decodeResults(results)

	return report, nil
}

// LoadRun reads the named run from reportsDir.
func (s *FileReportStore) LoadRun(reportsDir, runID string) (m.RunReport, error) {
	runDir := filepath.Join(reportsDir, runID)

	info, err := os.Stat(runDir)
	if err != nil || !info.IsDir() {
		return m.RunReport{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return s.Load(runDir)
}

// Runs lists every run in reportsDir, oldest first. Results are not loaded;
// each entry carries metadata and totals only.
func (s *FileReportStore) Runs(reportsDir string) ([]m.RunReport, error) {
	entries, err := os.ReadDir(reportsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	runs := make([]m.RunReport, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := os.ReadFile(filepath.Join(reportsDir, entry.Name(), summaryFileName))
		if err != nil {
			// Not a run directory; skip it.
			continue
		}

		var metaDTO runMetaDTO
		if err := yaml.Unmarshal(meta, &metaDTO); err != nil {
			continue
		}

		report, err := decodeRunMeta(metaDTO)
		if err != nil {
			continue
		}

		runs = append(runs, report)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Info.StartedAt.Before(runs[j].Info.StartedAt)
	})

	return runs, nil
}

// LatestRun loads the most recently started run in reportsDir.
func (s *FileReportStore) LatestRun(reportsDir string) (m.RunReport, error) {
	runs, err := s.Runs(reportsDir)
	if err != nil {
		return m.RunReport{}, err
	}

	if len(runs) == 0 {
		return m.RunReport{}, ErrNoRuns
	}

	return s.LoadRun(reportsDir, runs[len(runs)-1].Info.ID)
}

// MergeReports combines shard runs into one report under a fresh ID: forests
// concatenate in input order, totals add, and the merged run keeps the
// earliest start time.
func MergeReports(id string, reports []m.RunReport) m.RunReport {
	merged := m.RunReport{Info: m.RunInfo{ID: id}}

	for i, report := range reports {
		if i == 0 || report.Info.StartedAt.Before(merged.Info.StartedAt) {
			merged.Info.StartedAt = report.Info.StartedAt
		}

		if merged.Info.Version == "" {
			merged.Info.Version = report.Info.Version
		}

		merged.Results = append(merged.Results, report.Results...)
		merged.Summary.Total += report.Summary.Total
		merged.Summary.Passed += report.Summary.Passed
		merged.Summary.Failed += report.Summary.Failed
		merged.Summary.Skipped += report.Summary.Skipped
		merged.Summary.Duration += report.Summary.Duration
	}

	return merged
}

const (
	kindExample = "example"
	kindGroup   = "group"
)

// resultDTO mirrors model.Result for serialization; interface forests cannot
// be marshaled directly.
type resultDTO struct {
	Kind        string      `json:"kind"`
	Description string      `json:"description"`
	Status      string      `json:"status,omitempty"`
	Failure     string      `json:"failure,omitempty"`
	Expected    string      `json:"expected,omitempty"`
	Actual      string      `json:"actual,omitempty"`
	Diff        string      `json:"diff,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	DurationMS  float64     `json:"duration_ms,omitempty"`
	Children    []resultDTO `json:"children,omitempty"`
}

type runMetaDTO struct {
	Run struct {
		ID        string    `yaml:"id"`
		StartedAt time.Time `yaml:"started_at"`
		Seed      int64     `yaml:"seed"`
		Shuffled  bool      `yaml:"shuffled"`
		Filter    string    `yaml:"filter,omitempty"`
		Shard     string    `yaml:"shard,omitempty"`
		Version   string    `yaml:"version,omitempty"`
	} `yaml:"run"`
	Summary struct {
		Total    int    `yaml:"total"`
		Passed   int    `yaml:"passed"`
		Failed   int    `yaml:"failed"`
		Skipped  int    `yaml:"skipped"`
		Duration string `yaml:"duration"`
	} `yaml:"summary"`
}

func encodeRunMeta(report m.RunReport) runMetaDTO {
	var dto runMetaDTO

	dto.Run.ID = report.Info.ID
	dto.Run.StartedAt = report.Info.StartedAt
	dto.Run.Seed = report.Info.Seed
	dto.Run.Shuffled = report.Info.Shuffled
	dto.Run.Filter = report.Info.Filter
	dto.Run.Shard = report.Info.Shard
	dto.Run.Version = report.Info.Version

	dto.Summary.Total = report.Summary.Total
	dto.Summary.Passed = report.Summary.Passed
	dto.Summary.Failed = report.Summary.Failed
	dto.Summary.Skipped = report.Summary.Skipped
	dto.Summary.Duration = report.Summary.Duration.String()

	return dto
}

func decodeRunMeta(dto runMetaDTO) (m.RunReport, error) {
	var duration time.Duration

	if dto.Summary.Duration != "" {
		parsed, err := time.ParseDuration(dto.Summary.Duration)
		if err != nil {
			return m.RunReport{}, fmt.Errorf("parse duration: %w", err)
		}

		duration = parsed
	}

	return m.RunReport{
		Info: m.RunInfo{
			ID:        dto.Run.ID,
			StartedAt: dto.Run.StartedAt,
			Seed:      dto.Run.Seed,
			Shuffled:  dto.Run.Shuffled,
			Filter:    dto.Run.Filter,
			Shard:     dto.Run.Shard,
			Version:   dto.Run.Version,
		},
		Summary: m.Summary{
			Total:    dto.Summary.Total,
			Passed:   dto.Summary.Passed,
			Failed:   dto.Summary.Failed,
			Skipped:  dto.Summary.Skipped,
			Duration: duration,
		},
	}, nil
}

func encodeResults(results []m.Result) []resultDTO {
	dtos := make([]resultDTO, 0, len(results))
	for _, result := range results {
		dtos = append(dtos, encodeResult(result))
	}

	return dtos
}

func encodeResult(result m.Result) resultDTO {
	switch r := result.(type) {
	case *m.ExampleResult:
		dto := resultDTO{
			Kind:        kindExample,
			Description: r.Description,
			Status:      string(r.Outcome.Status),
			Reason:      r.Outcome.Reason,
			DurationMS:  float64(r.Duration) / float64(time.Millisecond),
		}

		if r.Outcome.Err != nil {
			dto.Failure = r.Outcome.Err.Error()

			var failure *expect.Failure
			if errors.As(r.Outcome.Err, &failure) {
				dto.Failure = failure.Message
				dto.Expected = failure.Expected
				dto.Actual = failure.Actual
				dto.Diff = failure.Diff
			}
		}

		return dto
	case *m.GroupResult:
		return resultDTO{
			Kind:        kindGroup,
			Description: r.Description,
			Children:    encodeResults(r.Children),
		}
	default:
		return resultDTO{}
	}
}

func decodeResults(dtos []resultDTO) []m.Result {
	results := make([]m.Result, 0, len(dtos))
	for _, dto := range dtos {
		results = append(results, decodeResult(dto))
	}

	return results
}

func decodeResult(dto resultDTO) m.Result {
	if dto.Kind == kindGroup {
		return &m.GroupResult{
			Description: dto.Description,
			Children:    decodeResults(dto.Children),
		}
	}

	result := &m.ExampleResult{
		Description: dto.Description,
		Duration:    time.Duration(dto.DurationMS * float64(time.Millisecond)),
	}

	switch m.Status(dto.Status) {
	case m.StatusFailed:
		result.Outcome = m.Failed(&expect.Failure{
			Message:  dto.Failure,
			Expected: dto.Expected,
			Actual:   dto.Actual,
			Diff:     dto.Diff,
		})
	case m.StatusSkipped:
		result.Outcome = m.Skipped(dto.Reason)
	default:
		result.Outcome = m.Passed()
	}

	return result
}
