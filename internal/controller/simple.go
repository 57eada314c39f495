package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	m "bespec.dev/pkg/bespec/internal/model"
)

// Result glyphs for line output.
const (
	passGlyph = "✓"
	failGlyph = "✗"
	skipGlyph = "-"
)

// Box-drawing pieces for the report tree.
const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeSpace  = "    "
)

// SimpleUI implements UI with plain line output.
type SimpleUI struct {
	output io.Writer
}

// NewSimpleUI creates a new SimpleUI writing to output.
func NewSimpleUI(output io.Writer) *SimpleUI {
	return &SimpleUI{output: output}
}

// RunStarted prints the run header.
func (s *SimpleUI) RunStarted(ctx context.Context, info m.RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("bespec run %s\n", info.ID)

	if info.Shuffled {
		s.printf("shuffled with seed %d\n", info.Seed)
	}

	if info.Filter != "" {
		s.printf("filter: %q\n", info.Filter)
	}

	if info.Shard != "" {
		s.printf("shard %s\n", info.Shard)
	}

	s.printf("\n")
}

// ExampleStarted is a no-op for line output. Lines are printed on completion.
func (s *SimpleUI) ExampleStarted(ctx context.Context, _ []string) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// ExampleFinished prints one line per completed example.
func (s *SimpleUI) ExampleFinished(ctx context.Context, path []string, result m.ExampleResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", exampleLine(strings.Join(path, " > "), result))
}

// RunFinished prints the failure recap and the summary table.
func (s *SimpleUI) RunFinished(ctx context.Context, report m.RunReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	if failures := collectFailures(report.Results, nil); len(failures) > 0 {
		s.printf("\n%s", renderFailures(failures))
	}

	s.printf("\n%s", renderSummaryTable(report.Summary))
	s.printf("\n%s\n", verdictLine(report.Summary))
}

// DisplayReport renders a stored report as a tree with a summary.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport, options ...DisplayOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := DisplayConfig{}
	for _, option := range options {
		option(&config)
	}

	_, err := fmt.Fprint(s.output, renderReport(report, config, plainRenderer()))

	return err
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.output, format, args...)
}

// lineRenderer styles the example lines of the tree. The plain renderer leaves
// text untouched; the TUI wraps lines with lipgloss styles.
type lineRenderer struct {
	pass func(string) string
	fail func(string) string
	skip func(string) string
}

func plainRenderer() lineRenderer {
	identity := func(s string) string { return s }

	return lineRenderer{pass: identity, fail: identity, skip: identity}
}

// renderReport builds the full text view of a stored report: header, result
// tree, failure recap, and summary.
func renderReport(report m.RunReport, config DisplayConfig, renderer lineRenderer) string {
	var b strings.Builder

	b.WriteString(renderRunHeader(report.Info))
	b.WriteString("\n")

	results := report.Results
	if config.failuresOnly {
		results = pruneToFailures(results)
	}

	if len(results) == 0 {
		if config.failuresOnly {
			b.WriteString("no failures\n")
		} else {
			b.WriteString("no examples\n")
		}
	}

	for _, line := range renderResultTree(results, renderer) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if failures := collectFailures(report.Results, nil); len(failures) > 0 {
		b.WriteString("\n")
		b.WriteString(renderFailures(failures))
	}

	b.WriteString("\n")
	b.WriteString(renderSummaryTable(report.Summary))
	b.WriteString("\n")
	b.WriteString(verdictLine(report.Summary))
	b.WriteString("\n")

	return b.String()
}

func renderRunHeader(info m.RunInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s", info.ID)

	if !info.StartedAt.IsZero() {
		fmt.Fprintf(&b, "  %s", info.StartedAt.Format(time.RFC3339))
	}

	if info.Shuffled {
		fmt.Fprintf(&b, "  seed %d", info.Seed)
	}

	if info.Filter != "" {
		fmt.Fprintf(&b, "  filter %q", info.Filter)
	}

	if info.Shard != "" {
		fmt.Fprintf(&b, "  shard %s", info.Shard)
	}

	b.WriteString("\n")

	return b.String()
}

// exampleLine formats one example as a single glyph-prefixed line. Durations
// under a millisecond are left off to keep fast runs quiet.
func exampleLine(label string, result m.ExampleResult) string {
	switch result.Outcome.Status {
	case m.StatusPassed:
		return fmt.Sprintf("%s %s%s", passGlyph, label, durationSuffix(result.Duration))
	case m.StatusFailed:
		return fmt.Sprintf("%s %s%s", failGlyph, label, durationSuffix(result.Duration))
	case m.StatusSkipped:
		if result.Outcome.Reason != "" {
			return fmt.Sprintf("%s %s (%s)", skipGlyph, label, result.Outcome.Reason)
		}

		return fmt.Sprintf("%s %s", skipGlyph, label)
	}

	return label
}

func styledExampleLine(result *m.ExampleResult, renderer lineRenderer) string {
	line := exampleLine(result.Description, *result)

	switch result.Outcome.Status {
	case m.StatusPassed:
		return renderer.pass(line)
	case m.StatusFailed:
		return renderer.fail(line)
	case m.StatusSkipped:
		return renderer.skip(line)
	}

	return line
}

func durationSuffix(d time.Duration) string {
	if d < time.Millisecond {
		return ""
	}

	return fmt.Sprintf(" (%s)", d.Round(time.Millisecond))
}

// renderResultTree renders the forest with box-drawing connectors. Roots sit
// at column zero; consecutive groups are separated by a blank line.
func renderResultTree(results []m.Result, renderer lineRenderer) []string {
	var lines []string

	prevGroup := false

	for i, result := range results {
		_, isGroup := result.(*m.GroupResult)
		if i > 0 && (isGroup || prevGroup) {
			lines = append(lines, "")
		}

		switch res := result.(type) {
		case *m.ExampleResult:
			lines = append(lines, styledExampleLine(res, renderer))
		case *m.GroupResult:
			lines = append(lines, res.Description)
			lines = appendTreeLines(lines, res.Children, "", renderer)
		}

		prevGroup = isGroup
	}

	return lines
}

func appendTreeLines(lines []string, results []m.Result, prefix string, renderer lineRenderer) []string {
	for i, result := range results {
		connector, childPrefix := treeBranch, prefix+treePipe
		if i == len(results)-1 {
			connector, childPrefix = treeLast, prefix+treeSpace
		}

		switch res := result.(type) {
		case *m.ExampleResult:
			lines = append(lines, prefix+connector+styledExampleLine(res, renderer))
		case *m.GroupResult:
			lines = append(lines, prefix+connector+res.Description)
			lines = appendTreeLines(lines, res.Children, childPrefix, renderer)
		}
	}

	return lines
}

// pruneToFailures keeps failed examples and the groups that contain them.
func pruneToFailures(results []m.Result) []m.Result {
	var kept []m.Result

	for _, result := range results {
		switch res := result.(type) {
		case *m.ExampleResult:
			if res.Outcome.Status == m.StatusFailed {
				kept = append(kept, res)
			}
		case *m.GroupResult:
			children := pruneToFailures(res.Children)
			if len(children) > 0 {
				kept = append(kept, &m.GroupResult{Description: res.Description, Children: children})
			}
		}
	}

	return kept
}

type failureEntry struct {
	path string
	err  error
}

func collectFailures(results []m.Result, path []string) []failureEntry {
	var failures []failureEntry

	for _, result := range results {
		switch res := result.(type) {
		case *m.ExampleResult:
			if res.Outcome.Status != m.StatusFailed {
				continue
			}

			full := append(append([]string{}, path...), res.Description)
			failures = append(failures, failureEntry{
				path: strings.Join(full, " > "),
				err:  res.Outcome.Err,
			})
		case *m.GroupResult:
			childPath := append(append([]string{}, path...), res.Description)
			failures = append(failures, collectFailures(res.Children, childPath)...)
		}
	}

	return failures
}

func renderFailures(failures []failureEntry) string {
	var b strings.Builder

	b.WriteString("Failures:\n")

	for _, failure := range failures {
		fmt.Fprintf(&b, "\n  %s %s\n", failGlyph, failure.path)

		if failure.err != nil {
			b.WriteString(indentLines(failure.err.Error(), "      "))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func indentLines(s string, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}

	return strings.Join(lines, "\n")
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Examples"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	table.Append([]string{"Passed", fmt.Sprintf("%d", summary.Passed)})
	table.Append([]string{"Failed", fmt.Sprintf("%d", summary.Failed)})
	table.Append([]string{"Skipped", fmt.Sprintf("%d", summary.Skipped)})

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", summary.Total),
		summary.Duration.Round(time.Millisecond).String(),
	})

	table.Render()

	return tableBuffer.String()
}

func verdictLine(summary m.Summary) string {
	if summary.Failed > 0 {
		return fmt.Sprintf("FAIL  %d of %d examples failed", summary.Failed, summary.Total)
	}

	if summary.Total == 0 {
		return "PASS  no examples"
	}

	return fmt.Sprintf("PASS  %d examples in %s", summary.Total, summary.Duration.Round(time.Millisecond))
}
