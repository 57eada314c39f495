package adapter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	m "bespec.dev/pkg/bespec/internal/model"
	"bespec.dev/pkg/bespec/pkg/expect"
)

type junitTestsuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestsuite `xml:"testsuite"`
}

type junitTestsuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit writes the report as JUnit XML for CI consumers. Each root of
// the result forest becomes a testsuite; root-level examples are grouped into
// a synthetic "examples" suite. Classnames join the group path with " > ".
func WriteJUnit(w io.Writer, report m.RunReport) error {
	suites := junitTestsuites{
		Name:     "bespec",
		Tests:    report.Summary.Total,
		Failures: report.Summary.Failed,
		Skipped:  report.Summary.Skipped,
		Time:     junitSeconds(report.Summary.Duration),
	}

	var rootExamples []junitTestcase

	for _, result := range report.Results {
		switch r := result.(type) {
		case *m.GroupResult:
			suites.Suites = append(suites.Suites, junitSuite(r))
		case *m.ExampleResult:
			rootExamples = append(rootExamples, junitCase(r, ""))
		}
	}

	if len(rootExamples) > 0 {
		suite := junitTestsuite{Name: "examples", Cases: rootExamples}
		fillSuiteTotals(&suite)
		suites.Suites = append(suites.Suites, suite)
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("encode junit: %w", err)
	}

	if _, err := w.Write(append([]byte(xml.Header), data...)); err != nil {
		return fmt.Errorf("write junit: %w", err)
	}

	return nil
}

func junitSuite(group *m.GroupResult) junitTestsuite {
	suite := junitTestsuite{Name: group.Description}
	collectCases(&suite, group.Children, "")
	fillSuiteTotals(&suite)

	return suite
}

func collectCases(suite *junitTestsuite, results []m.Result, classname string) {
	for _, result := range results {
		switch r := result.(type) {
		case *m.ExampleResult:
			suite.Cases = append(suite.Cases, junitCase(r, classname))
		case *m.GroupResult:
			child := r.Description
			if classname != "" {
				child = classname + " > " + r.Description
			}

			collectCases(suite, r.Children, child)
		}
	}
}

func junitCase(result *m.ExampleResult, classname string) junitTestcase {
	tc := junitTestcase{
		Name:      result.Description,
		Classname: classname,
		Time:      junitSeconds(result.Duration),
	}

	switch result.Outcome.Status {
	case m.StatusSkipped:
		tc.Skipped = &junitSkipped{Message: result.Outcome.Reason}
	case m.StatusFailed:
		message := ""
		body := ""

		if err := result.Outcome.Err; err != nil {
			body = err.Error()
			message = body

			var failure *expect.Failure
			if errors.As(err, &failure) {
				message = failure.Message
			}
		}

		// Keep the attribute single-line; the body carries the full detail.
		if i := strings.IndexByte(message, '\n'); i >= 0 {
			message = message[:i]
		}

		tc.Failure = &junitFailure{
			Message: message,
			Type:    "failure",
			Body:    body,
		}
	}

	return tc
}

func fillSuiteTotals(suite *junitTestsuite) {
	var elapsed time.Duration

	for _, tc := range suite.Cases {
		suite.Tests++

		if tc.Failure != nil {
			suite.Failures++
		}

		if tc.Skipped != nil {
			suite.Skipped++
		}

		if d, err := time.ParseDuration(tc.Time + "s"); err == nil {
			elapsed += d
		}
	}

	suite.Time = junitSeconds(elapsed)
}

func junitSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
