// Package expect provides assertion helpers for specification bodies. A
// failing check panics with a *Failure; the runner converts that panic into
// the example's failed outcome, so helpers never need a testing handle.
package expect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Failure is the typed failure value raised by the helpers in this package.
// Message is human-readable on its own; Expected, Actual, and Diff carry
// structured payloads for richer rendering.
type Failure struct {
	Message  string
	Expected string
	Actual   string
	Diff     string
}

// Error implements error so an outcome can carry a Failure as its cause.
func (f *Failure) Error() string {
	var b strings.Builder

	b.WriteString(f.Message)

	if f.Expected != "" || f.Actual != "" {
		fmt.Fprintf(&b, "\nexpected: %s\n  actual: %s", f.Expected, f.Actual)
	}

	return b.String()
}

// Fail raises a failure with the given message.
func Fail(message string) {
	panic(&Failure{Message: message})
}

// Failf raises a failure with a formatted message.
func Failf(format string, args ...any) {
	panic(&Failure{Message: fmt.Sprintf(format, args...)})
}

// Equal fails unless got == want. Multiline string mismatches carry a unified
// diff.
func Equal[T comparable](got, want T) {
	if got == want {
		return
	}

	failCompare("expected values to be equal", got, want)
}

// NotEqual fails when got == want.
func NotEqual[T comparable](got, want T) {
	if got != want {
		return
	}

	Failf("expected values to differ, both were %v", got)
}

// DeepEqual fails unless got and want are deeply equal.
func DeepEqual(got, want any) {
	if reflect.DeepEqual(got, want) {
		return
	}

	failCompare("expected values to be deeply equal", got, want)
}

// True fails unless condition holds.
func True(condition bool) {
	if !condition {
		Fail("expected condition to be true")
	}
}

// False fails when condition holds.
func False(condition bool) {
	if condition {
		Fail("expected condition to be false")
	}
}

// Nil fails unless value is nil.
func Nil(value any) {
	if isNil(value) {
		return
	}

	panic(&Failure{
		Message: fmt.Sprintf("expected nil, got %v", value),
		Actual:  render(value),
	})
}

// NotNil fails when value is nil.
func NotNil(value any) {
	if isNil(value) {
		Fail("expected value to be non-nil")
	}
}

// NoError fails when err is non-nil.
func NoError(err error) {
	if err == nil {
		return
	}

	panic(&Failure{
		Message: fmt.Sprintf("unexpected error: %v", err),
		Actual:  err.Error(),
	})
}

// Error fails when err is nil.
func Error(err error) {
	if err == nil {
		Fail("expected an error, got nil")
	}
}

// Contains fails unless s contains substr.
func Contains(s, substr string) {
	if strings.Contains(s, substr) {
		return
	}

	panic(&Failure{
		Message:  fmt.Sprintf("expected %q to contain %q", s, substr),
		Expected: substr,
		Actual:   s,
	})
}

// Len fails unless the value's length equals want. Supported kinds follow
// reflect.Value.Len.
func Len(value any, want int) {
	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
	default:
		Failf("cannot take the length of %T", value)
	}

	if v.Len() == want {
		return
	}

	panic(&Failure{
		Message:  fmt.Sprintf("expected length %d, got %d", want, v.Len()),
		Expected: fmt.Sprint(want),
		Actual:   fmt.Sprint(v.Len()),
	})
}

func failCompare(message string, got, want any) {
	failure := &Failure{
		Message:  message,
		Expected: render(want),
		Actual:   render(got),
	}
	failure.Diff = diff(failure.Expected, failure.Actual)

	panic(failure)
}

// diff returns a unified diff when either side spans multiple lines; scalar
// mismatches read better without one.
func diff(expected, actual string) string {
	if !strings.Contains(expected, "\n") && !strings.Contains(actual, "\n") {
		return ""
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return ""
	}

	return text
}

// render keeps strings raw so diffs line up; everything else goes through %+v.
func render(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%+v", value)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
