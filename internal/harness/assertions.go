package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/atelier/internal/page"
	"github.com/roach88/atelier/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", ev.Seq, ev.Action, ev.Element, ev.Outcome)
		}
	}
	return buf.String()
}

// AssertionContext provides what final-state assertions inspect.
type AssertionContext struct {
	Ctx   context.Context
	Store *store.Store
	Page  *page.Page
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertElementText:
			err = assertElement(actx, a, result.Trace, func(el *page.Element) string { return el.Text() })
		case AssertElementURL:
			err = assertElement(actx, a, result.Trace, func(el *page.Element) string { return el.URL() })
		case AssertStored:
			err = assertStored(result, a)
		case AssertNotStored:
			err = assertNotStored(result, a)
		case AssertNotifications:
			err = assertNotifications(result, a)
		case AssertRevisions:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: revisions requires database context", i)
			} else {
				err = assertRevisions(actx, a)
			}
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertElement(actx *AssertionContext, a Assertion, trace []TraceEvent, get func(*page.Element) string) error {
	if actx == nil || actx.Page == nil {
		return fmt.Errorf("%s requires a page", a.Type)
	}
	el, ok := actx.Page.Element(a.Element)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("element %s", a.Element),
			Actual:   "no such element",
		}
	}
	if got := get(el); got != a.Equals {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s shows %q", a.Element, a.Equals),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

func storedNamespace(result *Result, ns string) map[string]string {
	if ns == NamespaceImages {
		return result.Stored.Images
	}
	return result.Stored.Content
}

func assertStored(result *Result, a Assertion) error {
	got, ok := storedNamespace(result, a.Namespace)[a.ID]
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s[%s] = %q", a.Namespace, a.ID, a.Equals),
			Actual:   "not stored",
			Trace:    result.Trace,
		}
	}
	if got != a.Equals {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s[%s] = %q", a.Namespace, a.ID, a.Equals),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertNotStored(result *Result, a Assertion) error {
	if got, ok := storedNamespace(result, a.Namespace)[a.ID]; ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s[%s] absent", a.Namespace, a.ID),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertNotifications(result *Result, a Assertion) error {
	want := a.Titles
	if want == nil {
		want = []string{}
	}
	got := result.Notifications
	if got == nil {
		got = []string{}
	}
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRevisions counts backend writes to a namespace, seeding included.
func assertRevisions(actx *AssertionContext, a Assertion) error {
	revs, err := actx.Store.History(actx.Ctx, string(namespaceKey(a.Namespace)), 0)
	if err != nil {
		return fmt.Errorf("revisions: %w", err)
	}
	if len(revs) != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d writes to %s", a.Count, a.Namespace),
			Actual:   fmt.Sprintf("%d writes", len(revs)),
		}
	}
	return nil
}

// assertTraceCount counts steps with the given action, and outcome when set.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Action != a.Action {
			continue
		}
		if a.Outcome != "" && ev.Outcome != a.Outcome {
			continue
		}
		count++
	}

	if count != a.Count {
		what := a.Action
		if a.Outcome != "" {
			what += " -> " + a.Outcome
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, what),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}
