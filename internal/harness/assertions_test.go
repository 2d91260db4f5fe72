package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := NewResult()
	r.AddTrace(TraceEvent{Seq: 1, Action: StepActivate, Element: "hero-title", Outcome: OutcomeOK, Session: "hero-title"})
	r.AddTrace(TraceEvent{Seq: 2, Action: StepActivate, Element: "hero-title", Outcome: OutcomeIgnored})
	r.AddTrace(TraceEvent{Seq: 3, Action: StepKey, Element: "hero-title", Outcome: OutcomeOK})
	r.Stored.Content["hero-title"] = "Jane Doe"
	r.Notifications = []string{"Text Updated"}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertStored, Namespace: NamespaceContent, ID: "hero-title", Equals: "Jane Doe"},
		{Type: AssertNotStored, Namespace: NamespaceImages, ID: "hero-title"},
		{Type: AssertNotifications, Titles: []string{"Text Updated"}},
		{Type: AssertTraceCount, Action: StepActivate, Count: 2},
		{Type: AssertTraceCount, Action: StepActivate, Outcome: OutcomeIgnored, Count: 1},
	}, nil)
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertStored, Namespace: NamespaceContent, ID: "hero-title", Equals: "Other"},
		{Type: AssertStored, Namespace: NamespaceContent, ID: "missing", Equals: "x"},
		{Type: AssertNotifications},
		{Type: AssertTraceCount, Action: StepKey, Count: 3},
		{Type: AssertRevisions, Namespace: NamespaceContent, Count: 1},
		{Type: AssertElementText, Element: "hero-title", Equals: "x"},
		{Type: "bogus"},
	}, nil)
	require.Len(t, errs, 7)
	assert.Contains(t, errs[0], `Actual: "Jane Doe"`)
	assert.Contains(t, errs[1], "not stored")
	assert.Contains(t, errs[2], "[Text Updated]")
	assert.Contains(t, errs[3], "1 occurrences")
	assert.Contains(t, errs[4], "requires database context")
	assert.Contains(t, errs[5], "requires a page")
	assert.Contains(t, errs[6], `unknown assertion type "bogus"`)
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 occurrences of key",
		Actual:   "1 occurrences",
		Trace:    sampleResult().Trace,
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "[3] key hero-title -> ok")
}
