package harness

// Step outcomes recorded in the trace besides error codes.
const (
	OutcomeOK      = "ok"
	OutcomeIgnored = "ignored"

	OutcomePersistFailed  = "PERSIST_FAILED"
	OutcomeUnknownElement = "UNKNOWN_ELEMENT"
	OutcomeWrongKind      = "WRONG_KIND"
	OutcomeError          = "ERROR"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Action  string `json:"action"`
	Element string `json:"element,omitempty"`
	Outcome string `json:"outcome"`

	// Session is the content id of the active session after the step.
	Session string `json:"session,omitempty"`

	// Notifications lists the titles emitted during the step.
	Notifications []string `json:"notifications,omitempty"`
}

// StoredState is the persisted content of both namespaces.
type StoredState struct {
	Content map[string]string `json:"content"`
	Images  map[string]string `json:"images"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step produced an acceptable outcome and
	// every assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Stored is read back from the backend after the last step.
	Stored StoredState `json:"stored"`

	// Notifications lists every notification title in order.
	Notifications []string `json:"notifications,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Stored: StoredState{
			Content: map[string]string{},
			Images:  map[string]string{},
		},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
