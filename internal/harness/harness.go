package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/edit"
	"github.com/roach88/atelier/internal/page"
	"github.com/roach88/atelier/internal/store"
	"github.com/roach88/atelier/internal/testutil"
)

// Harness is the scenario execution environment.
type Harness struct {
	st       *store.Store
	backend  *faultBackend
	manifest *page.Manifest
	page     *page.Page
	notes    *testutil.RecordingNotifier
	clock    *testutil.DeterministicClock
	ids      edit.IDGenerator
	enabled  bool
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each run uses a fresh in-memory SQLite store. An error is returned
// only when the scenario cannot be executed at all; failed steps and
// assertions are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	manifest, err := page.Load(scenario.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock()
	h := &Harness{
		st:       st,
		backend:  &faultBackend{Backend: st},
		manifest: manifest,
		notes:    &testutil.RecordingNotifier{},
		clock:    clock,
		ids:      edit.NewCounterIDsFrom(testutil.NewDeterministicClock()),
		enabled:  scenario.Capability == nil || *scenario.Capability,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ctx := context.Background()
	if err := h.seed(ctx, scenario.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}
	if err := h.newPage(ctx, !scenario.Deferred); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.execute(ctx, i, step, result)
	}

	result.Stored = h.stored(ctx)
	result.Notifications = h.notes.Titles()

	actx := &AssertionContext{Ctx: ctx, Store: st, Page: h.page}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) seed(ctx context.Context, seed Seed) error {
	if len(seed.Content) > 0 {
		if err := content.NewStore(h.backend, content.NamespaceContent).Save(ctx, seed.Content); err != nil {
			return err
		}
	}
	if len(seed.Images) > 0 {
		if err := content.NewStore(h.backend, content.NamespaceImages).Save(ctx, seed.Images); err != nil {
			return err
		}
	}
	for ns, raw := range seed.Raw {
		if err := h.backend.SetItem(ctx, string(namespaceKey(ns)), raw); err != nil {
			return err
		}
	}
	return nil
}

// newPage builds a page over fresh stores on the shared backend, the way
// a browser reload would.
func (h *Harness) newPage(ctx context.Context, activate bool) error {
	text := content.NewStore(h.backend, content.NamespaceContent, content.WithLogger(h.logger))
	images := content.NewStore(h.backend, content.NamespaceImages, content.WithLogger(h.logger))

	p, err := page.New(h.manifest, text, images,
		page.WithNotifier(h.notes),
		page.WithLogger(h.logger),
		page.WithIDGenerator(h.ids),
	)
	if err != nil {
		return fmt.Errorf("failed to build page: %w", err)
	}
	h.page = p
	if activate {
		p.Activate(ctx)
	}
	return nil
}

func (h *Harness) execute(ctx context.Context, index int, step Step, result *Result) {
	before := len(h.notes.All())
	outcome := h.apply(ctx, step)

	ev := TraceEvent{
		Seq:     h.clock.Next(),
		Action:  step.Action,
		Element: step.Element,
		Outcome: outcome,
	}
	if s, ok := h.page.Controller().Active(); ok {
		ev.Session = s.ContentID
	}
	if titles := h.notes.Titles(); len(titles) > before {
		ev.Notifications = titles[before:]
	}
	result.AddTrace(ev)

	switch {
	case step.Expect != "" && outcome != step.Expect:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected outcome %s, got %s", index, step.Action, step.Expect, outcome))
	case step.Expect == "" && outcome != OutcomeOK && outcome != OutcomeIgnored:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected outcome %s", index, step.Action, outcome))
	}
}

func (h *Harness) apply(ctx context.Context, step Step) string {
	enabled := h.enabled
	if step.Enabled != nil {
		enabled = *step.Enabled
	}
	ctrl := h.page.Controller()

	switch step.Action {
	case StepLoad:
		h.page.Activate(ctx)
		return OutcomeOK
	case StepReload:
		if err := h.newPage(ctx, true); err != nil {
			return OutcomeError
		}
		return OutcomeOK
	case StepFailWrites:
		h.backend.setFailing(true)
		return OutcomeOK
	case StepRestoreWrites:
		h.backend.setFailing(false)
		return OutcomeOK
	case StepFlush:
		return outcomeOf(ctrl.Flush(ctx))
	case StepAddSection:
		h.page.AddSection(step.Text, enabled)
		if !enabled {
			return OutcomeIgnored
		}
		return OutcomeOK
	case StepSetImage:
		if !enabled {
			return OutcomeIgnored
		}
		return outcomeOf(h.page.ReplaceImage(ctx, step.Element, step.URL, enabled))
	}

	el, ok := h.page.Element(step.Element)
	if !ok {
		return OutcomeUnknownElement
	}
	if el.Kind() != page.KindText {
		return OutcomeWrongKind
	}

	switch step.Action {
	case StepActivate:
		err := ctrl.Dispatch(ctx, el, edit.Event{Kind: edit.EventDoubleActivate, Enabled: enabled})
		if err != nil {
			return outcomeOf(err)
		}
		if !h.sessionOn(el) {
			return OutcomeIgnored
		}
		return OutcomeOK
	case StepType:
		if !el.Editable() {
			return OutcomeIgnored
		}
		el.Type(page.EscapeText(step.Text))
		return OutcomeOK
	case StepBackspace:
		if !el.Editable() {
			return OutcomeIgnored
		}
		el.Backspace()
		return OutcomeOK
	case StepKey:
		if !h.sessionOn(el) {
			return OutcomeIgnored
		}
		err := ctrl.Dispatch(ctx, el, edit.Event{Kind: edit.EventKey, Key: edit.Key(step.Key), Shift: step.Shift})
		if err != nil {
			return outcomeOf(err)
		}
		if h.sessionOn(el) {
			return OutcomeIgnored
		}
		return OutcomeOK
	case StepBlur:
		if !h.sessionOn(el) {
			return OutcomeIgnored
		}
		return outcomeOf(ctrl.Dispatch(ctx, el, edit.Event{Kind: edit.EventBlur}))
	}
	return OutcomeError
}

func (h *Harness) sessionOn(el *page.Element) bool {
	s, ok := h.page.Controller().Active()
	return ok && s.Target == edit.Target(el)
}

// stored reads both namespaces back through fresh stores.
func (h *Harness) stored(ctx context.Context) StoredState {
	return StoredState{
		Content: content.NewStore(h.backend, content.NamespaceContent, content.WithLogger(h.logger)).Load(ctx),
		Images:  content.NewStore(h.backend, content.NamespaceImages, content.WithLogger(h.logger)).Load(ctx),
	}
}

func outcomeOf(err error) string {
	var ee *edit.Error
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &ee):
		return string(ee.Code)
	case content.IsPersistError(err):
		return OutcomePersistFailed
	case errors.Is(err, page.ErrUnknownElement):
		return OutcomeUnknownElement
	case errors.Is(err, page.ErrWrongKind):
		return OutcomeWrongKind
	default:
		return OutcomeError
	}
}

func namespaceKey(ns string) content.Namespace {
	if ns == NamespaceImages {
		return content.NamespaceImages
	}
	return content.NamespaceContent
}
