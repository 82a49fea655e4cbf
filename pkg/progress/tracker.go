// Package progress drives step sequencing and completion bookkeeping for
// the multi-step form.
package progress

import (
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/validation"
)

// CheckmarkGlyph marks completed step indicators.
const CheckmarkGlyph = "✓"

// Callbacks are the tracker's outbound events. Nil callbacks are skipped.
type Callbacks struct {
	OnStepComplete   func(stepID string, data models.FormValues)
	OnStepChange     func(stepNumber int)
	OnProgressUpdate func(data models.ProgressData)
}

// StepIndicator is the view model for one entry of the step indicator row.
type StepIndicator struct {
	Number      int    `json:"number"`
	StepID      string `json:"step_id"`
	Label       string `json:"label"`
	Completed   bool   `json:"completed"`
	Checkmark   string `json:"checkmark,omitempty"`
	Current     bool   `json:"current"`
	AriaCurrent string `json:"aria_current,omitempty"`
}

// Tracker is the step-navigation state machine. currentStep stays within
// [1, totalSteps]; the completed set only grows, shrinking requires an
// external reset.
type Tracker struct {
	steps     []models.WorkflowStep
	fields    map[string]models.FormField
	current   int
	completed map[string]bool
	order     []string
	stepData  map[string]models.FormValues
	callbacks Callbacks
}

// NewTracker starts at step 1 with nothing completed.
func NewTracker(steps []models.WorkflowStep, fields map[string]models.FormField, callbacks Callbacks) *Tracker {
	return &Tracker{
		steps:     steps,
		fields:    fields,
		current:   1,
		completed: make(map[string]bool),
		stepData:  make(map[string]models.FormValues),
		callbacks: callbacks,
	}
}

// CurrentStep returns the 1-based active step number.
func (t *Tracker) CurrentStep() int {
	return t.current
}

// TotalSteps returns the number of configured steps.
func (t *Tracker) TotalSteps() int {
	return len(t.steps)
}

// Step returns the active step definition. ok is false when no steps are
// configured.
func (t *Tracker) Step() (models.WorkflowStep, bool) {
	if t.current < 1 || t.current > len(t.steps) {
		return models.WorkflowStep{}, false
	}

	return t.steps[t.current-1], true
}

// SetValue stores a field value under the active step.
func (t *Tracker) SetValue(fieldName string, value any) {
	step, ok := t.Step()
	if !ok {
		return
	}

	values := t.stepData[step.ID]
	if values == nil {
		values = make(models.FormValues)
		t.stepData[step.ID] = values
	}

	values[fieldName] = value
}

// Values returns a copy of the active step's entered values. Callers hold
// the copy across goroutine boundaries (saver, event log), so handing out
// the live map would race with SetValue.
func (t *Tracker) Values() models.FormValues {
	step, ok := t.Step()
	if !ok {
		return models.FormValues{}
	}

	values := make(models.FormValues, len(t.stepData[step.ID]))
	for name, value := range t.stepData[step.ID] {
		values[name] = value
	}

	return values
}

// StepData returns a deep copy of all entered values keyed by step ID.
// The debounce timer marshals the result on its own goroutine while
// SetValue keeps writing, so both map levels are detached.
func (t *Tracker) StepData() map[string]models.FormValues {
	data := make(map[string]models.FormValues, len(t.stepData))

	for stepID, values := range t.stepData {
		copied := make(models.FormValues, len(values))
		for name, value := range values {
			copied[name] = value
		}

		data[stepID] = copied
	}

	return data
}

// CompletedSteps returns completed step IDs in completion order.
func (t *Tracker) CompletedSteps() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)

	return out
}

// IsCompleted reports whether a step has been marked complete.
func (t *Tracker) IsCompleted(stepID string) bool {
	return t.completed[stepID]
}

// Validate runs the full rule set over the active step.
func (t *Tracker) Validate() models.FormErrors {
	step, ok := t.Step()
	if !ok {
		return models.FormErrors{}
	}

	return validation.ValidateStep(step, t.fields, t.Values())
}

// CanAdvance reports whether the active step's required fields are filled.
func (t *Tracker) CanAdvance() bool {
	step, ok := t.Step()
	if !ok {
		return false
	}

	return validation.CanAdvance(step, t.fields, t.Values())
}

// MarkComplete validates the active step; on success it records the step as
// completed, moves to the suggested next step and emits the step-complete
// and progress-update events. On failure it returns the field errors and
// changes nothing.
func (t *Tracker) MarkComplete() models.FormErrors {
	step, ok := t.Step()
	if !ok {
		return models.FormErrors{}
	}

	errors := validation.ValidateStep(step, t.fields, t.Values())
	if len(errors) > 0 {
		return errors
	}

	data := t.Values()

	t.complete(step.ID)
	t.current = min(t.current+1, len(t.steps))

	if t.callbacks.OnStepComplete != nil {
		t.callbacks.OnStepComplete(step.ID, data)
	}

	t.emitProgress()

	return nil
}

// Next advances one step when the cheap advance gate passes, emitting a
// step-change event. On failure it returns the inline errors and stays put.
func (t *Tracker) Next() models.FormErrors {
	step, ok := t.Step()
	if !ok {
		return models.FormErrors{}
	}

	if !validation.CanAdvance(step, t.fields, t.Values()) {
		return validation.ValidateStep(step, t.fields, t.Values())
	}

	t.current = min(t.current+1, len(t.steps))
	t.emitStepChange()

	return nil
}

// Previous moves back one step, floored at 1, and always emits a
// step-change event. Visited steps keep their stored data, so no validation
// runs.
func (t *Tracker) Previous() {
	t.current = max(t.current-1, 1)
	t.emitStepChange()
}

// GoToStep jumps to step n only when n is the current step or an already
// completed one. Clicking an un-reached future step is a silent no-op.
func (t *Tracker) GoToStep(n int) bool {
	if n < 1 || n > len(t.steps) {
		return false
	}

	if n != t.current && !t.completed[t.steps[n-1].ID] {
		return false
	}

	t.current = n
	t.emitStepChange()

	return true
}

// Progress returns the current progress snapshot.
func (t *Tracker) Progress() models.ProgressData {
	return models.NewProgressData(t.current, len(t.steps), t.CompletedSteps())
}

// Indicators builds the step indicator row view model.
func (t *Tracker) Indicators() []StepIndicator {
	indicators := make([]StepIndicator, 0, len(t.steps))

	for i, step := range t.steps {
		indicator := StepIndicator{
			Number:    i + 1,
			StepID:    step.ID,
			Label:     step.Name,
			Completed: t.completed[step.ID],
			Current:   t.current == i+1,
		}

		if indicator.Completed {
			indicator.Checkmark = CheckmarkGlyph
		}

		if indicator.Current {
			indicator.AriaCurrent = "step"
		}

		indicators = append(indicators, indicator)
	}

	return indicators
}

// Hydrate restores tracker state from a persisted record. The current step
// is clamped into range and completed IDs that match no configured step are
// dropped, keeping the completed-set invariant.
func (t *Tracker) Hydrate(currentStep int, stepData map[string]models.FormValues, completedSteps []string) {
	if currentStep >= 1 && currentStep <= len(t.steps) {
		t.current = currentStep
	}

	known := make(map[string]bool, len(t.steps))
	for _, step := range t.steps {
		known[step.ID] = true
	}

	for _, id := range completedSteps {
		if known[id] {
			t.complete(id)
		}
	}

	for stepID, values := range stepData {
		if known[stepID] && values != nil {
			t.stepData[stepID] = values
		}
	}
}

// Reset clears completion state and entered data and returns to step 1.
func (t *Tracker) Reset() {
	t.current = 1
	t.completed = make(map[string]bool)
	t.order = nil
	t.stepData = make(map[string]models.FormValues)
	t.emitProgress()
}

func (t *Tracker) complete(stepID string) {
	if t.completed[stepID] {
		return
	}

	t.completed[stepID] = true
	t.order = append(t.order, stepID)
}

func (t *Tracker) emitStepChange() {
	if t.callbacks.OnStepChange != nil {
		t.callbacks.OnStepChange(t.current)
	}
}

func (t *Tracker) emitProgress() {
	if t.callbacks.OnProgressUpdate != nil {
		t.callbacks.OnProgressUpdate(t.Progress())
	}
}
