// Package builder wires the compiler, progress tracker, saver and canvas
// controller into one conversational builder session.
package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowsmith/flowsmith/pkg/canvas"
	"github.com/flowsmith/flowsmith/pkg/compiler"
	"github.com/flowsmith/flowsmith/pkg/fields"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/persistence"
	"github.com/flowsmith/flowsmith/pkg/progress"
	"github.com/flowsmith/flowsmith/pkg/validation"
)

// Options configure a session. A nil Store disables local persistence; a
// nil RemoteSave disables the remote target.
type Options struct {
	Steps      []models.WorkflowStep
	Fields     []models.FormField
	Store      persistence.Store
	StorageKey string
	RemoteSave persistence.RemoteSaveFunc
	SaveDelay  time.Duration
	Canvas     canvas.Options
	Logger     *slog.Logger
}

// Callbacks are everything the builder exposes to its hosting application.
// Nil callbacks are skipped.
type Callbacks struct {
	OnSubmit          func(values models.FormValues)
	OnFieldChange     func(name string, value any)
	OnStepComplete    func(stepID string, data models.FormValues)
	OnStepChange      func(stepNumber int)
	OnProgressUpdate  func(data models.ProgressData)
	OnNodeClick       func(node models.WorkflowNode)
	OnConnectionClick func(connection models.Connection)
	OnNodeHover       func(nodeID string, hovering bool)
	OnSaveFailed      func(notice string)
}

// Builder is one live session. There is exactly one logical owner of all
// form and graph state, so the builder itself takes no locks; callers
// serialize access.
type Builder struct {
	steps     []models.WorkflowStep
	fields    map[string]models.FormField
	tracker   *progress.Tracker
	saver     *persistence.Saver
	canvas    *canvas.Controller
	errors    models.FormErrors
	callbacks Callbacks
	logger    *slog.Logger
}

// New creates a session and, when local persistence is enabled, hydrates it
// from the stored record before the first render.
func New(ctx context.Context, opts Options, callbacks Callbacks) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	key := opts.StorageKey
	if key == "" {
		key = persistence.ProgressKey
	}

	fields := make(map[string]models.FormField, len(opts.Fields))
	for _, field := range opts.Fields {
		fields[field.Name] = field
	}

	b := &Builder{
		steps:     opts.Steps,
		fields:    fields,
		errors:    make(models.FormErrors),
		callbacks: callbacks,
		logger:    logger.With("module", "builder"),
	}

	b.tracker = progress.NewTracker(opts.Steps, fields, progress.Callbacks{
		OnStepComplete:   callbacks.OnStepComplete,
		OnStepChange:     b.stepChanged,
		OnProgressUpdate: callbacks.OnProgressUpdate,
	})

	b.saver = persistence.NewSaver(opts.Store, key, opts.RemoteSave, opts.SaveDelay, logger)
	if callbacks.OnSaveFailed != nil {
		b.saver.OnFailure(callbacks.OnSaveFailed)
	}

	b.canvas = canvas.NewController(opts.Canvas, canvas.Callbacks{
		OnNodeClick:       callbacks.OnNodeClick,
		OnConnectionClick: callbacks.OnConnectionClick,
		OnNodeHover:       callbacks.OnNodeHover,
	})

	if record := b.saver.Restore(ctx); record != nil {
		b.tracker.Hydrate(record.CurrentStep, record.StepData, record.CompletedSteps)
	}

	b.syncCanvasStep()

	return b
}

// CompileIntent compiles an intent and replaces the canvas graph.
func (b *Builder) CompileIntent(intent *models.WorkflowIntent) ([]models.WorkflowNode, []models.Connection) {
	nodes, connections := compiler.Compile(intent)
	b.canvas.SetGraph(nodes, connections)

	return nodes, connections
}

// KnownField reports whether a field definition exists under the name.
func (b *Builder) KnownField(name string) bool {
	_, ok := b.fields[name]

	return ok
}

// HandleFieldChange stores a changed value, clears the field's error when
// the new value resolves it and schedules a debounced save.
func (b *Builder) HandleFieldChange(fieldName string, value any) {
	b.tracker.SetValue(fieldName, value)

	if _, errored := b.errors[fieldName]; errored {
		fresh := b.tracker.Validate()
		if message, still := fresh[fieldName]; still {
			b.errors[fieldName] = message
		} else {
			delete(b.errors, fieldName)
		}
	}

	if b.callbacks.OnFieldChange != nil {
		b.callbacks.OnFieldChange(fieldName, value)
	}

	b.saver.Schedule(b.record())
}

// HandleBlur revalidates one field on focus leave.
func (b *Builder) HandleBlur(fieldName string) {
	fresh := b.tracker.Validate()
	if message, bad := fresh[fieldName]; bad {
		b.errors[fieldName] = message
	} else {
		delete(b.errors, fieldName)
	}
}

// MarkComplete validates and completes the active step.
func (b *Builder) MarkComplete() models.FormErrors {
	errors := b.tracker.MarkComplete()
	if errors != nil {
		b.errors = errors

		return errors
	}

	b.errors = make(models.FormErrors)
	b.syncCanvasStep()
	b.saver.Schedule(b.record())

	return nil
}

// Next advances when the active step's required fields are filled.
func (b *Builder) Next() models.FormErrors {
	errors := b.tracker.Next()
	if errors != nil {
		b.errors = errors

		return errors
	}

	return nil
}

// Previous moves back one step.
func (b *Builder) Previous() {
	b.tracker.Previous()
}

// GoToStep jumps to a current or completed step; anything else is a no-op.
func (b *Builder) GoToStep(n int) bool {
	return b.tracker.GoToStep(n)
}

// Submit validates the active step and, on success, flushes the pending
// save and hands all entered values to the hosting application.
func (b *Builder) Submit(ctx context.Context) models.FormErrors {
	errors := b.tracker.Validate()
	if len(errors) > 0 {
		b.errors = errors

		return errors
	}

	b.errors = make(models.FormErrors)

	b.saver.Schedule(b.record())
	b.saver.Flush(ctx)

	if b.callbacks.OnSubmit != nil {
		b.callbacks.OnSubmit(b.allValues())
	}

	return nil
}

// Reset clears tracker state and deletes the persisted record, the only
// sanctioned deletion.
func (b *Builder) Reset(ctx context.Context) error {
	b.tracker.Reset()
	b.errors = make(models.FormErrors)
	b.syncCanvasStep()

	return b.saver.Reset(ctx)
}

// Tracker exposes the progress state machine.
func (b *Builder) Tracker() *progress.Tracker {
	return b.tracker
}

// Canvas exposes the interaction controller.
func (b *Builder) Canvas() *canvas.Controller {
	return b.canvas
}

// Errors returns the current inline field errors.
func (b *Builder) Errors() models.FormErrors {
	return b.errors
}

// Notice returns the persistence advisory, empty when saving works.
func (b *Builder) Notice() string {
	return b.saver.Notice()
}

// CanAdvance gates Next/Submit button enablement.
func (b *Builder) CanAdvance() bool {
	return b.tracker.CanAdvance()
}

// RenderStep builds the field view models for the active step. Fields the
// step names but nobody defined render as nothing at all.
func (b *Builder) RenderStep() []fields.RenderedField {
	step, ok := b.tracker.Step()
	if !ok {
		return nil
	}

	values := b.tracker.Values()
	rendered := make([]fields.RenderedField, 0, len(step.Fields))

	for _, name := range step.Fields {
		field, known := b.fields[name]
		if !known {
			continue
		}

		rendered = append(rendered, fields.Render(field, values[name]))
	}

	return rendered
}

// Flush forces any pending save through immediately.
func (b *Builder) Flush(ctx context.Context) {
	b.saver.Flush(ctx)
}

// Close cancels the pending debounce and tooltip timers. Required at
// teardown; skipping it risks state writes after the view is gone.
func (b *Builder) Close() {
	b.saver.Close()
	b.canvas.Close()
}

func (b *Builder) stepChanged(stepNumber int) {
	// A fresh step starts without stale errors from the previous one.
	b.errors = make(models.FormErrors)
	b.syncCanvasStep()

	if b.callbacks.OnStepChange != nil {
		b.callbacks.OnStepChange(stepNumber)
	}
}

// syncCanvasStep feeds the active step's ID into the canvas so node
// active/completed styling follows form progress.
func (b *Builder) syncCanvasStep() {
	if step, ok := b.tracker.Step(); ok {
		b.canvas.SetCurrentStep(step.ID)
	}
}

func (b *Builder) record() *persistence.Record {
	return &persistence.Record{
		CurrentStep:    b.tracker.CurrentStep(),
		StepData:       b.tracker.StepData(),
		CompletedSteps: b.tracker.CompletedSteps(),
	}
}

func (b *Builder) allValues() models.FormValues {
	values := make(models.FormValues)

	for _, stepValues := range b.tracker.StepData() {
		for name, value := range stepValues {
			values[name] = value
		}
	}

	return values
}

// Revalidate recomputes the active step's full error set. Exposed for
// hosts that validate on every data change rather than on blur.
func (b *Builder) Revalidate() models.FormErrors {
	step, ok := b.tracker.Step()
	if !ok {
		return models.FormErrors{}
	}

	b.errors = validation.ValidateStep(step, b.fields, b.tracker.Values())

	return b.errors
}
