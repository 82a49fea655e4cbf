package progress

import (
	"testing"

	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSteps() ([]models.WorkflowStep, map[string]models.FormField) {
	steps := []models.WorkflowStep{
		{ID: "basics", Name: "Basics", Fields: []string{"name"}},
		{ID: "contact", Name: "Contact", Fields: []string{"email"}},
		{ID: "review", Name: "Review", Fields: []string{}},
	}

	fields := map[string]models.FormField{
		"name":  {Name: "name", Type: models.FieldTypeText, Required: true},
		"email": {Name: "email", Type: models.FieldTypeEmail, Required: true},
	}

	return steps, fields
}

func TestTracker_StartsAtStepOne(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Empty(t, tracker.CompletedSteps())
}

func TestTracker_OverallProgressRounding(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.MarkComplete())

	tracker.SetValue("email", "ana@example.com")
	require.Nil(t, tracker.MarkComplete())

	data := tracker.Progress()
	assert.Equal(t, 67, data.OverallProgress, "round(2/3*100)")
	assert.Equal(t, []string{"basics", "contact"}, data.CompletedSteps)
}

func TestTracker_MarkCompleteBlockedByValidation(t *testing.T) {
	steps, fields := threeSteps()

	var completed []string

	tracker := NewTracker(steps, fields, Callbacks{
		OnStepComplete: func(stepID string, _ models.FormValues) {
			completed = append(completed, stepID)
		},
	})

	errors := tracker.MarkComplete()

	require.NotNil(t, errors)
	assert.Equal(t, "Name is required", errors["name"])
	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Empty(t, completed)
}

func TestTracker_MarkCompleteEmitsEvents(t *testing.T) {
	steps, fields := threeSteps()

	var (
		completedID   string
		completedData models.FormValues
		progressData  *models.ProgressData
	)

	tracker := NewTracker(steps, fields, Callbacks{
		OnStepComplete: func(stepID string, data models.FormValues) {
			completedID = stepID
			completedData = data
		},
		OnProgressUpdate: func(data models.ProgressData) {
			progressData = &data
		},
	})

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.MarkComplete())

	assert.Equal(t, "basics", completedID)
	assert.Equal(t, models.FormValues{"name": "Ana"}, completedData)
	require.NotNil(t, progressData)
	assert.Equal(t, 33, progressData.OverallProgress)
	assert.Equal(t, 2, tracker.CurrentStep(), "advances to the suggested next step")
}

func TestTracker_NextGatedOnRequiredFields(t *testing.T) {
	steps, fields := threeSteps()

	var changes []int

	tracker := NewTracker(steps, fields, Callbacks{
		OnStepChange: func(step int) {
			changes = append(changes, step)
		},
	})

	errors := tracker.Next()
	require.NotNil(t, errors)
	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Empty(t, changes, "blocked Next must not emit a step-change event")

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.Next())
	assert.Equal(t, 2, tracker.CurrentStep())
	assert.Equal(t, []int{2}, changes)
}

func TestTracker_PreviousIsUnconditionalAndFloored(t *testing.T) {
	steps, fields := threeSteps()

	var changes []int

	tracker := NewTracker(steps, fields, Callbacks{
		OnStepChange: func(step int) {
			changes = append(changes, step)
		},
	})

	tracker.Previous()
	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Equal(t, []int{1}, changes, "Previous always emits, floored at 1")

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.Next())
	tracker.Previous()
	assert.Equal(t, 1, tracker.CurrentStep())
}

func TestTracker_GoToStepPermissions(t *testing.T) {
	steps, fields := threeSteps()

	var changes []int

	tracker := NewTracker(steps, fields, Callbacks{
		OnStepChange: func(step int) {
			changes = append(changes, step)
		},
	})

	// Future, un-completed step: silent no-op.
	assert.False(t, tracker.GoToStep(3))
	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Empty(t, changes)

	// The current step is always allowed.
	assert.True(t, tracker.GoToStep(1))
	assert.Equal(t, []int{1}, changes)

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.MarkComplete())
	require.Equal(t, 2, tracker.CurrentStep())

	// Completed steps stay reachable.
	assert.True(t, tracker.GoToStep(1))
	assert.Equal(t, 1, tracker.CurrentStep())

	// Out-of-range is rejected.
	assert.False(t, tracker.GoToStep(0))
	assert.False(t, tracker.GoToStep(4))
}

func TestTracker_Indicators(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.MarkComplete())

	indicators := tracker.Indicators()
	require.Len(t, indicators, 3)

	assert.Equal(t, 1, indicators[0].Number)
	assert.True(t, indicators[0].Completed)
	assert.Equal(t, CheckmarkGlyph, indicators[0].Checkmark)
	assert.False(t, indicators[0].Current)

	assert.True(t, indicators[1].Current)
	assert.Equal(t, "step", indicators[1].AriaCurrent)
	assert.Empty(t, indicators[1].Checkmark)

	assert.False(t, indicators[2].Completed)
	assert.False(t, indicators[2].Current)
}

func TestTracker_HydrateClampsAndFilters(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	tracker.Hydrate(7, map[string]models.FormValues{
		"basics": {"name": "Ana"},
		"ghost":  {"x": 1},
	}, []string{"basics", "ghost"})

	assert.Equal(t, 1, tracker.CurrentStep(), "out-of-range current step is ignored")
	assert.Equal(t, []string{"basics"}, tracker.CompletedSteps(), "unknown step IDs are dropped")
	assert.Equal(t, models.FormValues{"name": "Ana"}, tracker.Values())
	assert.NotContains(t, tracker.StepData(), "ghost")
}

func TestTracker_StepDataSnapshotsAreDetached(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	tracker.SetValue("name", "Ana")

	snapshot := tracker.StepData()
	values := tracker.Values()

	tracker.SetValue("name", "Bea")
	snapshot["basics"]["extra"] = true

	assert.Equal(t, "Ana", snapshot["basics"]["name"], "later edits must not leak into the snapshot")
	assert.Equal(t, models.FormValues{"name": "Ana"}, values)
	assert.Equal(t, "Bea", tracker.Values()["name"])
	assert.NotContains(t, tracker.Values(), "extra", "snapshot edits must not leak back")
}

func TestTracker_Reset(t *testing.T) {
	steps, fields := threeSteps()
	tracker := NewTracker(steps, fields, Callbacks{})

	tracker.SetValue("name", "Ana")
	require.Nil(t, tracker.MarkComplete())

	tracker.Reset()

	assert.Equal(t, 1, tracker.CurrentStep())
	assert.Empty(t, tracker.CompletedSteps())
	assert.Empty(t, tracker.Values())
}
