package models

import "math"

// ProgressData is a snapshot of multi-step form progress.
// OverallProgress is always round(len(CompletedSteps)/TotalSteps*100).
type ProgressData struct {
	CurrentStep     int      `json:"current_step"     validate:"min=1"`
	TotalSteps      int      `json:"total_steps"      validate:"min=1"`
	CompletedSteps  []string `json:"completed_steps"`
	OverallProgress int      `json:"overall_progress" validate:"min=0,max=100"`
}

// NewProgressData builds a snapshot with the progress percentage computed
// from the completed set.
func NewProgressData(currentStep, totalSteps int, completedSteps []string) ProgressData {
	progress := 0
	if totalSteps > 0 {
		progress = int(math.Round(float64(len(completedSteps)) / float64(totalSteps) * 100))
	}

	if completedSteps == nil {
		completedSteps = []string{}
	}

	return ProgressData{
		CurrentStep:     currentStep,
		TotalSteps:      totalSteps,
		CompletedSteps:  completedSteps,
		OverallProgress: progress,
	}
}
