// Package persistence stores and restores in-progress builder sessions.
package persistence

import (
	"context"
	"errors"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// ProgressKey is the well-known key the builder persists its record under.
const ProgressKey = "workflow-progress"

// ErrRecordNotFound is returned when no record exists under a key.
var ErrRecordNotFound = errors.New("progress record not found")

// Record is the persisted shape of a builder session. It is created or
// updated on every (debounced) field change and deleted only by an explicit
// reset.
type Record struct {
	CurrentStep    int                          `json:"currentStep"`
	StepData       map[string]models.FormValues `json:"stepData"`
	CompletedSteps []string                     `json:"completedSteps"`
}

// Store is the storage abstraction behind the saver. Implementations live
// in the file and redis subpackages.
type Store interface {
	Save(ctx context.Context, key string, record *Record) error
	Load(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsRecordNotFound reports whether err means the key held no record.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
