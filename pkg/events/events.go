// Package events defines the wire shape of builder session notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowsmith/flowsmith/pkg/models"
)

type EventType string

const (
	StepCompletedEvent   EventType = "step.completed"
	StepChangedEvent     EventType = "step.changed"
	ProgressUpdatedEvent EventType = "progress.updated"
	GraphCompiledEvent   EventType = "graph.compiled"
	SaveFailedEvent      EventType = "save.failed"
	SubmittedEvent       EventType = "form.submitted"
)

// Event is implemented by every session event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

func NewBaseEvent(eventType EventType, sessionID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
	}
}

type StepCompleted struct {
	BaseEvent

	StepID string            `json:"step_id"`
	Data   models.FormValues `json:"data,omitempty"`
}

func (e StepCompleted) GetType() EventType {
	return StepCompletedEvent
}

type StepChanged struct {
	BaseEvent

	StepNumber int `json:"step_number"`
}

func (e StepChanged) GetType() EventType {
	return StepChangedEvent
}

type ProgressUpdated struct {
	BaseEvent

	Progress models.ProgressData `json:"progress"`
}

func (e ProgressUpdated) GetType() EventType {
	return ProgressUpdatedEvent
}

type GraphCompiled struct {
	BaseEvent

	NodeCount       int  `json:"node_count"`
	ConnectionCount int  `json:"connection_count"`
	Empty           bool `json:"empty"`
}

func (e GraphCompiled) GetType() EventType {
	return GraphCompiledEvent
}

type SaveFailed struct {
	BaseEvent

	Notice string `json:"notice"`
}

func (e SaveFailed) GetType() EventType {
	return SaveFailedEvent
}

type Submitted struct {
	BaseEvent

	Values models.FormValues `json:"values"`
}

func (e Submitted) GetType() EventType {
	return SubmittedEvent
}
