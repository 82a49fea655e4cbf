package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/flowsmith/flowsmith/pkg/builder"
	"github.com/flowsmith/flowsmith/pkg/canvas"
	"github.com/flowsmith/flowsmith/pkg/compiler"
	"github.com/flowsmith/flowsmith/pkg/events"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/persistence"
)

const sessionIDLength = 12

// maxEventLog caps the per-session event buffer; older entries rotate out.
const maxEventLog = 256

// Session is one live builder session plus its recent event log. The
// builder mutex and the event log mutex are separate because builder
// callbacks append to the log while the builder mutex is held.
type Session struct {
	ID      string
	Builder *builder.Builder

	builderMu sync.Mutex

	eventsMu sync.Mutex
	events   []events.Event
}

// record appends to the rotating event log.
func (s *Session) record(event events.Event) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	s.events = append(s.events, event)
	if len(s.events) > maxEventLog {
		s.events = s.events[len(s.events)-maxEventLog:]
	}
}

// Events returns a copy of the recorded events, oldest first.
func (s *Session) Events() []events.Event {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	out := make([]events.Event, len(s.events))
	copy(out, s.events)

	return out
}

// Do serializes access to the session's builder; the builder has exactly
// one logical owner and takes no locks of its own.
func (s *Session) Do(fn func(b *builder.Builder)) {
	s.builderMu.Lock()
	defer s.builderMu.Unlock()

	fn(s.Builder)
}

// CreateSessionRequest carries everything needed to start a session.
type CreateSessionRequest struct {
	Steps         []models.WorkflowStep `validate:"required,min=1,dive"`
	Fields        []models.FormField    `validate:"omitempty,dive"`
	Compact       bool
	EnableZoomPan bool
	SaveDelay     time.Duration
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store     persistence.Store
	remote    persistence.RemoteSaveFunc
	saveDelay time.Duration
	logger    *slog.Logger
}

// NewManager creates a session manager. store may be nil to disable local
// persistence, remote may be nil to disable the remote save target.
func NewManager(store persistence.Store, remote persistence.RemoteSaveFunc, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		remote:   remote,
		logger:   logger.With("module", "sessions"),
	}
}

// SetDefaultSaveDelay sets the debounce applied to sessions whose create
// request does not carry one.
func (m *Manager) SetDefaultSaveDelay(delay time.Duration) {
	m.saveDelay = delay
}

// Create starts a new session and hydrates it from storage when a record
// for its key already exists.
func (m *Manager) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if len(req.Steps) == 0 {
		return nil, NewValidationError("Create", "steps_required",
			"session must have at least one step", ErrStepsRequired)
	}

	if req.SaveDelay <= 0 {
		req.SaveDelay = m.saveDelay
	}

	id, err := gonanoid.New(sessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &Session{ID: id}

	session.Builder = builder.New(ctx, builder.Options{
		Steps:      req.Steps,
		Fields:     req.Fields,
		Store:      m.store,
		StorageKey: persistence.ProgressKey + ":" + id,
		RemoteSave: m.remote,
		SaveDelay:  req.SaveDelay,
		Canvas: canvas.Options{
			Compact:       req.Compact,
			EnableZoomPan: req.EnableZoomPan,
		},
		Logger: m.logger,
	}, builder.Callbacks{
		OnStepComplete: func(stepID string, data models.FormValues) {
			session.record(events.StepCompleted{
				BaseEvent: events.NewBaseEvent(events.StepCompletedEvent, id),
				StepID:    stepID,
				Data:      data,
			})
		},
		OnStepChange: func(stepNumber int) {
			session.record(events.StepChanged{
				BaseEvent:  events.NewBaseEvent(events.StepChangedEvent, id),
				StepNumber: stepNumber,
			})
		},
		OnProgressUpdate: func(data models.ProgressData) {
			session.record(events.ProgressUpdated{
				BaseEvent: events.NewBaseEvent(events.ProgressUpdatedEvent, id),
				Progress:  data,
			})
		},
		OnSubmit: func(values models.FormValues) {
			session.record(events.Submitted{
				BaseEvent: events.NewBaseEvent(events.SubmittedEvent, id),
				Values:    values,
			})
		},
		OnSaveFailed: func(notice string) {
			session.record(events.SaveFailed{
				BaseEvent: events.NewBaseEvent(events.SaveFailedEvent, id),
				Notice:    notice,
			})
		},
	})

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.logger.Info("Session created", "session_id", id, "steps", len(req.Steps))

	return session, nil
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return session, nil
}

// CompileIntent validates and compiles an intent payload into the
// session's graph, recording a graph-compiled event.
func (m *Manager) CompileIntent(id string, payload []byte, intent *models.WorkflowIntent) ([]models.WorkflowNode, []models.Connection, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}

	if err := compiler.ValidateIntentJSON(payload); err != nil {
		return nil, nil, NewValidationError("CompileIntent", "invalid_intent", err.Error(), ErrInvalidIntent)
	}

	var (
		nodes       []models.WorkflowNode
		connections []models.Connection
	)

	session.Do(func(b *builder.Builder) {
		nodes, connections = b.CompileIntent(intent)
	})

	session.record(events.GraphCompiled{
		BaseEvent:       events.NewBaseEvent(events.GraphCompiledEvent, id),
		NodeCount:       len(nodes),
		ConnectionCount: len(connections),
		Empty:           len(nodes) == 0,
	})

	return nodes, connections, nil
}

// Reset clears a session's progress and deletes its persisted record.
func (m *Manager) Reset(ctx context.Context, id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}

	var resetErr error

	session.Do(func(b *builder.Builder) {
		resetErr = b.Reset(ctx)
	})

	return resetErr
}

// Delete tears a session down, cancelling its pending timers.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.Do(func(b *builder.Builder) {
		b.Close()
	})

	m.logger.Info("Session deleted", "session_id", id)

	return nil
}

// Close tears down every session and the backing store.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Do(func(b *builder.Builder) {
			b.Close()
		})
	}

	if m.store == nil {
		return nil
	}

	return m.store.Close(ctx)
}

// HealthCheck reports the backing store's health.
func (m *Manager) HealthCheck(ctx context.Context) (string, bool) {
	if m.store == nil {
		return "Persistence disabled", true
	}

	if err := m.store.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}
