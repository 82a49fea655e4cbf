package persistence

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last field change and the
// actual write.
const DefaultDebounce = 400 * time.Millisecond

// SaveFailedNotice is the advisory surfaced when the remote save rejects.
// The local copy stays intact, so the failure is never fatal.
const SaveFailedNotice = "Auto-save failed. Your progress is saved locally."

// RemoteSaveFunc is the externally supplied remote save callback. It
// receives only currentStep and stepData; completed-step bookkeeping stays
// local.
type RemoteSaveFunc func(ctx context.Context, record *Record) error

// Saver debounces session writes to a local store and an optional remote
// callback. It is single-flight: scheduling a new save while one is pending
// cancels and restarts the timer instead of stacking a second write.
type Saver struct {
	mu        sync.Mutex
	store     Store
	key       string
	remote    RemoteSaveFunc
	delay     time.Duration
	logger    *slog.Logger
	timer     *time.Timer
	pending   *Record
	notice    string
	closed    bool
	onFailure func(notice string)
}

// NewSaver creates a saver. store may be nil when local persistence is
// disabled, remote may be nil when no remote target is configured.
func NewSaver(store Store, key string, remote RemoteSaveFunc, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Saver{
		store:  store,
		key:    key,
		remote: remote,
		delay:  delay,
		logger: logger.With("module", "saver"),
	}
}

// OnFailure registers a callback invoked whenever a remote save rejects.
// The callback runs on the debounce timer goroutine.
func (s *Saver) OnFailure(fn func(notice string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onFailure = fn
}

// Schedule queues a save of the given record after the debounce delay. A
// pending save is cancelled and replaced, so rapid edits coalesce into one
// write.
func (s *Saver) Schedule(record *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.pending = record

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Flush writes any pending record immediately, cancelling the timer.
func (s *Saver) Flush(ctx context.Context) {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	record := s.pending
	s.pending = nil
	s.mu.Unlock()

	if record != nil {
		s.save(ctx, record)
	}
}

// Notice returns the current advisory message, empty when the last save
// round-trip succeeded.
func (s *Saver) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notice
}

// Restore reads the persisted record. Missing or malformed data is treated
// as absent, never as an error: the builder must not crash mid-conversation
// over a stale blob.
func (s *Saver) Restore(ctx context.Context) *Record {
	if s.store == nil {
		return nil
	}

	record, err := s.store.Load(ctx, s.key)
	if err != nil {
		if !IsRecordNotFound(err) {
			s.logger.Debug("Ignoring unreadable progress record", "key", s.key, "error", err)
		}

		return nil
	}

	return record
}

// Reset deletes the persisted record. This is the only sanctioned deletion.
func (s *Saver) Reset(ctx context.Context) error {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.pending = nil
	s.notice = ""
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	return s.store.Delete(ctx, s.key)
}

// Close cancels any pending save. Required at teardown so no write lands
// after the owning session is gone.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.pending = nil
}

// fire runs on the debounce timer goroutine.
func (s *Saver) fire() {
	s.mu.Lock()

	if s.closed || s.pending == nil {
		s.mu.Unlock()

		return
	}

	record := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.save(context.Background(), record)
}

func (s *Saver) save(ctx context.Context, record *Record) {
	if s.store != nil {
		if err := s.store.Save(ctx, s.key, record); err != nil {
			s.logger.Warn("Local save failed", "key", s.key, "error", err)
		}
	}

	if s.remote == nil {
		return
	}

	// The remote target only receives the navigable state.
	remoteRecord := &Record{
		CurrentStep: record.CurrentStep,
		StepData:    record.StepData,
	}

	err := s.remote(ctx, remoteRecord)

	s.mu.Lock()
	if err != nil {
		s.notice = SaveFailedNotice
	} else {
		s.notice = ""
	}

	failed := s.onFailure
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Remote save failed, local copy retained", "key", s.key, "error", err)

		if failed != nil {
			failed(SaveFailedNotice)
		}
	}
}
