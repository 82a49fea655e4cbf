package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*Record)}
}

func (m *memoryStore) Save(_ context.Context, key string, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = record
	m.saves++

	return nil
}

func (m *memoryStore) Load(_ context.Context, key string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return record, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)

	return nil
}

func (m *memoryStore) HealthCheck(_ context.Context) error { return nil }
func (m *memoryStore) Close(_ context.Context) error       { return nil }

func (m *memoryStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

func TestSaver_RapidEditsCoalesceIntoOneWrite(t *testing.T) {
	store := newMemoryStore()
	saver := NewSaver(store, ProgressKey, nil, 20*time.Millisecond, nil)

	defer saver.Close()

	for i := 1; i <= 5; i++ {
		saver.Schedule(&Record{CurrentStep: i})
	}

	assert.Eventually(t, func() bool {
		return store.saveCount() == 1
	}, time.Second, 5*time.Millisecond)

	record, err := store.Load(context.Background(), ProgressKey)
	require.NoError(t, err)
	assert.Equal(t, 5, record.CurrentStep, "the last scheduled record wins")

	// No stacked second write fires afterwards.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}

func TestSaver_FlushWritesImmediately(t *testing.T) {
	store := newMemoryStore()
	saver := NewSaver(store, ProgressKey, nil, time.Hour, nil)

	defer saver.Close()

	saver.Schedule(&Record{CurrentStep: 2})
	saver.Flush(context.Background())

	assert.Equal(t, 1, store.saveCount())
}

func TestSaver_CloseCancelsPendingSave(t *testing.T) {
	store := newMemoryStore()
	saver := NewSaver(store, ProgressKey, nil, 20*time.Millisecond, nil)

	saver.Schedule(&Record{CurrentStep: 2})
	saver.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount(), "no write may land after teardown")
}

func TestSaver_RemoteFailureIsNonFatal(t *testing.T) {
	store := newMemoryStore()
	remote := func(_ context.Context, _ *Record) error {
		return errors.New("upstream rejected")
	}
	saver := NewSaver(store, ProgressKey, remote, time.Hour, nil)

	defer saver.Close()

	saver.Schedule(&Record{CurrentStep: 3})
	saver.Flush(context.Background())

	assert.Equal(t, SaveFailedNotice, saver.Notice())

	// The local copy survives the remote rejection.
	record, err := store.Load(context.Background(), ProgressKey)
	require.NoError(t, err)
	assert.Equal(t, 3, record.CurrentStep)
}

func TestSaver_OnFailureFiresPerRejectedSave(t *testing.T) {
	remote := func(_ context.Context, _ *Record) error {
		return errors.New("upstream rejected")
	}
	saver := NewSaver(newMemoryStore(), ProgressKey, remote, time.Hour, nil)

	defer saver.Close()

	var notices []string

	saver.OnFailure(func(notice string) { notices = append(notices, notice) })

	saver.Schedule(&Record{CurrentStep: 1})
	saver.Flush(context.Background())

	require.Len(t, notices, 1)
	assert.Equal(t, SaveFailedNotice, notices[0])
}

func TestSaver_NoticeClearsAfterSuccessfulSave(t *testing.T) {
	fail := true
	remote := func(_ context.Context, _ *Record) error {
		if fail {
			return errors.New("upstream rejected")
		}

		return nil
	}
	saver := NewSaver(newMemoryStore(), ProgressKey, remote, time.Hour, nil)

	defer saver.Close()

	saver.Schedule(&Record{CurrentStep: 1})
	saver.Flush(context.Background())
	require.Equal(t, SaveFailedNotice, saver.Notice())

	fail = false

	saver.Schedule(&Record{CurrentStep: 2})
	saver.Flush(context.Background())
	assert.Empty(t, saver.Notice())
}

func TestSaver_RemoteReceivesOnlyNavigableState(t *testing.T) {
	var received *Record

	remote := func(_ context.Context, record *Record) error {
		received = record

		return nil
	}
	saver := NewSaver(nil, ProgressKey, remote, time.Hour, nil)

	defer saver.Close()

	saver.Schedule(&Record{
		CurrentStep:    2,
		StepData:       map[string]models.FormValues{"basics": {"name": "Ana"}},
		CompletedSteps: []string{"basics"},
	})
	saver.Flush(context.Background())

	require.NotNil(t, received)
	assert.Equal(t, 2, received.CurrentStep)
	assert.NotEmpty(t, received.StepData)
	assert.Empty(t, received.CompletedSteps)
}

func TestSaver_RestoreMissingRecord(t *testing.T) {
	saver := NewSaver(newMemoryStore(), ProgressKey, nil, time.Hour, nil)

	defer saver.Close()

	assert.Nil(t, saver.Restore(context.Background()))
}

func TestSaver_RestoreWithoutStore(t *testing.T) {
	saver := NewSaver(nil, ProgressKey, nil, time.Hour, nil)

	defer saver.Close()

	assert.Nil(t, saver.Restore(context.Background()))
}

func TestSaver_ResetDeletesRecord(t *testing.T) {
	store := newMemoryStore()
	saver := NewSaver(store, ProgressKey, nil, time.Hour, nil)

	defer saver.Close()

	saver.Schedule(&Record{CurrentStep: 2})
	saver.Flush(context.Background())

	require.NoError(t, saver.Reset(context.Background()))

	_, err := store.Load(context.Background(), ProgressKey)
	assert.True(t, IsRecordNotFound(err))
}
