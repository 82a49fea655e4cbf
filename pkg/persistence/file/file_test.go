package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	record := &persistence.Record{
		CurrentStep: 2,
		StepData: map[string]models.FormValues{
			"basics":  {"name": "Ana"},
			"contact": {"email": "ana@example.com", "notify": true},
		},
		CompletedSteps: []string{"basics"},
	}

	require.NoError(t, store.Save(ctx, persistence.ProgressKey, record))

	loaded, err := store.Load(ctx, persistence.ProgressKey)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestStore_LoadMissingKey(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load(context.Background(), persistence.ProgressKey)
	assert.True(t, persistence.IsRecordNotFound(err))
}

func TestStore_LoadMalformedRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	err := os.WriteFile(filepath.Join(dir, persistence.ProgressKey+".json"), []byte("{not json"), 0o644)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), persistence.ProgressKey)
	require.Error(t, err)
	assert.False(t, persistence.IsRecordNotFound(err))
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, persistence.ProgressKey, &persistence.Record{CurrentStep: 1}))
	require.NoError(t, store.Delete(ctx, persistence.ProgressKey))

	_, err := store.Load(ctx, persistence.ProgressKey)
	assert.True(t, persistence.IsRecordNotFound(err))

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, persistence.ProgressKey))
}

func TestStore_KeyWithSessionSuffix(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	key := persistence.ProgressKey + ":abc123"
	require.NoError(t, store.Save(ctx, key, &persistence.Record{CurrentStep: 3}))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.CurrentStep)
}

func TestStore_FileURLPrefixStripped(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("file://" + dir)

	require.NoError(t, store.Save(context.Background(), "k", &persistence.Record{CurrentStep: 1}))
	assert.NoError(t, store.HealthCheck(context.Background()))
}
