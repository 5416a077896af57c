package utils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshers-portal/backend/models"
)

type countingRosterStore struct {
	mu     sync.Mutex
	calls  int
	roster []models.Profecer
	err    error
}

func (s *countingRosterStore) ListProfecers(ctx context.Context) ([]models.Profecer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roster, nil
}

func (s *countingRosterStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testRoster() []models.Profecer {
	return []models.Profecer{
		{Name: "Dr. Rao", Role: "HOD", Imgsrc: "/images/rao.jpg"},
		{Name: "Dr. Iyer", Role: "Coordinator", Imgsrc: "/images/iyer.jpg"},
	}
}

func TestRosterCacheFillsOnce(t *testing.T) {
	store := &countingRosterStore{roster: testRoster()}
	cache := NewRosterCache(store, 0)

	for i := 0; i < 3; i++ {
		roster, err := cache.Get(context.Background())
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	}

	assert.Equal(t, 1, store.callCount())
}

func TestRosterCacheBust(t *testing.T) {
	store := &countingRosterStore{roster: testRoster()}
	cache := NewRosterCache(store, 0)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	cache.Bust()

	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.callCount())
}

func TestRosterCacheTTLExpiry(t *testing.T) {
	store := &countingRosterStore{roster: testRoster()}
	cache := NewRosterCache(store, 20*time.Millisecond)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	// Still fresh inside the window
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.callCount())

	time.Sleep(30 * time.Millisecond)

	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.callCount())
}

func TestRosterCacheStoreError(t *testing.T) {
	store := &countingRosterStore{err: errors.New("mongo down")}
	cache := NewRosterCache(store, 0)

	_, err := cache.Get(context.Background())
	assert.Error(t, err)

	// An error never poisons the cache with an empty roster
	store.mu.Lock()
	store.err = nil
	store.roster = testRoster()
	store.mu.Unlock()

	roster, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}
