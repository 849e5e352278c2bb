package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/scorediff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	store := New()
	now := time.Now()

	store.Set("b", &models.DiffSession{ID: "b", CreatedAt: now})
	store.Set("a", &models.DiffSession{ID: "a", CreatedAt: now.Add(-time.Minute)})
	store.Set("c", &models.DiffSession{ID: "c", CreatedAt: now})

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)

	var ids []string
	for _, s := range store.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))
	_, ok = store.Get("a")
	assert.False(t, ok)
	assert.Len(t, store.List(), 2)
}

func TestSessionStoreConcurrent(t *testing.T) {
	store := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			store.Set(id, &models.DiffSession{ID: id})
			store.List()
		}()
	}
	wg.Wait()
	assert.Len(t, store.List(), 50)
}
