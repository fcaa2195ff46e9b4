package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(&fakeBackend{}, time.Minute)

	id, sess := st.Create()
	require.NotEmpty(t, id)

	got, ok := st.Get(id)
	require.True(t, ok)
	assert.Same(t, sess, got)

	assert.True(t, st.Delete(id))
	assert.False(t, st.Delete(id))
	_, ok = st.Get(id)
	assert.False(t, ok)
}

func TestStorePrune(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(&fakeBackend{}, 10*time.Minute)
	st.now = func() time.Time { return now }

	oldID, _ := st.Create()
	now = now.Add(8 * time.Minute)
	freshID, _ := st.Create()
	now = now.Add(5 * time.Minute)

	assert.Equal(t, 1, st.Prune())
	_, ok := st.Get(oldID)
	assert.False(t, ok)
	_, ok = st.Get(freshID)
	assert.True(t, ok)
	assert.Equal(t, 1, st.Len())
}
