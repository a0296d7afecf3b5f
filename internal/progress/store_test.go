package progress

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/learnkeeper/internal/logging"
	"github.com/dmitrijs2005/learnkeeper/internal/storage"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestAdapter() *storage.Adapter {
	return storage.NewAdapter(storage.NewMemoryBackend(0), nil, logging.Discard())
}

func newTestStore(t *testing.T, st Storage, userID string, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewStore(context.Background(), st, userID, logging.Discard(), opts...), clock
}

func TestStore_AnonymousScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "")

	assert.Equal(t, storage.AnonymousUserID, s.UserID())

	m := s.Module(1)
	assert.Equal(t, 1, m.ModuleID)
	assert.Equal(t, 0, m.ProgressPercentage)
	assert.False(t, m.PermanentlyCompleted)

	_, err := s.UpdateAudioProgress(ctx, 1, 45)
	require.NoError(t, err)
	assert.Equal(t, 45, s.Module(1).ProgressPercentage)

	_, err = s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)
	assert.True(t, s.Module(1).PermanentlyCompleted)

	_, err = s.UpdateAudioProgress(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Module(1).ProgressPercentage)
}

func TestStore_Clamping(t *testing.T) {
	ctx := context.Background()
	for _, p := range []int{-1000, -1, 0, 1, 50, 99, 100, 101, 1 << 30} {
		s, _ := newTestStore(t, newTestAdapter(), "u1")
		rec, err := s.UpdateAudioProgress(ctx, 2, p)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, rec.AudioProgress, 0, "p=%d", p)
		assert.LessOrEqual(t, rec.AudioProgress, 100, "p=%d", p)
		assert.Equal(t, rec.AudioProgress, rec.ProgressPercentage)
		assert.Equal(t, rec.AudioProgress >= 100, rec.AudioCompleted)
		assert.Equal(t, rec, s.Module(2))
	}
}

func TestStore_RatchetMonotonic(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")

	_, err := s.UpdateAudioProgress(ctx, 3, 120)
	require.NoError(t, err)
	require.True(t, s.Module(3).PermanentlyCompleted)

	for _, p := range []int{0, 10, 99, -5, 50} {
		_, err := s.UpdateAudioProgress(ctx, 3, p)
		require.NoError(t, err)
		assert.Equal(t, 100, s.Module(3).ProgressPercentage)
		assert.True(t, s.Module(3).PermanentlyCompleted)
	}

	require.NoError(t, s.Reset(ctx, 3))
	assert.False(t, s.Module(3).PermanentlyCompleted)

	_, err = s.UpdateAudioProgress(ctx, 3, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Module(3).ProgressPercentage)
}

func TestStore_RatchetNoOpKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t, newTestAdapter(), "u1")

	done, err := s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	got, err := s.UpdateAudioProgress(ctx, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, done, got)
}

func TestStore_MarkCompletedIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")

	once, err := s.MarkAudioCompleted(ctx, 4)
	require.NoError(t, err)
	twice, err := s.MarkAudioCompleted(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, ModuleProgress{
		ModuleID: 4, AudioProgress: 100, ProgressPercentage: 100,
		AudioCompleted: true, PermanentlyCompleted: true, LastAccessed: once.LastAccessed,
	}, twice)
}

func TestStore_UnknownModule(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")

	for _, id := range []int{0, -1, 6, 100} {
		_, err := s.UpdateAudioProgress(ctx, id, 50)
		assert.ErrorIs(t, err, ErrUnknownModule)
		_, err = s.MarkAudioCompleted(ctx, id)
		assert.ErrorIs(t, err, ErrUnknownModule)
		assert.ErrorIs(t, s.Reset(ctx, id), ErrUnknownModule)

		// reads never fail
		assert.Equal(t, ModuleProgress{ModuleID: id}, s.Module(id))
	}
	assert.Len(t, s.Snapshot(), 5)
}

func TestStore_Overall(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")
	assert.Equal(t, 0, s.Overall())

	_, err := s.UpdateAudioProgress(ctx, 5, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Overall())

	// 100+50+2 = 152 / 5 = 30.4
	_, err = s.UpdateAudioProgress(ctx, 1, 50)
	require.NoError(t, err)
	_, err = s.UpdateAudioProgress(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Overall())

	// 152+1 = 153 / 5 = 30.6
	_, err = s.UpdateAudioProgress(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 31, s.Overall())
}

func TestStore_OverallRoundsHalfUp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1", WithCatalog(NewCatalog(2)))

	_, err := s.UpdateAudioProgress(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Overall()) // 0.5
}

func TestStore_LastAccessed(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t, newTestAdapter(), "u1")

	_, ok := s.LastAccessed()
	assert.False(t, ok, "fresh modules were never accessed")

	_, err := s.UpdateAudioProgress(ctx, 2, 10)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = s.UpdateAudioProgress(ctx, 4, 10)
	require.NoError(t, err)

	last, ok := s.LastAccessed()
	require.True(t, ok)
	assert.Equal(t, 4, last.ModuleID)

	clock.Advance(time.Second)
	_, err = s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)
	last, _ = s.LastAccessed()
	assert.Equal(t, 1, last.ModuleID)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")

	_, err := s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)
	_, err = s.UpdateAudioProgress(ctx, 2, 70)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, 1))

	rec := s.Module(1)
	assert.Equal(t, 0, rec.ProgressPercentage)
	assert.False(t, rec.AudioCompleted)
	assert.False(t, rec.PermanentlyCompleted)
	assert.Equal(t, 70, s.Module(2).ProgressPercentage)
}

func TestStore_ResetAll(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	s, _ := newTestStore(t, st, "u1")

	_, err := s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)
	_, ok := st.Read(ctx, storage.ProgressKey("u1"))
	require.True(t, ok)

	s.ResetAll(ctx)

	for id := 1; id <= 5; id++ {
		assert.Equal(t, ModuleProgress{ModuleID: id}, s.Module(id))
	}
	_, ok = st.Read(ctx, storage.ProgressKey("u1"))
	assert.False(t, ok)
}

func TestStore_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	s, _ := newTestStore(t, st, "u1")

	_, err := s.UpdateAudioProgress(ctx, 2, 33)
	require.NoError(t, err)
	_, err = s.MarkAudioCompleted(ctx, 5)
	require.NoError(t, err)

	reloaded, _ := newTestStore(t, st, "u1")
	if diff := cmp.Diff(s.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Errorf("reloaded set mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	s, _ := newTestStore(t, st, "u1")

	_, err := s.UpdateAudioProgress(ctx, 2, 33)
	require.NoError(t, err)

	raw, ok := st.Read(ctx, "progress:u1")
	require.True(t, ok)

	var stored map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 5)
	assert.Equal(t, float64(2), stored["2"]["moduleId"])
	assert.Equal(t, float64(33), stored["2"]["audioProgress"])
	assert.Equal(t, float64(33), stored["2"]["progressPercentage"])
	assert.Equal(t, false, stored["2"]["permanentlyCompleted"])
	assert.Equal(t, "2024-05-01T09:00:00Z", stored["2"]["lastAccessed"])
}

func TestStore_ScopeIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	s, _ := newTestStore(t, st, "")

	_, err := s.UpdateAudioProgress(ctx, 1, 20)
	require.NoError(t, err)

	s.Scope(ctx, "u1")
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, 0, s.Module(1).ProgressPercentage)
	_, err = s.UpdateAudioProgress(ctx, 1, 80)
	require.NoError(t, err)

	s.Scope(ctx, "u2")
	assert.Equal(t, 0, s.Module(1).ProgressPercentage)

	s.Scope(ctx, "")
	assert.Equal(t, 20, s.Module(1).ProgressPercentage)

	s.Scope(ctx, "u1")
	assert.Equal(t, 80, s.Module(1).ProgressPercentage)
}

func TestStore_LoadCoercesAndBackfills(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	st.Write(ctx, storage.ProgressKey("u1"), map[string]any{
		"1": map[string]any{"moduleId": 9, "audioProgress": 140, "progressPercentage": "55", "audioCompleted": "yes", "permanentlyCompleted": true, "lastAccessed": "2024-01-02T03:04:05Z"},
		"2": map[string]any{"audioProgress": -3, "progressPercentage": 12.6, "lastAccessed": "garbage"},
		"3": "not an object",
		"9": map[string]any{"audioProgress": 50},
	})

	s, clock := newTestStore(t, st, "u1")

	assert.Equal(t, ModuleProgress{
		ModuleID: 1, AudioProgress: 100, ProgressPercentage: 55,
		AudioCompleted: false, PermanentlyCompleted: true,
		LastAccessed: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}, s.Module(1))
	assert.Equal(t, ModuleProgress{
		ModuleID: 2, AudioProgress: 0, ProgressPercentage: 13, LastAccessed: clock.Now(),
	}, s.Module(2))
	assert.Equal(t, ModuleProgress{ModuleID: 3}, s.Module(3))

	snap := s.Snapshot()
	assert.Len(t, snap, 5)
	assert.NotContains(t, snap, 9)
}

func TestStore_LoadCorruptPayloadIsCleared(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	st.Write(ctx, storage.ProgressKey("u1"), []int{1, 2, 3})

	s, _ := newTestStore(t, st, "u1")

	assert.Len(t, s.Snapshot(), 5)
	assert.Equal(t, 0, s.Overall())
	_, ok := st.Read(ctx, storage.ProgressKey("u1"))
	assert.False(t, ok)
}

func TestStore_FallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	primary := storage.NewMemoryBackend(0)
	mirror := storage.NewMemoryBackend(0)
	st := storage.NewAdapter(primary, mirror, logging.Discard())

	s, _ := newTestStore(t, st, "u1")
	_, err := s.UpdateAudioProgress(ctx, 1, 64)
	require.NoError(t, err)

	require.NoError(t, primary.Delete(ctx, storage.ProgressKey("u1")))

	reloaded, _ := newTestStore(t, st, "u1")
	assert.Equal(t, 64, reloaded.Module(1).ProgressPercentage)
}

func TestStore_ConcurrentUpdatesKeepRatchet(t *testing.T) {
	ctx := context.Background()
	st := newTestAdapter()
	s, _ := newTestStore(t, st, "u1")

	_, err := s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			_, _ = s.UpdateAudioProgress(ctx, 1, p)
			_, _ = s.UpdateAudioProgress(ctx, 2, p)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Module(1).ProgressPercentage)

	reloaded, _ := newTestStore(t, st, "u1")
	if diff := cmp.Diff(s.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Errorf("persisted set lags memory (-want +got):\n%s", diff)
	}
}

func TestStore_NextIncomplete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newTestAdapter(), "u1")

	next, ok := s.NextIncomplete(1)
	require.True(t, ok)
	assert.Equal(t, 2, next)

	next, ok = s.NextIncomplete(0)
	require.True(t, ok)
	assert.Equal(t, 1, next, "no current module starts at the beginning")

	for _, id := range []int{2, 3, 5} {
		_, err := s.MarkAudioCompleted(ctx, id)
		require.NoError(t, err)
	}

	next, ok = s.NextIncomplete(1)
	require.True(t, ok)
	assert.Equal(t, 4, next)

	next, ok = s.NextIncomplete(4)
	require.True(t, ok)
	assert.Equal(t, 1, next, "wraps around")

	_, err := s.MarkAudioCompleted(ctx, 1)
	require.NoError(t, err)
	_, ok = s.NextIncomplete(4)
	assert.False(t, ok, "only the current module is left")

	_, err = s.MarkAudioCompleted(ctx, 4)
	require.NoError(t, err)
	_, ok = s.NextIncomplete(0)
	assert.False(t, ok)
}
