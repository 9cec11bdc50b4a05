package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/domain"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func TestBuildNameMap_NormalizesKeys(t *testing.T) {
	m := BuildNameMap([]domain.ResidentName{
		{ID: "R001", Name: "山田 太郎"},
		{ID: "R002", Name: "ﾀﾅｶ ﾊﾅｺ"},
	}, time.Time{})

	id, ok := m.Lookup("山田太郎")
	require.True(t, ok)
	assert.Equal(t, "R001", id)

	id, ok = m.Lookup("タナカハナコ")
	require.True(t, ok)
	assert.Equal(t, "R002", id)

	_, ok = m.Lookup("山田 太郎")
	assert.False(t, ok, "lookup keys must already be normalized")
}

func TestBuildNameMap_AmbiguousKeyExcluded(t *testing.T) {
	m := BuildNameMap([]domain.ResidentName{
		{ID: "R001", Name: "佐藤 一郎"},
		{ID: "R002", Name: "佐藤　一郎"},
		{ID: "R003", Name: "佐藤一郎"},
		{ID: "R004", Name: "鈴木 次郎"},
	}, time.Time{})

	_, ok := m.Lookup("佐藤一郎")
	assert.False(t, ok)
	assert.Equal(t, []string{"R001", "R002", "R003"}, m.Ambiguous()["佐藤一郎"])
	assert.Equal(t, 1, m.Len())
}

func TestBuildNameMap_SameResidentTwiceIsNotAmbiguous(t *testing.T) {
	m := BuildNameMap([]domain.ResidentName{
		{ID: "R001", Name: "佐藤 一郎"},
		{ID: "R001", Name: "佐藤一郎"},
	}, time.Time{})

	id, ok := m.Lookup("佐藤一郎")
	require.True(t, ok)
	assert.Equal(t, "R001", id)
	assert.Empty(t, m.Ambiguous())
}

func TestNameMapResolver_CachesWithinTTL(t *testing.T) {
	clock := newClock()
	roster := &fakeRoster{roster: []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}}}
	r := NewNameMapResolver(roster, clock.Now, time.Minute, zap.NewNop())

	_, err := r.Resolve(context.Background())
	require.NoError(t, err)
	clock.Advance(59 * time.Second)
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&roster.calls))

	clock.Advance(time.Second)
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&roster.calls))
}

func TestNameMapResolver_PicksUpRosterChangesAfterExpiry(t *testing.T) {
	clock := newClock()
	roster := &fakeRoster{}
	r := NewNameMapResolver(roster, clock.Now, DefaultNameMapTTL, zap.NewNop())

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	_, ok := m.Lookup("山田太郎")
	assert.False(t, ok)

	roster.roster = []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}}
	m, _ = r.Resolve(context.Background())
	_, ok = m.Lookup("山田太郎")
	assert.False(t, ok, "stale within TTL")

	clock.Advance(DefaultNameMapTTL)
	m, _ = r.Resolve(context.Background())
	_, ok = m.Lookup("山田太郎")
	assert.True(t, ok)
}

func TestNameMapResolver_InvalidateForcesReload(t *testing.T) {
	roster := &fakeRoster{}
	r := NewNameMapResolver(roster, newClock().Now, time.Hour, zap.NewNop())

	_, _ = r.Resolve(context.Background())
	r.Invalidate()
	_, _ = r.Resolve(context.Background())
	assert.EqualValues(t, 2, atomic.LoadInt32(&roster.calls))
}

func TestNameMapResolver_LoadFailureIsNotCached(t *testing.T) {
	roster := &fakeRoster{err: errors.New("connection reset")}
	r := NewNameMapResolver(roster, newClock().Now, time.Hour, zap.NewNop())

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameMapLoad)

	roster.err = nil
	roster.roster = []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}}
	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestNameMapResolver_ConcurrentResolve(t *testing.T) {
	roster := &fakeRoster{
		roster: []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}},
		delay:  20 * time.Millisecond,
	}
	r := NewNameMapResolver(roster, newClock().Now, time.Hour, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Resolve(context.Background())
			assert.NoError(t, err)
			id, ok := m.Lookup("山田太郎")
			assert.True(t, ok)
			assert.Equal(t, "R001", id)
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, atomic.LoadInt32(&roster.calls), int32(1))
}

func TestNameMapResolver_CancelledCallerDoesNotFailSharedReload(t *testing.T) {
	roster := &fakeRoster{
		roster: []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}},
		delay:  100 * time.Millisecond,
	}
	r := NewNameMapResolver(roster, newClock().Now, time.Hour, zap.NewNop())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctxA)
		errA <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&roster.calls) == 1 },
		time.Second, time.Millisecond)

	type result struct {
		m   *NameMap
		err error
	}
	resB := make(chan result, 1)
	go func() {
		m, err := r.Resolve(context.Background())
		resB <- result{m, err}
	}()
	time.Sleep(10 * time.Millisecond)
	cancelA()

	err := <-errA
	assert.ErrorIs(t, err, ErrNameMapLoad)
	assert.ErrorIs(t, err, context.Canceled)

	b := <-resB
	require.NoError(t, b.err)
	id, ok := b.m.Lookup("山田太郎")
	assert.True(t, ok)
	assert.Equal(t, "R001", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&roster.calls))
}

func TestNameMapResolver_CancelledCallerStillPopulatesCache(t *testing.T) {
	roster := &fakeRoster{
		roster: []domain.ResidentName{{ID: "R001", Name: "山田 太郎"}},
		delay:  50 * time.Millisecond,
	}
	r := NewNameMapResolver(roster, newClock().Now, time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := r.Resolve(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// 后台读取完成后命中缓存，不再读名册
	require.Eventually(t, func() bool {
		m, err := r.Resolve(context.Background())
		return err == nil && m.Len() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&roster.calls))
}
