package mission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuevoser/internal/model"
)

func sampleMission(id string, startedAt time.Time) model.Mission {
	return model.Mission{
		ID:          model.MissionID(id),
		UserID:      "u1",
		CrisisID:    "c_river_cleanup",
		CrisisType:  model.CrisisEcological,
		CrisisScale: model.ScaleLocal,
		BeingIDs:    []model.BeingID{"b_kenji"},
		Probability: 0.64,
		StartedAt:   startedAt,
		EndsAt:      startedAt.Add(30 * time.Minute),
		DurationMin: 30,
		Outcome:     model.OutcomeUnresolved,
		BaseRewards: model.Rewards{XP: 40, Consciousness: 10},
	}
}

func sampleEntry(id string) model.HistoryEntry {
	return model.HistoryEntry{
		MissionID:  model.MissionID(id),
		CrisisID:   "c_river_cleanup",
		CrisisType: model.CrisisEcological,
		Outcome:    model.OutcomeSuccess,
		Rewards:    model.Rewards{XP: 120},
		BeingIDs:   []model.BeingID{"b_kenji"},
		ResolvedAt: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_ActiveOrderedByStart(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(100)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m2", base.Add(time.Minute))))
	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", base)))

	ms, err := s.Active(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, model.MissionID("m1"), ms[0].ID)
	assert.Equal(t, model.MissionID("m2"), ms[1].ID)

	m, ok, err := s.GetActive(ctx, "u1", "m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.MissionID("m1"), m.ID)

	_, ok, err = s.GetActive(ctx, "u1", "m_nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ArchiveIsAtomicAndIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", now)))

	ok, err := s.Archive(ctx, "u1", "m1", sampleEntry("m1"), 1)
	require.NoError(t, err)
	require.True(t, ok)

	// Second archive of the same id reports no-op.
	ok, err = s.Archive(ctx, "u1", "m1", sampleEntry("m1"), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ms, err := s.Active(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ms)

	h, err := s.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, model.MissionID("m1"), h[0].MissionID)

	streak, err := s.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestMemoryStore_HistoryCapKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("m%d", i)
		require.NoError(t, s.PutActive(ctx, "u1", sampleMission(id, now)))
		ok, err := s.Archive(ctx, "u1", model.MissionID(id), sampleEntry(id), i)
		require.NoError(t, err)
		require.True(t, ok)
	}

	h, err := s.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, h, 3)
	// Newest first, oldest trimmed.
	assert.Equal(t, model.MissionID("m5"), h[0].MissionID)
	assert.Equal(t, model.MissionID("m4"), h[1].MissionID)
	assert.Equal(t, model.MissionID("m3"), h[2].MissionID)
}

func TestMemoryStore_Discard(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", now)))

	ok, err := s.Discard(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Discard(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Discard leaves no history behind.
	h, err := s.History(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestMemoryStore_UsersSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u_b", sampleMission("m1", now)))
	require.NoError(t, s.PutActive(ctx, "u_a", sampleMission("m2", now)))

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u_a", "u_b"}, users)
}
