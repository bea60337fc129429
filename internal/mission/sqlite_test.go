package mission

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuevoser/internal/model"
)

func openTestStore(t *testing.T, historyCap int) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "missions.db"), historyCap, log.New(os.Stderr, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := sampleMission("m1", now)
	m.Breakdown = model.ProbabilityBreakdown{
		Ratio:        1.3,
		Base:         0.64,
		Synergies:    []string{"fearless_deed"},
		SynergyBonus: 0.20,
		Final:        0.84,
	}
	require.NoError(t, s.PutActive(ctx, "u1", m))

	got, ok, err := s.GetActive(ctx, "u1", "m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Probability, got.Probability)
	assert.Equal(t, m.Breakdown, got.Breakdown)
	assert.True(t, m.EndsAt.Equal(got.EndsAt))

	_, ok, err = s.GetActive(ctx, "u1", "m_nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ms, err := s.Active(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ms, 1)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, users)
}

func TestSQLiteStore_ArchiveTransaction(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", now)))

	ok, err := s.Archive(ctx, "u1", "m1", sampleEntry("m1"), 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Archive(ctx, "u1", "m1", sampleEntry("m1"), 4)
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
	assert.Equal(t, 3, streak)
}

func TestSQLiteStore_HistoryCapAndOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 3)
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
	assert.Equal(t, model.MissionID("m5"), h[0].MissionID)
	assert.Equal(t, model.MissionID("m3"), h[2].MissionID)
}

func TestSQLiteStore_SkipsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 100)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", now)))
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_missions (user_id, mission_id, ends_at, payload) VALUES (?, ?, ?, ?)`,
		"u1", "m_bad", now.Unix(), "{not json")
	require.NoError(t, err)

	// One corrupt row must not block the scan.
	ms, err := s.Active(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, model.MissionID("m1"), ms[0].ID)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missions.db")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := OpenSQLite(path, 100, nil)
	require.NoError(t, err)
	require.NoError(t, s.PutActive(ctx, "u1", sampleMission("m1", now)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path, 100, nil)
	require.NoError(t, err)
	defer reopened.Close()

	ms, err := reopened.Active(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, model.MissionID("m1"), ms[0].ID)
}
