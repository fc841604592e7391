package achievement_test

import (
	"testing"
	"time"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVisitsStreakDrivesVeteran(t *testing.T) {
	s := newStore(t)
	tr := newTracker(t, s)
	v, err := achievement.NewVisits(s, tr, zap.NewNop())
	require.NoError(t, err)

	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		assert.Equal(t, i+1, v.Record(day.AddDate(0, 0, i)))
	}
	// Same day twice does not extend the run.
	assert.Equal(t, 3, v.Record(day.AddDate(0, 0, 2).Add(5*time.Hour)))
	assert.Equal(t, 3, v.Count())

	p, _ := tr.Progress(achievement.Veteran)
	assert.Equal(t, 3, p.Current)

	// A gap restarts the run, but the counter keeps its best value.
	assert.Equal(t, 1, v.Record(day.AddDate(0, 0, 10)))
	p, _ = tr.Progress(achievement.Veteran)
	assert.Equal(t, 3, p.Current)
}

func TestVisitsPersist(t *testing.T) {
	s := newStore(t)
	v, err := achievement.NewVisits(s, nil, nil)
	require.NoError(t, err)
	v.Record(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	v.Record(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	var keys []string
	ok, err := s.LoadJSON(achievement.VisitsKey, &keys)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, keys)

	again, err := achievement.NewVisits(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Count())
}

func TestVisitsUnlockVeteranAt100(t *testing.T) {
	s := newStore(t)
	tr := newTracker(t, s)
	v, err := achievement.NewVisits(s, tr, nil)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		v.Record(start.AddDate(0, 0, i))
	}
	assert.True(t, tr.IsUnlocked(achievement.Veteran))
}
