package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAggregatesOperations(t *testing.T) {
	tracker := NewTracker(nil)

	ok := tracker.StartOperation("add_page", "acme")
	ok.Complete()
	ok.Complete() // second completion ignored

	failed := tracker.StartOperation("add_page", "acme")
	failed.SetError(errors.New("boom"))
	failed.Complete()

	stats, found := tracker.Stats("add_page")
	require.True(t, found)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.Failures)
	assert.GreaterOrEqual(t, stats.MaxDuration, stats.AverageDuration)

	_, found = tracker.Stats("save")
	assert.False(t, found)
}

func TestSnapshotKeepsRecentMarkers(t *testing.T) {
	tracker := NewTracker(&TrackerConfig{MaxRecent: 2, SlowThreshold: time.Hour})
	for _, op := range []string{"save", "undo", "redo"} {
		m := tracker.StartOperation(op, "acme")
		m.AddMetadata("applied", true)
		m.Complete()
	}

	snap := tracker.Snapshot()
	assert.Equal(t, HealthHealthy, snap.OverallHealth)
	require.Len(t, snap.Recent, 2)
	assert.Equal(t, "undo", snap.Recent[0].Operation)
	assert.Equal(t, "redo", snap.Recent[1].Operation)
	require.Len(t, snap.Operations, 3)
	assert.Equal(t, "redo", snap.Operations[0].Operation)
}

func TestSnapshotHealth(t *testing.T) {
	assert.Equal(t, HealthUnknown, NewTracker(nil).Snapshot().OverallHealth)

	tracker := NewTracker(&TrackerConfig{MaxRecent: 10, SlowThreshold: -1})
	m := tracker.StartOperation("save", "acme")
	m.Complete()
	assert.Equal(t, HealthDegraded, tracker.Snapshot().OverallHealth)
}
