package performance

import (
	"sort"
	"sync"
	"time"
)

// Tracker aggregates completed markers and keeps the most recent ones
type Tracker struct {
	stats   map[string]*OperationStats
	recent  []Marker
	config  *TrackerConfig
	started time.Time
	mu      sync.RWMutex
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxRecent     int           `json:"maxRecent"`     // Completed markers retained for inspection
	SlowThreshold time.Duration `json:"slowThreshold"` // Operations slower than this count as slow
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxRecent:     100,
		SlowThreshold: 250 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if config.MaxRecent <= 0 {
		config.MaxRecent = DefaultTrackerConfig().MaxRecent
	}
	return &Tracker{
		stats:   make(map[string]*OperationStats),
		config:  config,
		started: time.Now(),
	}
}

// StartOperation creates a marker for an operation. Call Complete on it when
// the operation finishes.
func (t *Tracker) StartOperation(operation, siteID string) *Marker {
	return &Marker{
		Operation: operation,
		SiteID:    siteID,
		StartTime: time.Now(),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[m.Operation]
	if !ok {
		s = &OperationStats{Operation: m.Operation}
		t.stats[m.Operation] = s
	}
	s.Count++
	if !m.Success {
		s.Failures++
	}
	s.TotalDuration += m.Duration
	s.AverageDuration = s.TotalDuration / time.Duration(s.Count)
	if m.Duration > s.MaxDuration {
		s.MaxDuration = m.Duration
	}
	if m.Duration > t.config.SlowThreshold {
		s.SlowCount++
	}

	copied := *m
	copied.tracker = nil
	t.recent = append(t.recent, copied)
	if over := len(t.recent) - t.config.MaxRecent; over > 0 {
		t.recent = append([]Marker(nil), t.recent[over:]...)
	}
}

// Stats returns the aggregate for one operation
func (t *Tracker) Stats(operation string) (OperationStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.stats[operation]
	if !ok {
		return OperationStats{}, false
	}
	return *s, true
}

// Snapshot returns all aggregates sorted by operation name, newest markers last
func (t *Tracker) Snapshot() *PerformanceSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := &PerformanceSnapshot{
		Timestamp:     time.Now(),
		Uptime:        time.Since(t.started),
		OverallHealth: HealthUnknown,
		Operations:    make([]OperationStats, 0, len(t.stats)),
		Recent:        append([]Marker(nil), t.recent...),
	}

	total, slow := 0, 0
	for _, s := range t.stats {
		snap.Operations = append(snap.Operations, *s)
		total += s.Count
		slow += s.SlowCount
	}
	sort.Slice(snap.Operations, func(i, j int) bool {
		return snap.Operations[i].Operation < snap.Operations[j].Operation
	})

	if total > 0 {
		snap.OverallHealth = HealthHealthy
		// more than one in ten operations slow
		if slow*10 > total {
			snap.OverallHealth = HealthDegraded
		}
	}
	return snap
}
