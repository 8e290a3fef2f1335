// Package performance provides performance monitoring data structures and utilities
// for tracking editor operation timings per site.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"`       // e.g., "add_page", "save"
	SiteID    string         `json:"siteId"`          // Site the operation ran against
	StartTime time.Time      `json:"startTime"`       // When the operation started
	EndTime   time.Time      `json:"endTime"`         // When the operation completed
	Duration  time.Duration  `json:"duration"`        // Total operation duration
	Success   bool           `json:"success"`         // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"` // Error message if operation failed
	Metadata  map[string]any `json:"metadata,omitempty"`
	Completed bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and hands it to the tracker
func (m *Marker) Complete() {
	if m.Completed {
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// OperationStats aggregates the completed markers of one operation
type OperationStats struct {
	Operation       string        `json:"operation"`
	Count           int           `json:"count"`
	Failures        int           `json:"failures"`
	TotalDuration   time.Duration `json:"totalDuration"`
	AverageDuration time.Duration `json:"averageDuration"`
	MaxDuration     time.Duration `json:"maxDuration"`
	SlowCount       int           `json:"slowCount"`
}

// HealthStatus represents the overall health of the editor API
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"  // All operations performing within normal parameters
	HealthDegraded HealthStatus = "degraded" // Some operations showing performance issues
	HealthUnknown  HealthStatus = "unknown"  // Nothing measured yet
)

// PerformanceSnapshot represents a point-in-time view of operation performance
type PerformanceSnapshot struct {
	Timestamp     time.Time        `json:"timestamp"`
	Uptime        time.Duration    `json:"uptime"`
	OverallHealth HealthStatus     `json:"overallHealth"`
	Operations    []OperationStats `json:"operations"`
	Recent        []Marker         `json:"recent"`
}
