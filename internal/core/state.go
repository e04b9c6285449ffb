package core

import "time"

// ScanPhase represents the current phase of scanning
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseScanning
	PhaseComplete
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning files"
	case PhaseComplete:
		return "Complete"
	default:
		return ""
	}
}

// ScanState holds the current scan state
type ScanState struct {
	Phase          ScanPhase
	Path           string
	StartTime      time.Time
	ProcessedItems int64
	TotalItems     int64
	Percent        float64
}

// IsScanning returns true if a scan is in progress
func (s ScanState) IsScanning() bool {
	return s.Phase == PhaseScanning
}

// Elapsed returns time since scan started
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}
