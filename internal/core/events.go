package core

import (
	"github.com/google/uuid"

	"github.com/lumipallolabs/diskscope/internal/model"
	"github.com/lumipallolabs/diskscope/internal/scanner"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan begins
type ScanStartedEvent struct {
	Session uuid.UUID
	Path    string
}

func (ScanStartedEvent) isEvent() {}

// ScanProgressEvent carries one throttled progress snapshot
type ScanProgressEvent struct {
	Progress scanner.Progress
}

func (ScanProgressEvent) isEvent() {}

// ScanCompletedEvent is emitted when a scan finishes, with either the
// final tree or the failure that ended it
type ScanCompletedEvent struct {
	Session uuid.UUID
	Root    *model.DiskItem
	Err     error
}

func (ScanCompletedEvent) isEvent() {}
