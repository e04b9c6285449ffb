package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lumipallolabs/diskscope/internal/logging"
	"github.com/lumipallolabs/diskscope/internal/model"
	"github.com/lumipallolabs/diskscope/internal/scanner"
)

// Controller is the boundary surface of the scanning subsystem. It owns
// the single-flight coordinator, relays session-tagged progress into the
// event stream, and keeps a snapshot of the current scan state for
// presentation layers.
type Controller struct {
	mu sync.RWMutex

	coord   Coordinator
	scanner scanner.Scanner

	scan ScanState
	root *model.DiskItem

	eventCh chan Event
}

// NewController creates a controller with the default parallel walker.
func NewController() *Controller {
	return &Controller{
		scanner: scanner.NewWalker(8),
		eventCh: make(chan Event, 100),
	}
}

// Events returns the controller's event stream.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Root returns the tree from the most recent completed scan.
func (c *Controller) Root() *model.DiskItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// ScanState returns a snapshot of the current scan state.
func (c *Controller) ScanState() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// DriveInfo enumerates mounted volumes. Safe to call at any time,
// including while a scan is running.
func (c *Controller) DriveInfo() ([]model.Drive, error) {
	return model.ListDrives()
}

// ScanDirectory scans path down to depth levels and returns the tree.
// Synchronous from the caller's view. Issuing a new scan while one is in
// flight retires the old session: its caller gets ErrSuperseded and its
// partial tree is discarded entirely.
func (c *Controller) ScanDirectory(ctx context.Context, path string, depth int, opts scanner.ScanOptions) (*model.DiskItem, error) {
	estimate := scanner.EstimateItems(path, depth)
	session, sctx := c.coord.Begin(ctx, estimate)
	rep := session.Reporter()

	logging.Debug.Printf("scan %s starting: path=%s depth=%d fast=%v", session.ID(), path, depth, opts.FastMode)

	c.mu.Lock()
	c.scan = ScanState{
		Phase:      PhaseScanning,
		Path:       path,
		StartTime:  time.Now(),
		TotalItems: estimate,
	}
	c.mu.Unlock()

	c.emit(ScanStartedEvent{Session: session.ID(), Path: path})

	// Relay progress for as long as this session stays authoritative;
	// late events from a retired session are dropped here.
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		for p := range rep.Events() {
			if !c.coord.IsCurrentID(p.Session) {
				continue
			}
			c.mu.Lock()
			c.scan.ProcessedItems = p.ProcessedItems
			c.scan.TotalItems = p.TotalItems
			c.scan.Percent = p.Percent
			c.mu.Unlock()
			if p.Percent >= 100 {
				// Terminal snapshot: must reach the stream
				c.emitFinal(ScanProgressEvent{Progress: p})
			} else {
				c.emit(ScanProgressEvent{Progress: p})
			}
		}
	}()

	root, err := c.scanner.Scan(sctx, path, depth, opts, rep)

	stillCurrent := c.coord.IsCurrent(session)
	if err == nil && !stillCurrent {
		root = nil
		err = ErrSuperseded
	}

	if err != nil {
		rep.Abort()
		<-relayDone
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			err = ErrSuperseded
		}
		logging.Debug.Printf("scan %s ended without a tree: %v", session.ID(), err)
		if stillCurrent {
			c.mu.Lock()
			c.scan.Phase = PhaseIdle
			c.mu.Unlock()
			c.emitFinal(ScanCompletedEvent{Session: session.ID(), Err: err})
			c.coord.Finish(session)
		}
		return nil, err
	}

	rep.Finish(path)
	<-relayDone

	c.mu.Lock()
	c.scan.Phase = PhaseComplete
	c.scan.Percent = 100
	c.root = root
	c.mu.Unlock()

	c.emitFinal(ScanCompletedEvent{Session: session.ID(), Root: root})
	c.coord.Finish(session)

	logging.Debug.Printf("scan %s complete: %d items, %d bytes", session.ID(), root.ItemCount(), root.Size)
	return root, nil
}

// emit sends an event to the stream, dropping it if no consumer keeps up
func (c *Controller) emit(event Event) {
	select {
	case c.eventCh <- event:
	default:
	}
}

// emitFinal sends a terminal event, evicting the oldest buffered event
// when the stream is full. Interim events are droppable; the end of a
// scan is not.
func (c *Controller) emitFinal(event Event) {
	for {
		select {
		case c.eventCh <- event:
			return
		default:
		}
		select {
		case <-c.eventCh:
		default:
		}
	}
}
