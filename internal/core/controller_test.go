package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumipallolabs/diskscope/internal/model"
	"github.com/lumipallolabs/diskscope/internal/scanner"
)

// blockOnFirstScanner blocks its first Scan call until cancelled and
// returns a trivial tree on later calls.
type blockOnFirstScanner struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func (s *blockOnFirstScanner) Scan(ctx context.Context, root string, depth int, opts scanner.ScanOptions, rep *scanner.Reporter) (*model.DiskItem, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		s.started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	rep.Visit(root)
	return &model.DiskItem{Name: filepath.Base(root), Path: root, IsDir: true, Size: 1}, nil
}

// lateReportScanner reports progress only after its first call has been
// cancelled, so anything it publishes belongs to a retired session.
type lateReportScanner struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func (s *lateReportScanner) Scan(ctx context.Context, root string, depth int, opts scanner.ScanOptions, rep *scanner.Reporter) (*model.DiskItem, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		s.started <- struct{}{}
		<-ctx.Done()
		rep.Visit(root)
		return nil, ctx.Err()
	}
	rep.Visit(root)
	return &model.DiskItem{Name: filepath.Base(root), Path: root, IsDir: true, Size: 1}, nil
}

func scenarioTree(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	files := map[string]int{"a.bin": 10, "b.bin": 20}
	for name, n := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), make([]byte, n), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmp, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "sub", "c.bin"), make([]byte, 5), 0644); err != nil {
		t.Fatal(err)
	}
	return tmp
}

// drainEvents collects whatever is buffered on the event stream.
func drainEvents(c *Controller) []Event {
	var events []Event
	for {
		select {
		case e := <-c.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestScanDirectory(t *testing.T) {
	tmp := scenarioTree(t)
	c := NewController()

	root, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{FastMode: true})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if root.Size != 35 {
		t.Errorf("expected total 35, got %d", root.Size)
	}
	if c.Root() != root {
		t.Error("controller should retain the completed tree")
	}

	state := c.ScanState()
	if state.Phase != PhaseComplete || state.Percent != 100 {
		t.Errorf("expected complete state at 100%%, got %+v", state)
	}

	var started, completed bool
	for _, e := range drainEvents(c) {
		switch ev := e.(type) {
		case ScanStartedEvent:
			started = true
		case ScanCompletedEvent:
			completed = true
			if ev.Root == nil || ev.Err != nil {
				t.Errorf("completed event should carry the tree, got %+v", ev)
			}
		}
	}
	if !started || !completed {
		t.Errorf("expected started and completed events, got started=%v completed=%v", started, completed)
	}
}

func TestScanDirectorySupersedes(t *testing.T) {
	tmp := scenarioTree(t)

	fake := &blockOnFirstScanner{started: make(chan struct{}, 1)}
	c := NewController()
	c.scanner = fake

	errCh := make(chan error, 1)
	go func() {
		_, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{})
		errCh <- err
	}()

	<-fake.started

	root, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{})
	if err != nil {
		t.Fatalf("superseding scan failed: %v", err)
	}
	if root == nil {
		t.Fatal("superseding scan should produce a tree")
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("expected ErrSuperseded for the retired scan, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retired scan never resolved")
	}
}

func TestSupersededSessionEventsSuppressed(t *testing.T) {
	tmp := scenarioTree(t)

	fake := &lateReportScanner{started: make(chan struct{}, 1)}
	c := NewController()
	c.scanner = fake

	errCh := make(chan error, 1)
	go func() {
		_, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{})
		errCh <- err
	}()

	<-fake.started

	if _, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{}); err != nil {
		t.Fatalf("superseding scan failed: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("expected ErrSuperseded for the retired scan, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retired scan never resolved")
	}

	events := drainEvents(c)

	var sessions []uuid.UUID
	for _, e := range events {
		if se, ok := e.(ScanStartedEvent); ok {
			sessions = append(sessions, se.Session)
		}
	}
	if len(sessions) != 2 {
		t.Fatalf("expected two started events, got %d", len(sessions))
	}
	retired := sessions[0]

	for _, e := range events {
		switch ev := e.(type) {
		case ScanProgressEvent:
			if ev.Progress.Session == retired {
				t.Errorf("progress event from retired session %s leaked into the stream", retired)
			}
		case ScanCompletedEvent:
			if ev.Session == retired {
				t.Errorf("completed event emitted for retired session %s", retired)
			}
		}
	}
}

func TestScanCompletedSurvivesFullEventBuffer(t *testing.T) {
	tmp := scenarioTree(t)
	c := NewController()
	// Tiny buffer with no consumer: interim events must give way so the
	// terminal event still arrives
	c.eventCh = make(chan Event, 1)

	root, err := c.ScanDirectory(context.Background(), tmp, 2, scanner.ScanOptions{FastMode: true})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	events := drainEvents(c)
	if len(events) == 0 {
		t.Fatal("expected at least the terminal event")
	}
	last, ok := events[len(events)-1].(ScanCompletedEvent)
	if !ok {
		t.Fatalf("expected ScanCompletedEvent last, got %T", events[len(events)-1])
	}
	if last.Root != root || last.Err != nil {
		t.Errorf("terminal event should carry the tree, got %+v", last)
	}
}

func TestScanDirectoryCallerCancel(t *testing.T) {
	tmp := scenarioTree(t)

	fake := &blockOnFirstScanner{started: make(chan struct{}, 1)}
	c := NewController()
	c.scanner = fake

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.ScanDirectory(ctx, tmp, 2, scanner.ScanOptions{})
		errCh <- err
	}()

	<-fake.started
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled for caller cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled scan never resolved")
	}
}

func TestScanDirectoryRootUnavailable(t *testing.T) {
	c := NewController()

	root, err := c.ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), 2, scanner.ScanOptions{})
	if !errors.Is(err, scanner.ErrRootUnavailable) {
		t.Errorf("expected ErrRootUnavailable, got %v", err)
	}
	if root != nil {
		t.Error("expected no tree")
	}
}

func TestDriveInfo(t *testing.T) {
	c := NewController()
	drives, err := c.DriveInfo()
	if err != nil {
		t.Fatalf("DriveInfo failed: %v", err)
	}
	for _, d := range drives {
		if d.UsedSpace != d.TotalSpace-d.AvailableSpace {
			t.Errorf("%s: inconsistent capacity numbers", d.MountPoint)
		}
	}
}
