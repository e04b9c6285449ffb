package core

import (
	"context"
	"testing"
)

func TestCoordinatorSupersedes(t *testing.T) {
	var coord Coordinator

	first, firstCtx := coord.Begin(context.Background(), 10)
	if !coord.IsCurrent(first) {
		t.Fatal("first session should be current")
	}

	second, _ := coord.Begin(context.Background(), 10)

	select {
	case <-firstCtx.Done():
	default:
		t.Error("beginning a new session must cancel the previous one")
	}
	if coord.IsCurrent(first) {
		t.Error("retired session still reported current")
	}
	if !coord.IsCurrent(second) {
		t.Error("new session should be current")
	}
	if first.ID() == second.ID() {
		t.Error("sessions must have distinct identifiers")
	}
}

func TestCoordinatorFinish(t *testing.T) {
	var coord Coordinator

	s, _ := coord.Begin(context.Background(), 1)
	coord.Finish(s)

	if coord.IsCurrent(s) {
		t.Error("finished session still current")
	}
	if coord.IsCurrentID(s.ID()) {
		t.Error("finished session id still current")
	}
}

func TestCoordinatorFinishStaleSession(t *testing.T) {
	var coord Coordinator

	first, _ := coord.Begin(context.Background(), 1)
	second, _ := coord.Begin(context.Background(), 1)

	// Finishing a retired session must not release the active one
	coord.Finish(first)
	if !coord.IsCurrent(second) {
		t.Error("finishing a stale session released the active one")
	}
}
