package services

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"courtflow/internal/session"
	"courtflow/internal/store"
)

type recordingFeed struct {
	snaps []*session.Snapshot
}

func (f *recordingFeed) Broadcast(snap *session.Snapshot) {
	f.snaps = append(f.snaps, snap)
}

func newService(t *testing.T) (*Service, *store.Store, *recordingFeed) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "courtflow_data.json"), 3)
	feed := &recordingFeed{}
	return NewService(st, session.DefaultRules(), feed), st, feed
}

func TestMutationsPersistAcrossServices(t *testing.T) {
	svc, st, _ := newService(t)

	if _, added, err := svc.AddPlayers([]string{"A", "B", "C", "D"}); err != nil || added != 4 {
		t.Fatalf("AddPlayers = (%d, %v), want (4, nil)", added, err)
	}
	if _, filled, err := svc.FillCourts(); err != nil || filled != 1 {
		t.Fatalf("FillCourts = (%d, %v), want (1, nil)", filled, err)
	}
	if _, acted, err := svc.Resolve(0, session.Team1); err != nil || !acted {
		t.Fatalf("Resolve = (%v, %v), want (true, nil)", acted, err)
	}

	// A fresh service over the same file sees the committed state.
	later := NewService(st, session.DefaultRules(), nil)
	snap, err := later.State()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := snap.Courts[0], []string{"A", "B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("court 0 = %v, want %v", got, want)
	}
	if snap.Streaks["A"] != 1 || snap.Streaks["C"] != 0 {
		t.Fatalf("streaks not persisted: %v", snap.Streaks)
	}
	if len(snap.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(snap.History))
	}
}

func TestEveryMutationBroadcasts(t *testing.T) {
	svc, _, feed := newService(t)

	svc.AddPlayers([]string{"A", "B", "C", "D"})
	svc.FillCourts()
	svc.SetAutoFill(true)
	svc.Resolve(0, session.Team2)
	svc.ResetAllCourts()
	svc.ResetAll()

	if len(feed.snaps) != 6 {
		t.Fatalf("broadcasts = %d, want 6", len(feed.snaps))
	}
	last := feed.snaps[len(feed.snaps)-1]
	if len(last.Players) != 0 {
		t.Fatalf("final broadcast not the reset snapshot: %v", last.Players)
	}
}

func TestRejectedInputNeitherPersistsNorBroadcasts(t *testing.T) {
	svc, _, feed := newService(t)
	svc.AddPlayers([]string{"A", "B", "C", "D"})
	svc.FillCourts()
	broadcasts := len(feed.snaps)

	if _, _, err := svc.Resolve(9, session.Team1); err == nil {
		t.Fatal("want error for out-of-range court")
	}
	if _, _, err := svc.Resolve(0, session.Team("Team 9")); err == nil {
		t.Fatal("want error for unknown team")
	}
	if _, _, err := svc.ResolveAll(map[int]session.Team{5: session.Team1}); err == nil {
		t.Fatal("want error for bad batch")
	}
	if _, err := svc.ResetCourt(-2); err == nil {
		t.Fatal("want error for bad reset index")
	}

	if len(feed.snaps) != broadcasts {
		t.Fatalf("rejected inputs broadcast %d extra snapshots", len(feed.snaps)-broadcasts)
	}
	snap, err := svc.State()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := snap.Courts[0], []string{"A", "B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("state mutated by rejected input: court 0 = %v", got)
	}
	if len(snap.History) != 0 {
		t.Fatal("rejected input wrote history")
	}
}

func TestNoOpResolveStillSafe(t *testing.T) {
	svc, _, _ := newService(t)
	svc.AddPlayers([]string{"A", "B"})

	// Court 0 is empty: a stale submission resolves to a quiet no-op.
	snap, acted, err := svc.Resolve(0, session.Team1)
	if err != nil {
		t.Fatal(err)
	}
	if acted {
		t.Fatal("resolve acted on an empty court")
	}
	if len(snap.History) != 0 {
		t.Fatal("no-op resolve wrote history")
	}
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	// Point the store at a path whose parent is a file, so saving fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker)

	st := store.New(filepath.Join(blocker, "state.json"), 3)
	svc := NewService(st, session.DefaultRules(), nil)

	if _, _, err := svc.AddPlayers([]string{"A"}); err == nil {
		t.Fatal("want persistence error to surface")
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}
