package live

import (
	"encoding/json"
	"errors"
	"testing"

	"courtflow/internal/session"
)

type fakeConn struct {
	sent   [][]byte
	failed bool
	closed bool
}

func (f *fakeConn) Send(b []byte) error {
	if f.failed {
		return errors.New("gone")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	h := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	h.Add(a)
	h.Add(b)

	snap := session.NewSnapshot(3)
	snap.Players = []string{"Ana"}
	h.Broadcast(snap)

	for name, fc := range map[string]*fakeConn{"a": a, "b": b} {
		if len(fc.sent) != 1 {
			t.Fatalf("client %s received %d messages, want 1", name, len(fc.sent))
		}
		var got session.Snapshot
		if err := json.Unmarshal(fc.sent[0], &got); err != nil {
			t.Fatalf("client %s got invalid payload: %v", name, err)
		}
		if len(got.Players) != 1 || got.Players[0] != "Ana" {
			t.Fatalf("client %s got players %v, want [Ana]", name, got.Players)
		}
	}
}

func TestBroadcastDropsDeadClients(t *testing.T) {
	h := NewHub()
	alive := &fakeConn{}
	dead := &fakeConn{failed: true}
	h.Add(alive)
	h.Add(dead)

	h.Broadcast(session.NewSnapshot(3))
	if h.Count() != 1 {
		t.Fatalf("client count = %d, want 1 after dropping dead client", h.Count())
	}
	if !dead.closed {
		t.Fatal("dead client connection not closed")
	}

	// The survivor keeps receiving.
	h.Broadcast(session.NewSnapshot(3))
	if len(alive.sent) != 2 {
		t.Fatalf("surviving client received %d messages, want 2", len(alive.sent))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	h := NewHub()
	fc := &fakeConn{}
	id := h.Add(fc)

	h.Remove(id)
	h.Remove(id)
	if h.Count() != 0 {
		t.Fatalf("client count = %d, want 0", h.Count())
	}
}
