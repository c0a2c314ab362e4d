// Package services wires the rotation engine to persistence and the live
// feed. Every mutating call reads the latest persisted snapshot, applies one
// engine operation, writes the whole snapshot back, and only then announces
// the new state. Calls are serialized; the state file has one writer.
package services

import (
	"log/slog"
	"sync"

	"courtflow/internal/session"
	"courtflow/internal/store"
)

// Broadcaster receives the post-mutation snapshot. Satisfied by live.Hub.
type Broadcaster interface {
	Broadcast(snap *session.Snapshot)
}

type Service struct {
	mu    sync.Mutex
	store *store.Store
	rules session.Rules
	feed  Broadcaster
}

// NewService builds the operation layer. feed may be nil for drivers that
// have no live clients, like the terminal UI.
func NewService(st *store.Store, rules session.Rules, feed Broadcaster) *Service {
	return &Service{store: st, rules: rules, feed: feed}
}

// State returns the latest persisted snapshot without changing anything.
func (s *Service) State() (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load()
	if err != nil {
		slog.Error("Error loading session state", "error", err.Error())
	}
	return snap, err
}

// mutate runs one engine operation between a fresh load and a full save.
// The operation's error aborts before anything is written, so a rejected
// input never dirties the state file.
func (s *Service) mutate(op func(sess *session.Session) error) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load()
	if err != nil {
		slog.Error("Error loading session state", "error", err.Error())
		return nil, err
	}
	sess := session.New(snap, s.rules)
	if err := op(sess); err != nil {
		return nil, err
	}
	if err := s.store.Save(snap); err != nil {
		slog.Error("Error persisting session state", "error", err.Error())
		return nil, err
	}
	if s.feed != nil {
		s.feed.Broadcast(snap)
	}
	return snap, nil
}

// AddPlayers admits players to the roster and queue. Returns the snapshot
// and how many names were new.
func (s *Service) AddPlayers(names []string) (*session.Snapshot, int, error) {
	added := 0
	snap, err := s.mutate(func(sess *session.Session) error {
		added = sess.AddPlayers(names)
		return nil
	})
	if err == nil {
		slog.Info("Players added", "requested", len(names), "added", added)
	}
	return snap, added, err
}

// SetAutoFill toggles automatic court filling.
func (s *Service) SetAutoFill(on bool) (*session.Snapshot, error) {
	snap, err := s.mutate(func(sess *session.Session) error {
		sess.SetAutoFill(on)
		return nil
	})
	if err == nil {
		slog.Info("Auto-fill toggled", "enabled", on)
	}
	return snap, err
}

// Resolve records one court's winner. acted is false when the court was not
// full and nothing happened.
func (s *Service) Resolve(court int, side session.Team) (snap *session.Snapshot, acted bool, err error) {
	snap, err = s.mutate(func(sess *session.Session) error {
		acted, err = sess.Resolve(court, side)
		return err
	})
	if err == nil {
		slog.Info("Court resolved", "court", court, "winner", side, "acted", acted)
	}
	return snap, acted, err
}

// ResolveAll records winners for several courts in one persisted step.
func (s *Service) ResolveAll(outcomes map[int]session.Team) (snap *session.Snapshot, resolved int, err error) {
	snap, err = s.mutate(func(sess *session.Session) error {
		resolved, err = sess.ResolveAll(outcomes)
		return err
	})
	if err == nil {
		slog.Info("Courts resolved", "submitted", len(outcomes), "resolved", resolved)
	}
	return snap, resolved, err
}

// FillCourts populates empty and under-filled courts from the queue.
func (s *Service) FillCourts() (snap *session.Snapshot, filled int, err error) {
	snap, err = s.mutate(func(sess *session.Session) error {
		filled = sess.FillCourts()
		return nil
	})
	if err == nil {
		slog.Info("Courts filled from queue", "filled", filled)
	}
	return snap, filled, err
}

// ResetCourt sends one court's players back to the queue.
func (s *Service) ResetCourt(court int) (*session.Snapshot, error) {
	snap, err := s.mutate(func(sess *session.Session) error {
		return sess.ResetCourt(court)
	})
	if err == nil {
		slog.Info("Court reset", "court", court)
	}
	return snap, err
}

// ResetAllCourts clears every court in ascending order.
func (s *Service) ResetAllCourts() (*session.Snapshot, error) {
	snap, err := s.mutate(func(sess *session.Session) error {
		sess.ResetAllCourts()
		return nil
	})
	if err == nil {
		slog.Info("All courts reset")
	}
	return snap, err
}

// ResetAll wipes the whole session.
func (s *Service) ResetAll() (*session.Snapshot, error) {
	snap, err := s.mutate(func(sess *session.Session) error {
		sess.ResetAll()
		return nil
	})
	if err == nil {
		slog.Info("Session reset")
	}
	return snap, err
}
