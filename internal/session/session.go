package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Team identifies one side of a court by position. The first two players on
// a court are Team 1, the last two are Team 2.
type Team string

const (
	Team1 Team = "Team 1"
	Team2 Team = "Team 2"
)

// CourtSize is the number of players hosted by an active court.
const CourtSize = 4

var (
	ErrCourtIndex  = errors.New("court index out of range")
	ErrUnknownTeam = errors.New("unknown team")
)

// GameRecord is one resolved game in the history log. Players holds the four
// participants in court order as they stood when the winner was recorded.
// Court is 1-based to match what players see courtside.
type GameRecord struct {
	ID         string    `json:"id"`
	Court      int       `json:"court"`
	TeamWon    Team      `json:"team_won"`
	Players    []string  `json:"players"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Snapshot is the complete persisted state of an open-play session.
type Snapshot struct {
	Players  []string       `json:"players"`
	Queue    []string       `json:"queue"`
	Courts   [][]string     `json:"courts"`
	Streaks  map[string]int `json:"streaks"`
	History  []GameRecord   `json:"history"`
	AutoFill bool           `json:"auto_fill"`
}

// NewSnapshot returns an empty session with the given number of courts.
func NewSnapshot(courts int) *Snapshot {
	snap := &Snapshot{
		Players: []string{},
		Queue:   []string{},
		Courts:  make([][]string, courts),
		Streaks: map[string]int{},
		History: []GameRecord{},
	}
	for i := range snap.Courts {
		snap.Courts[i] = []string{}
	}
	return snap
}

// Rules configures the rotation engine.
type Rules struct {
	// StreakCap is the number of consecutive wins after which a winner is
	// rotated out anyway. Reaching the cap triggers departure in the same
	// resolution, not the next one.
	StreakCap int
	// ShuffleAfterRefill reorders the four players of a refilled court.
	// Purely cosmetic: streak and queue decisions always use the team
	// positions as they stood before the shuffle.
	ShuffleAfterRefill bool
	// RetainHistoryOnReset keeps the game log across a full reset.
	RetainHistoryOnReset bool
	// Rand drives the post-refill shuffle. Lazily seeded when nil.
	Rand *rand.Rand
}

// DefaultRules matches regular open-play: two wins and you sit out a cycle.
func DefaultRules() Rules {
	return Rules{StreakCap: 2}
}

// Session applies rotation rules to a snapshot. It owns the snapshot for the
// duration of one operation; callers persist the result.
type Session struct {
	Snap  *Snapshot
	Rules Rules
}

func New(snap *Snapshot, rules Rules) *Session {
	if rules.StreakCap <= 0 {
		rules.StreakCap = DefaultRules().StreakCap
	}
	return &Session{Snap: snap, Rules: rules}
}

// AddPlayers admits new players to the roster and the back of the queue with
// a zero streak. Names already on the roster are ignored, so re-submitting
// the same list is harmless. Returns how many players were actually added.
func (s *Session) AddPlayers(names []string) int {
	added := 0
	for _, name := range names {
		if name == "" {
			continue
		}
		if contains(s.Snap.Players, name) {
			continue
		}
		s.Snap.Players = append(s.Snap.Players, name)
		s.Snap.Queue = append(s.Snap.Queue, name)
		s.Snap.Streaks[name] = 0
		added++
	}
	return added
}

// SetAutoFill toggles automatic court filling after mutating operations.
func (s *Session) SetAutoFill(on bool) {
	s.Snap.AutoFill = on
}

// Resolve records the outcome of one court and applies the rotation rules:
// losers go to the back of the queue with their streaks cleared, winners stay
// unless they hit the streak cap, and the court is refilled from the front of
// the queue. Returns false without touching anything when the court is not
// full, so a duplicate submission from a stale page is a harmless no-op.
func (s *Session) Resolve(court int, side Team) (bool, error) {
	if court < 0 || court >= len(s.Snap.Courts) {
		return false, fmt.Errorf("%w: %d", ErrCourtIndex, court)
	}
	if side != Team1 && side != Team2 {
		return false, fmt.Errorf("%w: %q", ErrUnknownTeam, side)
	}
	acted := s.resolve(court, side)
	if acted && s.Snap.AutoFill {
		s.FillCourts()
	}
	return acted, nil
}

func (s *Session) resolve(court int, side Team) bool {
	occupants := s.Snap.Courts[court]
	if len(occupants) != CourtSize {
		return false
	}

	participants := make([]string, CourtSize)
	copy(participants, occupants)

	winners := occupants[:2]
	losers := occupants[2:]
	if side == Team2 {
		winners, losers = losers, winners
	}

	for _, name := range losers {
		s.Snap.Streaks[name] = 0
		s.enqueue(name)
	}

	staying := make([]string, 0, 2)
	for _, name := range winners {
		s.Snap.Streaks[name]++
		if s.Snap.Streaks[name] < s.Rules.StreakCap {
			staying = append(staying, name)
			continue
		}
		// Hit the cap: rotate out even though they won.
		s.Snap.Streaks[name] = 0
		s.enqueue(name)
	}

	needed := CourtSize - len(staying)
	for i := 0; i < needed; i++ {
		next, ok := s.dequeue()
		if !ok {
			break
		}
		staying = append(staying, next)
	}
	if s.Rules.ShuffleAfterRefill && len(staying) == CourtSize {
		s.shuffle(staying)
	}
	s.Snap.Courts[court] = staying

	s.Snap.History = append(s.Snap.History, GameRecord{
		ID:         uuid.New().String(),
		Court:      court + 1,
		TeamWon:    side,
		Players:    participants,
		RecordedAt: time.Now().UTC(),
	})
	return true
}

// ResolveAll records outcomes for several courts at once, in ascending court
// order so that players leaving different courts line up in the queue the
// same way every time. All outcomes are validated before any court is
// touched. Auto-fill runs once at the end rather than per court. Returns how
// many courts were resolved.
func (s *Session) ResolveAll(outcomes map[int]Team) (int, error) {
	courts := make([]int, 0, len(outcomes))
	for court, side := range outcomes {
		if court < 0 || court >= len(s.Snap.Courts) {
			return 0, fmt.Errorf("%w: %d", ErrCourtIndex, court)
		}
		if side != Team1 && side != Team2 {
			return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, side)
		}
		courts = append(courts, court)
	}
	sort.Ints(courts)

	resolved := 0
	for _, court := range courts {
		if s.resolve(court, outcomes[court]) {
			resolved++
		}
	}
	if s.Snap.AutoFill {
		s.FillCourts()
	}
	return resolved, nil
}

// FillCourts activates empty or under-filled courts from the queue, lowest
// court first. A court is only (re)populated when four players are waiting;
// it never comes out of this with one to three players on it. Returns the
// number of courts filled.
func (s *Session) FillCourts() int {
	filled := 0
	for i := range s.Snap.Courts {
		if len(s.Snap.Courts[i]) >= CourtSize || len(s.Snap.Queue) < CourtSize {
			continue
		}
		next := make([]string, 0, CourtSize)
		for len(next) < CourtSize {
			name, _ := s.dequeue()
			next = append(next, name)
		}
		s.Snap.Courts[i] = next
		filled++
	}
	return filled
}

// ResetCourt sends everyone on one court to the back of the queue with their
// streaks cleared and empties the court.
func (s *Session) ResetCourt(court int) error {
	if court < 0 || court >= len(s.Snap.Courts) {
		return fmt.Errorf("%w: %d", ErrCourtIndex, court)
	}
	s.resetCourt(court)
	if s.Snap.AutoFill {
		s.FillCourts()
	}
	return nil
}

func (s *Session) resetCourt(court int) {
	for _, name := range s.Snap.Courts[court] {
		s.Snap.Streaks[name] = 0
		s.enqueue(name)
	}
	s.Snap.Courts[court] = []string{}
}

// ResetAllCourts clears every court in ascending order, so the queue gains
// court 0's players first. Auto-fill runs once after the sweep, not per
// court, otherwise clearing court 0 would immediately repopulate it from the
// players it just released.
func (s *Session) ResetAllCourts() {
	for i := range s.Snap.Courts {
		s.resetCourt(i)
	}
	if s.Snap.AutoFill {
		s.FillCourts()
	}
}

// ResetAll wipes the whole session back to the empty default. The game log
// survives only when the rules say to retain it.
func (s *Session) ResetAll() {
	history := s.Snap.History
	fresh := NewSnapshot(len(s.Snap.Courts))
	if s.Rules.RetainHistoryOnReset {
		fresh.History = history
	}
	*s.Snap = *fresh
}

// enqueue appends a player to the queue unless they are already waiting.
func (s *Session) enqueue(name string) {
	if contains(s.Snap.Queue, name) {
		return
	}
	s.Snap.Queue = append(s.Snap.Queue, name)
}

func (s *Session) dequeue() (string, bool) {
	if len(s.Snap.Queue) == 0 {
		return "", false
	}
	name := s.Snap.Queue[0]
	s.Snap.Queue = s.Snap.Queue[1:]
	return name, true
}

func (s *Session) shuffle(players []string) {
	if s.Rules.Rand == nil {
		s.Rules.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.Rules.Rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
