package schedule

import "fmt"

// Participant is one entry of the tournament roster. PlayerID references the
// player catalog and is nil for ad-hoc participants that only exist by name;
// names must therefore be unique within one tournament (enforced at
// registration, not here).
type Participant struct {
	PlayerID *int   `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

// Fixture pairs two participants by their index into State.Participants.
// MatchID is set once the fixture has actually been played and a match record
// exists for it.
type Fixture struct {
	A       int  `json:"a"`
	B       int  `json:"b"`
	Played  bool `json:"played"`
	MatchID *int `json:"matchId"`
}

// Round lists fixture indices that are played before the next round starts.
type Round []int

// State is the full serializable schedule of one tournament. It is stored as
// a single JSON blob in the tournaments table and re-validated on every load.
// Once started, only fixture play flags, match ids and CurrentRound change.
type State struct {
	Participants []Participant `json:"participants"`
	Started      bool          `json:"started"`
	Fixtures     []Fixture     `json:"fixtures"`
	Rounds       []Round       `json:"rounds"`
	CurrentRound int           `json:"currentRound"`
	Mode         Mode          `json:"mode"`
}

// Validate checks the shape invariants of a loaded state. Any violation means
// the persisted blob was corrupted externally; it is surfaced as
// ErrInvalidState and never auto-repaired.
func (s *State) Validate() error {
	if s.CurrentRound < 0 {
		return fmt.Errorf("%w: negative current round %d", ErrInvalidState, s.CurrentRound)
	}
	if len(s.Rounds) > 0 && s.CurrentRound >= len(s.Rounds) {
		return fmt.Errorf("%w: current round %d out of %d rounds", ErrInvalidState, s.CurrentRound, len(s.Rounds))
	}
	for i, f := range s.Fixtures {
		if f.A == f.B {
			return fmt.Errorf("%w: fixture %d pairs participant %d with itself", ErrInvalidState, i, f.A)
		}
		if f.A < 0 || f.A >= len(s.Participants) || f.B < 0 || f.B >= len(s.Participants) {
			return fmt.Errorf("%w: fixture %d references unknown participant", ErrInvalidState, i)
		}
	}
	for r, round := range s.Rounds {
		for _, fi := range round {
			if fi < 0 || fi >= len(s.Fixtures) {
				return fmt.Errorf("%w: round %d references fixture %d of %d", ErrInvalidState, r, fi, len(s.Fixtures))
			}
		}
	}
	return nil
}

// MarkPlayed returns a copy of the state with the given fixture flagged as
// played and its match id attached. Marking an already played fixture again
// is a no-op, not an error.
func (s *State) MarkPlayed(fixtureIndex int, matchID int) (*State, error) {
	if fixtureIndex < 0 || fixtureIndex >= len(s.Fixtures) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidFixtureIndex, fixtureIndex, len(s.Fixtures))
	}
	next := s.clone()
	f := &next.Fixtures[fixtureIndex]
	if !f.Played {
		id := matchID
		f.Played = true
		f.MatchID = &id
	}
	return next, nil
}

// AdvanceRound returns a copy of the state with CurrentRound moved forward by
// one. It is permitted only when every fixture of the current round has been
// played; an empty round counts as vacuously complete. Advancing past the
// final round is reported, never clamped.
func (s *State) AdvanceRound() (*State, error) {
	if s.CurrentRound >= len(s.Rounds)-1 {
		return nil, ErrAlreadyAtFinalRound
	}
	for _, fi := range s.Rounds[s.CurrentRound] {
		if !s.Fixtures[fi].Played {
			return nil, fmt.Errorf("%w: fixture %d pending in round %d", ErrRoundIncomplete, fi, s.CurrentRound)
		}
	}
	next := s.clone()
	next.CurrentRound++
	return next, nil
}

func (s *State) clone() *State {
	next := &State{
		Participants: make([]Participant, len(s.Participants)),
		Started:      s.Started,
		Fixtures:     make([]Fixture, len(s.Fixtures)),
		Rounds:       make([]Round, len(s.Rounds)),
		CurrentRound: s.CurrentRound,
		Mode:         s.Mode,
	}
	copy(next.Participants, s.Participants)
	for i, f := range s.Fixtures {
		if f.MatchID != nil {
			id := *f.MatchID
			f.MatchID = &id
		}
		next.Fixtures[i] = f
	}
	for i, r := range s.Rounds {
		round := make(Round, len(r))
		copy(round, r)
		next.Rounds[i] = round
	}
	return next
}
