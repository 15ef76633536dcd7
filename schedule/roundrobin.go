package schedule

// Mode selects how many times every pairing is played.
type Mode string

const (
	ModeSingle Mode = "single" // every pair meets once
	ModeDouble Mode = "double" // every pair meets twice, home/away reversed
)

// byeSlot marks the synthetic opponent added when the participant count is odd.
// Pairings against it are dropped, so published fixture and round indices never
// reference the bye.
const byeSlot = -1

// Generate builds a complete round-robin schedule for the given participants
// using the circle method: index 0 stays fixed while the rest of the circle
// rotates one position per round. The returned state is ready to be persisted
// as the tournament's initial schedule (started, at round 0).
//
// Fixture indices are assigned in emission order: first-leg rounds in round
// order, left to right within a round, then (for ModeDouble) the mirrored
// second leg in the same relative order.
func Generate(participants []Participant, mode Mode) (*State, error) {
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}
	if mode != ModeDouble {
		// Unknown modes fall back to a single round-robin.
		mode = ModeSingle
	}

	n := len(participants)
	circle := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		circle = append(circle, i)
	}
	if n%2 != 0 {
		circle = append(circle, byeSlot)
	}

	size := len(circle)
	fixtures := make([]Fixture, 0, n*(n-1)/2)
	rounds := make([]Round, 0, size-1)

	for r := 0; r < size-1; r++ {
		round := make(Round, 0, size/2)
		for i := 0; i < size/2; i++ {
			a, b := circle[i], circle[size-1-i]
			if a == byeSlot || b == byeSlot {
				continue
			}
			round = append(round, len(fixtures))
			fixtures = append(fixtures, Fixture{A: a, B: b})
		}
		// A round can only end up empty if the bye pairing was its sole
		// pairing, which the minimum participant count already rules out.
		// Kept as a guard so an empty round never reaches the state machine.
		if len(round) > 0 {
			rounds = append(rounds, round)
		}

		// Rotate: position 0 stays fixed, the last element moves to the
		// front of the remaining circle.
		rotated := make([]int, 0, size)
		rotated = append(rotated, circle[0], circle[size-1])
		rotated = append(rotated, circle[1:size-1]...)
		circle = rotated
	}

	if mode == ModeDouble {
		firstLeg := len(rounds)
		for r := 0; r < firstLeg; r++ {
			ret := make(Round, 0, len(rounds[r]))
			for _, fi := range rounds[r] {
				first := fixtures[fi]
				ret = append(ret, len(fixtures))
				fixtures = append(fixtures, Fixture{A: first.B, B: first.A})
			}
			rounds = append(rounds, ret)
		}
	}

	return &State{
		Participants: participants,
		Started:      true,
		Fixtures:     fixtures,
		Rounds:       rounds,
		CurrentRound: 0,
		Mode:         mode,
	}, nil
}
