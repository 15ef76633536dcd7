package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeParticipants(n int) []Participant {
	participants := make([]Participant, 0, n)
	for i := 0; i < n; i++ {
		id := i + 1
		participants = append(participants, Participant{
			PlayerID: &id,
			Name:     fmt.Sprintf("Player %d", i+1),
			Color:    "#ff0000",
		})
	}
	return participants
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func TestGenerateSinglePairingCompleteness(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			state, err := Generate(makeParticipants(n), ModeSingle)
			require.NoError(t, err)

			seen := make(map[[2]int]int)
			for _, f := range state.Fixtures {
				require.NotEqual(t, f.A, f.B)
				seen[pairKey(f.A, f.B)]++
			}

			assert.Len(t, state.Fixtures, n*(n-1)/2)
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					assert.Equal(t, 1, seen[pairKey(i, j)], "pair {%d,%d}", i, j)
				}
			}
		})
	}
}

func TestGenerateDoublePairingCompleteness(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			state, err := Generate(makeParticipants(n), ModeDouble)
			require.NoError(t, err)

			seen := make(map[[2]int]int)
			for _, f := range state.Fixtures {
				seen[[2]int{f.A, f.B}]++
			}

			assert.Len(t, state.Fixtures, n*(n-1))
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					assert.Equal(t, 1, seen[[2]int{i, j}], "ordered pair (%d,%d)", i, j)
				}
			}
		})
	}
}

func TestGenerateRoundPartitionValidity(t *testing.T) {
	for n := 2; n <= 12; n++ {
		for _, mode := range []Mode{ModeSingle, ModeDouble} {
			t.Run(fmt.Sprintf("n=%d/%s", n, mode), func(t *testing.T) {
				state, err := Generate(makeParticipants(n), mode)
				require.NoError(t, err)

				fixtureRounds := make(map[int]int)
				for _, round := range state.Rounds {
					inRound := make(map[int]bool)
					for _, fi := range round {
						require.Less(t, fi, len(state.Fixtures))
						fixtureRounds[fi]++
						f := state.Fixtures[fi]
						assert.False(t, inRound[f.A], "participant %d plays twice in one round", f.A)
						assert.False(t, inRound[f.B], "participant %d plays twice in one round", f.B)
						inRound[f.A] = true
						inRound[f.B] = true
					}
				}

				for fi := range state.Fixtures {
					assert.Equal(t, 1, fixtureRounds[fi], "fixture %d round membership", fi)
				}
			})
		}
	}
}

func TestGenerateByeCorrectness(t *testing.T) {
	for n := 3; n <= 11; n += 2 {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			state, err := Generate(makeParticipants(n), ModeSingle)
			require.NoError(t, err)

			byeRounds := make(map[int]int)
			for _, round := range state.Rounds {
				playing := make(map[int]bool)
				for _, fi := range round {
					playing[state.Fixtures[fi].A] = true
					playing[state.Fixtures[fi].B] = true
				}
				for p := 0; p < n; p++ {
					if !playing[p] {
						byeRounds[p]++
					}
				}
			}

			for p := 0; p < n; p++ {
				assert.Equal(t, 1, byeRounds[p], "participant %d bye count", p)
			}
		})
	}
}

func TestGenerateRoundCount(t *testing.T) {
	for n := 2; n <= 12; n++ {
		single, err := Generate(makeParticipants(n), ModeSingle)
		require.NoError(t, err)
		double, err := Generate(makeParticipants(n), ModeDouble)
		require.NoError(t, err)

		want := n - 1
		if n%2 != 0 {
			want = n
		}
		assert.Len(t, single.Rounds, want, "single n=%d", n)
		assert.Len(t, double.Rounds, 2*want, "double n=%d", n)
	}
}

func TestGenerateTwoParticipants(t *testing.T) {
	single, err := Generate(makeParticipants(2), ModeSingle)
	require.NoError(t, err)
	require.Len(t, single.Rounds, 1)
	require.Len(t, single.Fixtures, 1)

	double, err := Generate(makeParticipants(2), ModeDouble)
	require.NoError(t, err)
	require.Len(t, double.Rounds, 2)
	require.Len(t, double.Fixtures, 2)
	// Each participant hosts once on the return leg.
	assert.Equal(t, double.Fixtures[0].A, double.Fixtures[1].B)
	assert.Equal(t, double.Fixtures[0].B, double.Fixtures[1].A)
}

func TestGenerateThreeParticipants(t *testing.T) {
	state, err := Generate(makeParticipants(3), ModeSingle)
	require.NoError(t, err)

	require.Len(t, state.Rounds, 3)
	for r, round := range state.Rounds {
		assert.Len(t, round, 1, "round %d", r)
	}
}

func TestGenerateDoubleLegMirrorsFirstLeg(t *testing.T) {
	state, err := Generate(makeParticipants(3), ModeDouble)
	require.NoError(t, err)

	// 3 participants: 3 first-leg rounds of one fixture each, mirrored.
	require.Len(t, state.Rounds, 6)
	require.Len(t, state.Fixtures, 6)
	for r := 0; r < 3; r++ {
		first := state.Fixtures[state.Rounds[r][0]]
		ret := state.Fixtures[state.Rounds[r+3][0]]
		assert.Equal(t, first.A, ret.B, "round %d return leg", r)
		assert.Equal(t, first.B, ret.A, "round %d return leg", r)
	}
}

func TestGenerateInitialState(t *testing.T) {
	state, err := Generate(makeParticipants(4), ModeSingle)
	require.NoError(t, err)

	assert.True(t, state.Started)
	assert.Equal(t, 0, state.CurrentRound)
	assert.Equal(t, ModeSingle, state.Mode)
	for _, f := range state.Fixtures {
		assert.False(t, f.Played)
		assert.Nil(t, f.MatchID)
	}
	assert.NoError(t, state.Validate())
}

func TestGenerateInsufficientParticipants(t *testing.T) {
	_, err := Generate(nil, ModeSingle)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = Generate(makeParticipants(1), ModeDouble)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}
