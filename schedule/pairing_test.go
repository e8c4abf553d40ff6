package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func TestRoundRobinSingle(t *testing.T) {
	ids := []int{10, 20, 30, 40}
	pairs := RoundRobin(ids, 1)

	// N teams, single pass: N-1 rounds, N/2 matches per round.
	require.Len(t, pairs, 6)

	rounds := map[int]int{}
	meetings := map[[2]int]int{}
	for _, p := range pairs {
		rounds[p.Round]++
		meetings[pairKey(p.Home, p.Away)]++
		assert.NotEqual(t, p.Home, p.Away)
	}
	assert.Len(t, rounds, 3)
	for r, count := range rounds {
		assert.Equal(t, 2, count, "round %d", r)
	}
	assert.Len(t, meetings, 6)
	for pair, count := range meetings {
		assert.Equal(t, 1, count, "pair %v", pair)
	}
}

func TestRoundRobinOddFieldGetsBye(t *testing.T) {
	pairs := RoundRobin([]int{1, 2, 3, 4, 5}, 1)

	// 5 teams play like 6 with a phantom slot: 5 rounds, 2 matches each,
	// every team missing exactly one round.
	require.Len(t, pairs, 10)

	appearances := map[int]int{}
	perRound := map[int]map[int]bool{}
	for _, p := range pairs {
		appearances[p.Home]++
		appearances[p.Away]++
		if perRound[p.Round] == nil {
			perRound[p.Round] = map[int]bool{}
		}
		assert.False(t, perRound[p.Round][p.Home], "team %d twice in round %d", p.Home, p.Round)
		assert.False(t, perRound[p.Round][p.Away], "team %d twice in round %d", p.Away, p.Round)
		perRound[p.Round][p.Home] = true
		perRound[p.Round][p.Away] = true
	}
	assert.Len(t, perRound, 5)
	for id, count := range appearances {
		assert.Equal(t, 4, count, "team %d", id)
	}
}

func TestRoundRobinDoubleSwapsVenues(t *testing.T) {
	pairs := RoundRobin([]int{1, 2, 3, 4}, 2)
	require.Len(t, pairs, 12)

	type fixture struct{ home, away int }
	count := map[fixture]int{}
	maxRound := 0
	for _, p := range pairs {
		count[fixture{p.Home, p.Away}]++
		if p.Round > maxRound {
			maxRound = p.Round
		}
	}
	assert.Equal(t, 5, maxRound)

	// Second pass mirrors the first, so every ordered fixture is unique and
	// each opponent pair meets home and away.
	for f, c := range count {
		assert.Equal(t, 1, c, "fixture %v", f)
		assert.Equal(t, 1, count[fixture{f.away, f.home}], "reverse of %v", f)
	}
}

func TestRoundRobinDegenerateInputs(t *testing.T) {
	assert.Nil(t, RoundRobin(nil, 1))
	assert.Nil(t, RoundRobin([]int{7}, 2))
	assert.Nil(t, RoundRobin([]int{7, 7, 7}, 1))

	// Duplicates collapse before scheduling.
	pairs := RoundRobin([]int{1, 2, 1, 2}, 1)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Round)
}

func TestRoundRobinZeroIDPlaysFullSchedule(t *testing.T) {
	// ID 0 is a legitimate participant, not the bye filler.
	pairs := RoundRobin([]int{0, 1, 2}, 1)
	require.Len(t, pairs, 3)

	appearances := map[int]int{}
	for _, p := range pairs {
		appearances[p.Home]++
		appearances[p.Away]++
	}
	assert.Equal(t, 2, appearances[0])
	assert.Equal(t, 2, appearances[1])
	assert.Equal(t, 2, appearances[2])
}
