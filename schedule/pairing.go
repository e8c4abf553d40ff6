package schedule

// Pair is one round-robin fixture. Round indexes are contiguous from 0.
type Pair struct {
	Round int
	Home  int
	Away  int
}

// byeSlot pads an odd field so the rotation stays balanced. Pairs touching
// it are dropped from the output. Negative so it can never collide with a
// real participant ID.
const byeSlot = -1

// RoundRobin builds a Berger-table schedule for the given participants.
// repeat=1 is a single round robin, repeat=2 adds a reverse pass with
// home/away swapped. Duplicated IDs are ignored. Fewer than two distinct
// participants yields an empty schedule; rejecting that is the caller's job.
func RoundRobin(participantIDs []int, repeat int) []Pair {
	ids := dedupe(participantIDs)
	if len(ids) < 2 {
		return nil
	}
	if repeat < 1 {
		repeat = 1
	}

	slots := make([]int, len(ids))
	copy(slots, ids)
	if len(slots)%2 != 0 {
		slots = append(slots, byeSlot)
	}

	n := len(slots)
	roundsPerPass := n - 1
	half := n / 2

	base := make([]Pair, 0, roundsPerPass*half)
	for r := 0; r < roundsPerPass; r++ {
		for i := 0; i < half; i++ {
			a := slots[i]
			b := slots[n-1-i]
			if a == byeSlot || b == byeSlot {
				continue
			}
			// Alternate home advantage by round parity.
			if r%2 == 1 {
				a, b = b, a
			}
			base = append(base, Pair{Round: r, Home: a, Away: b})
		}
		rotate(slots)
	}

	out := make([]Pair, 0, len(base)*repeat)
	out = append(out, base...)
	for pass := 1; pass < repeat; pass++ {
		offset := pass * roundsPerPass
		for _, p := range base {
			home, away := p.Home, p.Away
			if pass%2 == 1 {
				home, away = away, home
			}
			out = append(out, Pair{Round: p.Round + offset, Home: home, Away: away})
		}
	}
	return out
}

// rotate keeps slots[0] fixed and shifts the rest clockwise by one.
func rotate(slots []int) {
	n := len(slots)
	last := slots[n-1]
	copy(slots[2:], slots[1:n-1])
	slots[1] = last
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
