package schedule

import (
	"fmt"
	"time"
)

// ThirdPlaceLabel names the consolation match scheduled alongside a Final.
const ThirdPlaceLabel = "Match for 3rd place"

const (
	// Days between matches of the same series.
	seriesMatchSpacingDays = 3
	// Days between base dates of successive series in a stage.
	seriesOffsetDays = 1
)

// Seed is one bracket entrant; rank 1 is the strongest.
type Seed struct {
	Rank   int
	ClubID int
}

// SeriesPlan describes one best-of-N pairing to materialize.
type SeriesPlan struct {
	Stage      string
	Slot       int
	Home       Seed
	Away       Seed
	MatchDates []time.Time
}

// StagePlan is the output of planning one knockout stage.
type StagePlan struct {
	Stage  string
	Series []SeriesPlan
	// Bye is set when the field size is odd; the seed advances without a
	// series being played.
	Bye *Seed
}

// StageName labels a knockout stage by its surviving-team count.
func StageName(teamCount int) string {
	switch teamCount {
	case 2:
		return "Final"
	case 4:
		return "Semifinal"
	case 8:
		return "Quarterfinal"
	case 16:
		return "1/8-final"
	case 32:
		return "1/16-final"
	default:
		return fmt.Sprintf("Playoff (%d teams)", teamCount)
	}
}

// NormalizeBestOf forces a series length to an odd value of at least one.
func NormalizeBestOf(bestOf int) int {
	if bestOf < 1 {
		return 1
	}
	if bestOf%2 == 0 {
		return bestOf + 1
	}
	return bestOf
}

// PlanStage pairs seeds outer-vs-inner: 1 vs n, 2 vs n-1 and so on. With an
// odd field the single worst seed gets the bye. Matches of one series are
// spaced a fixed number of days apart; successive series start a day later
// so a stage never collapses onto one slot. kickoff, when non-nil, fixes
// the time of day of every match.
func PlanStage(seeds []Seed, bestOf int, start time.Time, kickoff *time.Duration) StagePlan {
	plan := StagePlan{Stage: StageName(len(seeds))}
	if len(seeds) < 2 {
		return plan
	}

	bestOf = NormalizeBestOf(bestOf)

	playing := seeds
	if len(playing)%2 != 0 {
		bye := playing[len(playing)-1]
		plan.Bye = &bye
		playing = playing[:len(playing)-1]
	}

	day := func(t time.Time) time.Time {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if kickoff != nil {
			t = t.Add(*kickoff)
		}
		return t
	}

	pairs := len(playing) / 2
	for i := 0; i < pairs; i++ {
		home := playing[i]
		away := playing[len(playing)-1-i]

		base := start.AddDate(0, 0, i*seriesOffsetDays)
		dates := make([]time.Time, 0, bestOf)
		for m := 0; m < bestOf; m++ {
			dates = append(dates, day(base.AddDate(0, 0, m*seriesMatchSpacingDays)))
		}

		plan.Series = append(plan.Series, SeriesPlan{
			Stage:      plan.Stage,
			Slot:       i,
			Home:       home,
			Away:       away,
			MatchDates: dates,
		})
	}
	return plan
}

// LastMatchDate returns the latest date the plan schedules, used to push a
// season's end date forward. Zero time when the plan is empty.
func (p StagePlan) LastMatchDate() time.Time {
	var last time.Time
	for _, s := range p.Series {
		for _, d := range s.MatchDates {
			if d.After(last) {
				last = d
			}
		}
	}
	return last
}
