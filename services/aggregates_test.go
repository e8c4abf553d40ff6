package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
)

func finishedMatch(home, away, hs, as int) *models.Match {
	return &models.Match{
		HomeClubID: home,
		AwayClubID: away,
		HomeScore:  intPtr(hs),
		AwayScore:  intPtr(as),
		Status:     models.MatchStatusFinished,
	}
}

func TestMatchOutcome(t *testing.T) {
	m := finishedMatch(1, 2, 3, 1)
	out, ok := matchOutcome(m)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, out)

	m = finishedMatch(1, 2, 0, 2)
	out, _ = matchOutcome(m)
	assert.Equal(t, models.OutcomeAway, out)

	m = finishedMatch(1, 2, 1, 1)
	out, _ = matchOutcome(m)
	assert.Equal(t, models.OutcomeDraw, out)

	// Shootout breaks a level score.
	m = finishedMatch(1, 2, 1, 1)
	m.HasShootout = true
	m.HomeShootoutScore = intPtr(4)
	m.AwayShootoutScore = intPtr(5)
	out, _ = matchOutcome(m)
	assert.Equal(t, models.OutcomeAway, out)

	// Unfinished or scoreless matches have no outcome.
	_, ok = matchOutcome(&models.Match{Status: models.MatchStatusScheduled})
	assert.False(t, ok)
	_, ok = matchOutcome(&models.Match{Status: models.MatchStatusFinished})
	assert.False(t, ok)
}

func TestBuildStandingsBasicTable(t *testing.T) {
	matches := []*models.Match{
		finishedMatch(1, 2, 2, 0), // 1 beats 2
		finishedMatch(2, 3, 1, 1), // draw
		finishedMatch(3, 1, 0, 3), // 1 beats 3
	}
	rows := buildStandings(10, models.FormatSingleRoundRobin, []int{1, 2, 3}, matches)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].ClubID)
	assert.Equal(t, 6, rows[0].Points)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, 5, rows[0].GoalsFor)
	assert.Equal(t, 0, rows[0].GoalsAgainst)
	assert.Equal(t, 5, rows[0].GoalDiff)
	assert.Equal(t, 1, rows[0].Rank)

	assert.Equal(t, 2, rows[1].ClubID)
	assert.Equal(t, 1, rows[1].Points)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 3, rows[2].ClubID)
	assert.Equal(t, 1, rows[2].Points)
	assert.Equal(t, 3, rows[2].Rank)
	for _, r := range rows {
		assert.Equal(t, 10, r.SeasonID)
	}
}

func TestBuildStandingsHeadToHeadTiebreak(t *testing.T) {
	// Clubs 1 and 2 finish level on points and goal difference, but 2 won
	// the direct meeting, so 2 ranks ahead despite the higher club id.
	matches := []*models.Match{
		finishedMatch(2, 1, 2, 0),
		finishedMatch(4, 2, 2, 0),
		finishedMatch(1, 3, 2, 0),
	}
	rows := buildStandings(10, models.FormatSingleRoundRobin, []int{1, 2, 3, 4}, matches)
	require.Len(t, rows, 4)

	assert.Equal(t, 4, rows[0].ClubID)
	assert.Equal(t, rows[1].Points, rows[2].Points)
	assert.Equal(t, rows[1].GoalDiff, rows[2].GoalDiff)
	assert.Equal(t, 2, rows[1].ClubID)
	assert.Equal(t, 1, rows[2].ClubID)
	assert.Equal(t, 3, rows[3].ClubID)
}

func TestBuildStandingsKnockoutExclusion(t *testing.T) {
	seriesID := 77
	knockout := finishedMatch(1, 2, 2, 0)
	knockout.SeriesID = &seriesID
	matches := []*models.Match{
		finishedMatch(1, 2, 1, 1),
		knockout,
	}

	rows := buildStandings(10, models.FormatSingleRoundRobin, []int{1, 2}, matches)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Played)
	assert.Equal(t, 1, rows[0].Points)

	// group_playoff folds knockout results into the table.
	rows = buildStandings(10, models.FormatGroupPlayoff, []int{1, 2}, matches)
	assert.Equal(t, 2, rows[0].Played)
	assert.Equal(t, 1, rows[0].ClubID)
	assert.Equal(t, 4, rows[0].Points)
}

func TestBuildStandingsIgnoresStaleClubs(t *testing.T) {
	matches := []*models.Match{
		finishedMatch(1, 9, 5, 0), // club 9 left the field
		finishedMatch(1, 2, 0, 0),
	}
	rows := buildStandings(10, models.FormatSingleRoundRobin, []int{1, 2}, matches)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 1, r.Played)
	}
}

func TestBuildStandingsEveryParticipantGetsRow(t *testing.T) {
	rows := buildStandings(10, models.FormatSingleRoundRobin, []int{4, 5, 6}, nil)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
		assert.Zero(t, r.Played)
	}
	// All on zero points, club id keeps the order deterministic.
	assert.Equal(t, 4, rows[0].ClubID)
	assert.Equal(t, 6, rows[2].ClubID)
}

func TestBuildPlayerSeasonStats(t *testing.T) {
	assistID := 31
	events := []*models.MatchEvent{
		{ClubID: 1, PlayerID: 30, Type: models.EventGoal, AssistPlayerID: &assistID},
		{ClubID: 1, PlayerID: 30, Type: models.EventGoal},
		{ClubID: 1, PlayerID: 31, Type: models.EventYellowCard},
		{ClubID: 2, PlayerID: 40, Type: models.EventSecondYellow},
		{ClubID: 2, PlayerID: 41, Type: models.EventRedCard},
	}
	lineups := []*models.Lineup{
		{ClubID: 1, PlayerID: 30},
		{ClubID: 1, PlayerID: 31},
		{ClubID: 2, PlayerID: 40},
	}

	rows := buildPlayerSeasonStats(10, events, lineups)
	require.Len(t, rows, 4)

	byPlayer := map[int]*models.PlayerSeasonStats{}
	for _, r := range rows {
		assert.Equal(t, 10, r.SeasonID)
		byPlayer[r.PlayerID] = r
	}

	assert.Equal(t, 2, byPlayer[30].Goals)
	assert.Equal(t, 1, byPlayer[30].Matches)
	assert.Equal(t, 1, byPlayer[31].Assists)
	assert.Equal(t, 1, byPlayer[31].YellowCards)

	// A second yellow counts both the yellow and the red.
	assert.Equal(t, 1, byPlayer[40].YellowCards)
	assert.Equal(t, 1, byPlayer[40].RedCards)

	// Player 41 appears through the event even without a lineup row.
	assert.Equal(t, 0, byPlayer[41].Matches)
	assert.Equal(t, 1, byPlayer[41].RedCards)

	// Sorted by club then player.
	assert.Equal(t, 30, rows[0].PlayerID)
	assert.Equal(t, 41, rows[3].PlayerID)
}

// playedMatch is finishedMatch with the identity and date that the
// suspension replay keys on.
func playedMatch(id, home, away int, date time.Time) *models.Match {
	m := finishedMatch(home, away, 1, 0)
	m.ID = id
	m.Date = date
	return m
}

func banDates(n int) []time.Time {
	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i*7)
	}
	return out
}

func TestBuildDisqualificationsRedCard(t *testing.T) {
	d := banDates(3)
	m1 := playedMatch(1, 1, 2, d[0])
	m2 := playedMatch(2, 1, 3, d[1])
	m3 := playedMatch(3, 4, 1, d[2])
	events := map[int][]*models.MatchEvent{
		1: {{MatchID: 1, ClubID: 1, PlayerID: 10, Type: models.EventRedCard}},
	}

	// The ban opens in match 1 and does not count that match as missed.
	bans := buildDisqualifications(10, []*models.Match{m1, m2}, events)
	require.Len(t, bans, 1)
	ban := bans[0]
	assert.Equal(t, models.ReasonRedCard, ban.Reason)
	assert.Equal(t, 2, ban.BanMatches)
	assert.Equal(t, 1, ban.MissedMatches)
	assert.True(t, ban.Active)

	// Second club match serves the rest of it.
	bans = buildDisqualifications(10, []*models.Match{m1, m2, m3}, events)
	require.Len(t, bans, 1)
	assert.Equal(t, 2, bans[0].MissedMatches)
	assert.False(t, bans[0].Active)
}

func TestBuildDisqualificationsSecondYellow(t *testing.T) {
	d := banDates(2)
	m1 := playedMatch(1, 1, 2, d[0])
	m2 := playedMatch(2, 2, 3, d[1])
	events := map[int][]*models.MatchEvent{
		1: {{MatchID: 1, ClubID: 2, PlayerID: 20, Type: models.EventSecondYellow}},
	}

	bans := buildDisqualifications(10, []*models.Match{m1, m2}, events)
	require.Len(t, bans, 1)
	assert.Equal(t, models.ReasonSecondYellow, bans[0].Reason)
	assert.Equal(t, 1, bans[0].BanMatches)
	assert.Equal(t, 1, bans[0].MissedMatches)
	assert.False(t, bans[0].Active)
}

func TestBuildDisqualificationsAccumulatedYellows(t *testing.T) {
	d := banDates(5)
	matches := make([]*models.Match, 0, 5)
	events := map[int][]*models.MatchEvent{}
	for i := 0; i < 5; i++ {
		matches = append(matches, playedMatch(i+1, 1, 2+i, d[i]))
	}
	// One plain yellow per match for the same player.
	for i := 0; i < models.YellowCardThreshold; i++ {
		events[i+1] = []*models.MatchEvent{
			{MatchID: i + 1, ClubID: 1, PlayerID: 11, Type: models.EventYellowCard},
		}
	}

	// Three yellows: nothing yet.
	bans := buildDisqualifications(10, matches[:3], events)
	assert.Empty(t, bans)

	// Fourth yellow opens the ban, the fifth match serves it.
	bans = buildDisqualifications(10, matches, events)
	require.Len(t, bans, 1)
	assert.Equal(t, models.ReasonAccumulatedCards, bans[0].Reason)
	assert.Equal(t, 11, bans[0].PlayerID)
	assert.Equal(t, 1, bans[0].MissedMatches)
	assert.False(t, bans[0].Active)
}

func TestBuildDisqualificationsReplaysInDateOrder(t *testing.T) {
	d := banDates(2)
	early := playedMatch(2, 1, 2, d[0]) // dismissal here
	late := playedMatch(1, 1, 3, d[1])  // lower id, later date
	events := map[int][]*models.MatchEvent{
		2: {{MatchID: 2, ClubID: 1, PlayerID: 10, Type: models.EventSecondYellow}},
	}

	// Slice order must not matter: the later match serves the ban either way.
	bans := buildDisqualifications(10, []*models.Match{late, early}, events)
	require.Len(t, bans, 1)
	assert.Equal(t, 1, bans[0].MissedMatches)
	assert.False(t, bans[0].Active)
}

func TestBuildCareerStats(t *testing.T) {
	clubID := 1
	seasonRows := []*models.PlayerSeasonStats{
		{SeasonID: 10, ClubID: 1, PlayerID: 30, Matches: 5, Goals: 3},
		{SeasonID: 11, ClubID: 1, PlayerID: 30, Matches: 4, Goals: 2, YellowCards: 1},
	}
	roster := []*models.Player{
		{ID: 30, ClubID: &clubID},
		{ID: 32, ClubID: &clubID}, // never played
		{ID: 33},                  // free agent, no row
	}

	rows := buildCareerStats(seasonRows, roster)
	require.Len(t, rows, 2)

	assert.Equal(t, 30, rows[0].PlayerID)
	assert.Equal(t, 9, rows[0].Matches)
	assert.Equal(t, 5, rows[0].Goals)
	assert.Equal(t, 1, rows[0].YellowCards)

	assert.Equal(t, 32, rows[1].PlayerID)
	assert.Zero(t, rows[1].Matches)
}
