package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedList(clubIDs ...int) []Seed {
	seeds := make([]Seed, 0, len(clubIDs))
	for i, id := range clubIDs {
		seeds = append(seeds, Seed{Rank: i + 1, ClubID: id})
	}
	return seeds
}

func TestPlanStageEightSeeds(t *testing.T) {
	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	plan := PlanStage(seedList(101, 102, 103, 104, 105, 106, 107, 108), 1, start, nil)

	assert.Equal(t, "Quarterfinal", plan.Stage)
	assert.Nil(t, plan.Bye)
	require.Len(t, plan.Series, 4)

	// Outer-vs-inner pairing: 1v8, 2v7, 3v6, 4v5.
	expected := [][2]int{{101, 108}, {102, 107}, {103, 106}, {104, 105}}
	for i, s := range plan.Series {
		assert.Equal(t, i, s.Slot)
		assert.Equal(t, expected[i][0], s.Home.ClubID)
		assert.Equal(t, expected[i][1], s.Away.ClubID)
		require.Len(t, s.MatchDates, 1)
	}

	// Successive series start one day apart.
	assert.Equal(t, start, plan.Series[0].MatchDates[0])
	assert.Equal(t, start.AddDate(0, 0, 3), plan.Series[3].MatchDates[0])
}

func TestPlanStageOddFieldByesWorstSeed(t *testing.T) {
	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	plan := PlanStage(seedList(11, 22, 33, 44, 55), 3, start, nil)

	require.NotNil(t, plan.Bye)
	assert.Equal(t, 5, plan.Bye.Rank)
	assert.Equal(t, 55, plan.Bye.ClubID)

	require.Len(t, plan.Series, 2)
	assert.Equal(t, 11, plan.Series[0].Home.ClubID)
	assert.Equal(t, 44, plan.Series[0].Away.ClubID)
	assert.Equal(t, 22, plan.Series[1].Home.ClubID)
	assert.Equal(t, 33, plan.Series[1].Away.ClubID)

	// Best-of-3: matches of one series are three days apart.
	require.Len(t, plan.Series[0].MatchDates, 3)
	assert.Equal(t, start.AddDate(0, 0, 3), plan.Series[0].MatchDates[1])
	assert.Equal(t, start.AddDate(0, 0, 6), plan.Series[0].MatchDates[2])
}

func TestPlanStageKickoffTime(t *testing.T) {
	start := time.Date(2026, time.March, 7, 15, 42, 0, 0, time.UTC)
	kickoff := 19*time.Hour + 30*time.Minute
	plan := PlanStage(seedList(1, 2), 1, start, &kickoff)

	require.Len(t, plan.Series, 1)
	got := plan.Series[0].MatchDates[0]
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, start.Day(), got.Day())
}

func TestPlanStageDegenerate(t *testing.T) {
	plan := PlanStage(seedList(1), 1, time.Now(), nil)
	assert.Empty(t, plan.Series)
	assert.Nil(t, plan.Bye)
}

func TestStageName(t *testing.T) {
	assert.Equal(t, "Final", StageName(2))
	assert.Equal(t, "Semifinal", StageName(4))
	assert.Equal(t, "Quarterfinal", StageName(8))
	assert.Equal(t, "1/8-final", StageName(16))
	assert.Equal(t, "1/16-final", StageName(32))
	assert.Equal(t, "Playoff (6 teams)", StageName(6))
	assert.Equal(t, "Playoff (3 teams)", StageName(3))
}

func TestNormalizeBestOf(t *testing.T) {
	assert.Equal(t, 1, NormalizeBestOf(0))
	assert.Equal(t, 1, NormalizeBestOf(-5))
	assert.Equal(t, 1, NormalizeBestOf(1))
	assert.Equal(t, 3, NormalizeBestOf(2))
	assert.Equal(t, 3, NormalizeBestOf(3))
	assert.Equal(t, 5, NormalizeBestOf(4))
}

func TestLastMatchDate(t *testing.T) {
	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	plan := PlanStage(seedList(1, 2, 3, 4), 3, start, nil)

	// Second series starts a day later; its third match is the latest.
	want := start.AddDate(0, 0, 1+2*3)
	assert.Equal(t, want, plan.LastMatchDate())

	var empty StagePlan
	assert.True(t, empty.LastMatchDate().IsZero())
}
