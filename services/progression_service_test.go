package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/schedule"
)

func TestMatchWinner(t *testing.T) {
	m := finishedMatch(1, 2, 3, 1)
	winner, ok := matchWinner(m)
	require.True(t, ok)
	assert.Equal(t, 1, winner)

	m = finishedMatch(1, 2, 0, 1)
	winner, _ = matchWinner(m)
	assert.Equal(t, 2, winner)

	// Level regulation score is undecided without a shootout.
	m = finishedMatch(1, 2, 2, 2)
	_, ok = matchWinner(m)
	assert.False(t, ok)

	m.HasShootout = true
	m.HomeShootoutScore = intPtr(5)
	m.AwayShootoutScore = intPtr(3)
	winner, ok = matchWinner(m)
	require.True(t, ok)
	assert.Equal(t, 1, winner)

	// Shootout flag without recorded kicks stays undecided.
	m = finishedMatch(1, 2, 1, 1)
	m.HasShootout = true
	_, ok = matchWinner(m)
	assert.False(t, ok)

	_, ok = matchWinner(&models.Match{HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled})
	assert.False(t, ok)
}

func TestSeriesWinner(t *testing.T) {
	series := &models.Series{HomeClubID: 1, AwayClubID: 2, PlannedMatches: 3}

	// Two wins take a best-of-3.
	matches := []*models.Match{
		finishedMatch(1, 2, 2, 0),
		finishedMatch(2, 1, 1, 0),
	}
	_, ok := seriesWinner(series, matches)
	assert.False(t, ok)

	matches = append(matches, finishedMatch(1, 2, 3, 1))
	winner, ok := seriesWinner(series, matches)
	require.True(t, ok)
	assert.Equal(t, 1, winner)
}

func TestSeriesWinnerIgnoresUndecidedMatches(t *testing.T) {
	series := &models.Series{HomeClubID: 1, AwayClubID: 2, PlannedMatches: 1}

	matches := []*models.Match{
		finishedMatch(1, 2, 1, 1), // drawn without shootout
	}
	_, ok := seriesWinner(series, matches)
	assert.False(t, ok)

	scheduled := &models.Match{HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled}
	matches = append(matches, scheduled, finishedMatch(2, 1, 2, 0))
	winner, ok := seriesWinner(series, matches)
	require.True(t, ok)
	assert.Equal(t, 2, winner)
}

func TestSeriesWinnerBye(t *testing.T) {
	bye := &models.Series{HomeClubID: 7, AwayClubID: 7, PlannedMatches: 0}
	winner, ok := seriesWinner(bye, nil)
	require.True(t, ok)
	assert.Equal(t, 7, winner)
}

func TestStageWinnersKeepSlotOrder(t *testing.T) {
	stage := []*models.Series{
		{Slot: 1, HomeClubID: 3, AwayClubID: 4, HomeSeed: intPtr(2), AwaySeed: intPtr(3), WinnerClubID: intPtr(4)},
		{Slot: 0, HomeClubID: 1, AwayClubID: 2, HomeSeed: intPtr(1), AwaySeed: intPtr(4), WinnerClubID: intPtr(1)},
		{Slot: 2, HomeClubID: 5, AwayClubID: 6, HomeSeed: intPtr(5), AwaySeed: intPtr(6)}, // undecided
	}

	winners := stageWinners(stage)
	require.Len(t, winners, 2)
	assert.Equal(t, 0, winners[0].slot)
	assert.Equal(t, 1, winners[0].clubID)
	assert.Equal(t, 1, winners[0].seed)
	assert.Equal(t, 1, winners[1].slot)
	assert.Equal(t, 4, winners[1].clubID)
	assert.Equal(t, 3, winners[1].seed)
}

func TestStagePlannedMatches(t *testing.T) {
	stage := []*models.Series{
		{HomeClubID: 9, AwayClubID: 9, PlannedMatches: 0}, // bye
		{HomeClubID: 1, AwayClubID: 2, PlannedMatches: 5},
	}
	assert.Equal(t, 5, stagePlannedMatches(stage))
	assert.Equal(t, 1, stagePlannedMatches(nil))
}

type pgSeriesRepo struct {
	repositories.SeriesRepository
	all     []*models.Series
	created []*models.Series
	nextID  int
}

func (s *pgSeriesRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Series, error) {
	for _, sr := range s.all {
		if sr.ID == id {
			return sr, nil
		}
	}
	return nil, repositories.ErrSeriesNotFound
}

func (s *pgSeriesRepo) ListByStage(_ context.Context, _ repositories.SQLExecutor, seasonID int, stage string) ([]*models.Series, error) {
	out := []*models.Series{}
	for _, sr := range s.all {
		if sr.SeasonID == seasonID && sr.Stage == stage {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (s *pgSeriesRepo) CountByStage(_ context.Context, _ repositories.SQLExecutor, seasonID int, stage string) (int, error) {
	rows, _ := s.ListByStage(nil, nil, seasonID, stage)
	return len(rows), nil
}

func (s *pgSeriesRepo) Create(_ context.Context, _ repositories.SQLExecutor, series *models.Series) error {
	s.nextID++
	series.ID = s.nextID
	s.all = append(s.all, series)
	s.created = append(s.created, series)
	return nil
}

func (s *pgSeriesRepo) Finish(_ context.Context, _ repositories.SQLExecutor, id int, winnerClubID int) error {
	sr, err := s.GetByID(nil, nil, id)
	if err != nil {
		return err
	}
	sr.Status = models.SeriesStatusFinished
	sr.WinnerClubID = intPtr(winnerClubID)
	return nil
}

type pgSeasonRepo struct {
	repositories.SeasonRepository
	season *models.Season
}

func (s *pgSeasonRepo) GetByID(context.Context, repositories.SQLExecutor, int) (*models.Season, error) {
	return s.season, nil
}

func (s *pgSeasonRepo) SetActive(_ context.Context, _ repositories.SQLExecutor, _ int, active bool) error {
	s.season.Active = active
	return nil
}

func (s *pgSeasonRepo) ExtendEndDate(_ context.Context, _ repositories.SQLExecutor, _ int, endDate time.Time) error {
	s.season.EndDate = endDate
	return nil
}

type pgMatchRepo struct {
	repositories.MatchRepository
	bySeries map[int][]*models.Match
	created  []*models.Match
}

func (s *pgMatchRepo) ListBySeries(_ context.Context, _ repositories.SQLExecutor, seriesID int) ([]*models.Match, error) {
	return s.bySeries[seriesID], nil
}

func (s *pgMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	s.created = append(s.created, m)
	return nil
}

func (s *pgMatchRepo) DeleteUnplayedBySeries(context.Context, repositories.SQLExecutor, int) (int64, error) {
	return 0, nil
}

// newSemifinalFixture sets up a decided four-club single-elimination
// bracket: club 1 beat club 4 in slot 0, club 3 beat club 2 in slot 1. The
// slot 0 series is still open so AdvanceFromMatch gets to close it.
func newSemifinalFixture() (*progressionService, *pgSeriesRepo, *pgMatchRepo, *models.Match) {
	semiDate := time.Date(2026, time.June, 1, 18, 0, 0, 0, time.UTC)

	seriesRepo := &pgSeriesRepo{nextID: 200}
	seriesRepo.all = []*models.Series{
		{ID: 100, SeasonID: 7, Stage: schedule.StageName(4), Slot: 0, PlannedMatches: 1,
			HomeClubID: 1, AwayClubID: 4, HomeSeed: intPtr(1), AwaySeed: intPtr(4),
			Status: models.SeriesStatusInProgress},
		{ID: 101, SeasonID: 7, Stage: schedule.StageName(4), Slot: 1, PlannedMatches: 1,
			HomeClubID: 3, AwayClubID: 2, HomeSeed: intPtr(3), AwaySeed: intPtr(2),
			Status: models.SeriesStatusFinished, WinnerClubID: intPtr(3)},
	}

	decider := finishedMatch(1, 4, 2, 0)
	decider.ID = 500
	decider.SeasonID = 7
	decider.SeriesID = intPtr(100)
	decider.Date = semiDate

	other := finishedMatch(3, 2, 1, 0)
	other.SeasonID = 7
	other.SeriesID = intPtr(101)
	other.Date = semiDate.AddDate(0, 0, 1)

	matchRepo := &pgMatchRepo{bySeries: map[int][]*models.Match{
		100: {decider},
		101: {other},
	}}

	svc := &progressionService{
		seasonRepo: &pgSeasonRepo{season: &models.Season{
			ID: 7, Format: models.FormatSingleElimination, Active: true,
		}},
		seriesRepo: seriesRepo,
		matchRepo:  matchRepo,
		logger:     testLogger(),
	}
	return svc, seriesRepo, matchRepo, decider
}

func TestAdvanceFromMatchPlansFinalAndThirdPlace(t *testing.T) {
	svc, seriesRepo, matchRepo, decider := newSemifinalFixture()

	require.NoError(t, svc.AdvanceFromMatch(context.Background(), nil, decider))

	semi := seriesRepo.all[0]
	assert.Equal(t, models.SeriesStatusFinished, semi.Status)
	require.NotNil(t, semi.WinnerClubID)
	assert.Equal(t, 1, *semi.WinnerClubID)

	// One final plus one consolation series, one match each.
	require.Len(t, seriesRepo.created, 2)
	final, third := seriesRepo.created[0], seriesRepo.created[1]

	assert.Equal(t, schedule.StageName(2), final.Stage)
	assert.Equal(t, 1, final.HomeClubID)
	assert.Equal(t, 3, final.AwayClubID)

	// Semifinal losers paired by seed, lower seed at home.
	assert.Equal(t, schedule.ThirdPlaceLabel, third.Stage)
	assert.Equal(t, 2, third.HomeClubID)
	assert.Equal(t, 4, third.AwayClubID)
	assert.Equal(t, 1, third.PlannedMatches)

	require.Len(t, matchRepo.created, 2)
	assert.Equal(t, final.ID, *matchRepo.created[0].SeriesID)
	assert.Equal(t, third.ID, *matchRepo.created[1].SeriesID)
}

func TestAdvanceFromMatchAlreadyAdvancedStage(t *testing.T) {
	svc, seriesRepo, matchRepo, decider := newSemifinalFixture()

	require.NoError(t, svc.AdvanceFromMatch(context.Background(), nil, decider))
	planned := len(seriesRepo.created)
	scheduled := len(matchRepo.created)

	// Re-finalizing the same match must not grow the bracket.
	require.NoError(t, svc.AdvanceFromMatch(context.Background(), nil, decider))
	assert.Len(t, seriesRepo.created, planned)
	assert.Len(t, matchRepo.created, scheduled)
}

func TestAdvanceFromMatchClosesSeasonAfterFinal(t *testing.T) {
	finalDate := time.Date(2026, time.June, 10, 18, 0, 0, 0, time.UTC)

	seriesRepo := &pgSeriesRepo{nextID: 300}
	seriesRepo.all = []*models.Series{
		{ID: 150, SeasonID: 7, Stage: schedule.StageName(2), Slot: 0, PlannedMatches: 1,
			HomeClubID: 1, AwayClubID: 3, HomeSeed: intPtr(1), AwaySeed: intPtr(2),
			Status: models.SeriesStatusFinished, WinnerClubID: intPtr(1)},
	}
	decider := finishedMatch(1, 3, 2, 1)
	decider.SeasonID = 7
	decider.SeriesID = intPtr(150)
	decider.Date = finalDate

	season := &models.Season{ID: 7, Format: models.FormatSingleElimination, Active: true}
	svc := &progressionService{
		seasonRepo: &pgSeasonRepo{season: season},
		seriesRepo: seriesRepo,
		matchRepo:  &pgMatchRepo{bySeries: map[int][]*models.Match{150: {decider}}},
		logger:     testLogger(),
	}

	require.NoError(t, svc.AdvanceFromMatch(context.Background(), nil, decider))
	assert.False(t, season.Active)
	assert.Empty(t, seriesRepo.created)
}
