package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type fzSeasonRepo struct {
	repositories.SeasonRepository
	season *models.Season
}

func (s fzSeasonRepo) GetByID(context.Context, repositories.SQLExecutor, int) (*models.Season, error) {
	return s.season, nil
}

type fzParticipantRepo struct {
	repositories.ParticipantRepository
	clubIDs []int
}

func (s fzParticipantRepo) ListBySeason(context.Context, repositories.SQLExecutor, int) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0, len(s.clubIDs))
	for _, id := range s.clubIDs {
		out = append(out, &models.Participant{ClubID: id})
	}
	return out, nil
}

type fzEventRepo struct {
	repositories.MatchEventRepository
	events []*models.MatchEvent
}

func (s fzEventRepo) ListByMatches(context.Context, repositories.SQLExecutor, []int) ([]*models.MatchEvent, error) {
	return s.events, nil
}

type fzLineupRepo struct {
	repositories.LineupRepository
}

func (s fzLineupRepo) ListByMatches(context.Context, repositories.SQLExecutor, []int) ([]*models.Lineup, error) {
	return nil, nil
}

type fzClubStatsRepo struct {
	repositories.ClubStatsRepository
	rows []*models.ClubSeasonStats
}

func (s *fzClubStatsRepo) DeleteBySeason(context.Context, repositories.SQLExecutor, int) error {
	return nil
}

func (s *fzClubStatsRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, rows []*models.ClubSeasonStats) error {
	s.rows = rows
	return nil
}

type fzPlayerStatsRepo struct {
	repositories.PlayerStatsRepository
	seasonsClubs []int
	careerClubs  []int
}

func (s *fzPlayerStatsRepo) ReplaceSeason(context.Context, repositories.SQLExecutor, int, []*models.PlayerSeasonStats) error {
	return nil
}

func (s *fzPlayerStatsRepo) ListSeasonsByClubs(_ context.Context, _ repositories.SQLExecutor, clubIDs []int) ([]*models.PlayerSeasonStats, error) {
	s.seasonsClubs = clubIDs
	return nil, nil
}

func (s *fzPlayerStatsRepo) ReplaceCareerByClubs(_ context.Context, _ repositories.SQLExecutor, clubIDs []int, _ []*models.PlayerCareerStats) error {
	s.careerClubs = clubIDs
	return nil
}

type fzPlayerRepo struct {
	repositories.PlayerRepository
}

func (s fzPlayerRepo) ListByClubs(context.Context, repositories.SQLExecutor, []int) ([]*models.Player, error) {
	return nil, nil
}

type fzDisqRepo struct {
	repositories.DisqualificationRepository
	replaced []*models.Disqualification
	calls    int
}

func (s *fzDisqRepo) ReplaceSeason(_ context.Context, _ repositories.SQLExecutor, _ int, rows []*models.Disqualification) error {
	s.replaced = rows
	s.calls++
	return nil
}

type fzPredictionRepo struct {
	repositories.PredictionRepository
}

func (s fzPredictionRepo) ListByMatch(context.Context, repositories.SQLExecutor, int) ([]*models.Prediction, error) {
	return nil, nil
}

type fzProgression struct {
	calls int
}

func (s *fzProgression) AdvanceFromMatch(context.Context, repositories.SQLExecutor, *models.Match) error {
	s.calls++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFinalizeFixture(t *testing.T, match *models.Match, participantClubs []int) (*finalizeService, *fzPlayerStatsRepo, *fzDisqRepo, *fzProgression) {
	playerStats := &fzPlayerStatsRepo{}
	disq := &fzDisqRepo{}
	progression := &fzProgression{}
	svc := &finalizeService{
		db:              newStubDB(t),
		seasonRepo:      fzSeasonRepo{season: &models.Season{ID: match.SeasonID, Format: models.FormatSingleRoundRobin, Active: true}},
		matchRepo:       stubMatchRepo{match: match, matches: []*models.Match{match}},
		participantRepo: fzParticipantRepo{clubIDs: participantClubs},
		playerRepo:      fzPlayerRepo{},
		eventRepo:       fzEventRepo{},
		lineupRepo:      fzLineupRepo{},
		clubStatsRepo:   &fzClubStatsRepo{},
		playerStatsRepo: playerStats,
		disqRepo:        disq,
		predictionRepo:  fzPredictionRepo{},
		progression:     progression,
		logger:          testLogger(),
	}
	return svc, playerStats, disq, progression
}

func TestFinalizeRebuildsCareerForWholeField(t *testing.T) {
	match := finishedMatch(1, 2, 2, 0)
	match.ID = 10
	match.SeasonID = 7

	// Career rows follow the season rows for every participant, not just the
	// two clubs that played.
	svc, playerStats, disq, progression := newFinalizeFixture(t, match, []int{1, 2, 3, 4})
	require.NoError(t, svc.Finalize(context.Background(), match.ID))

	assert.Equal(t, []int{1, 2, 3, 4}, playerStats.seasonsClubs)
	assert.Equal(t, []int{1, 2, 3, 4}, playerStats.careerClubs)
	assert.Equal(t, 1, disq.calls)
	assert.Equal(t, 1, progression.calls)
}

func TestFinalizeRejectsUnfinishedMatch(t *testing.T) {
	match := &models.Match{ID: 10, SeasonID: 7, HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled}
	svc, _, disq, _ := newFinalizeFixture(t, match, []int{1, 2})

	err := svc.Finalize(context.Background(), match.ID)
	assert.ErrorIs(t, err, ErrMatchNotFinished)
	assert.Zero(t, disq.calls)
}

func TestFinalizeRunsHooksAfterCommit(t *testing.T) {
	match := finishedMatch(1, 2, 1, 1)
	match.ID = 10
	match.SeasonID = 7

	svc, _, _, _ := newFinalizeFixture(t, match, []int{1, 2})

	var got *FinalizeResult
	svc.AddHook(func(_ context.Context, res *FinalizeResult) { got = res })
	svc.AddHook(func(context.Context, *FinalizeResult) { panic("hook gone wrong") })

	require.NoError(t, svc.Finalize(context.Background(), match.ID))
	require.NotNil(t, got)
	assert.Equal(t, 7, got.Season.ID)
	assert.Len(t, got.Standings, 2)
}
