package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type msMatchRepo struct {
	repositories.MatchRepository
	match   *models.Match
	updated *models.Match
}

func (s *msMatchRepo) GetByID(context.Context, repositories.SQLExecutor, int) (*models.Match, error) {
	return s.match, nil
}

func (s *msMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	s.updated = m
	return nil
}

type msEventRepo struct {
	repositories.MatchEventRepository
	deleted []int
	created int
}

func (s *msEventRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	s.deleted = append(s.deleted, matchID)
	return nil
}

func (s *msEventRepo) Create(context.Context, repositories.SQLExecutor, *models.MatchEvent) error {
	s.created++
	return nil
}

type msLineupRepo struct {
	repositories.LineupRepository
	deleted []int
}

func (s *msLineupRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	s.deleted = append(s.deleted, matchID)
	return nil
}

func (s *msLineupRepo) BatchCreate(context.Context, repositories.SQLExecutor, []*models.Lineup) error {
	return nil
}

type msFinalize struct {
	finalized []int
}

func (s *msFinalize) Finalize(_ context.Context, matchID int) error {
	s.finalized = append(s.finalized, matchID)
	return nil
}

func (s *msFinalize) AddHook(FinalizeHook) {}

func newMatchFixture(t *testing.T, match *models.Match) (*matchService, *msEventRepo, *msLineupRepo, *msFinalize) {
	events := &msEventRepo{}
	lineups := &msLineupRepo{}
	finalize := &msFinalize{}
	svc := &matchService{
		db:         newStubDB(t),
		matchRepo:  &msMatchRepo{match: match},
		eventRepo:  events,
		lineupRepo: lineups,
		finalize:   finalize,
	}
	return svc, events, lineups, finalize
}

func TestSubmitResultResolvesDrawnKnockoutMatch(t *testing.T) {
	// A knockout match ended 1:1 without a shootout, so no winner can be
	// read off it. Resubmitting the result with the shootout attached is
	// the way out.
	seriesID := 42
	match := finishedMatch(1, 2, 1, 1)
	match.ID = 10
	match.SeriesID = &seriesID
	svc, events, lineups, finalize := newMatchFixture(t, match)

	got, err := svc.SubmitResult(context.Background(), SubmitResultParams{
		MatchID:           10,
		HomeScore:         1,
		AwayScore:         1,
		HasShootout:       true,
		HomeShootoutScore: intPtr(4),
		AwayShootoutScore: intPtr(3),
	}, nil, nil)
	require.NoError(t, err)

	// Stale events and lineups are dropped before the corrected result goes in.
	assert.Equal(t, []int{10}, events.deleted)
	assert.Equal(t, []int{10}, lineups.deleted)
	assert.True(t, got.HasShootout)
	require.NotNil(t, got.HomeShootoutScore)
	assert.Equal(t, 4, *got.HomeShootoutScore)
	assert.Equal(t, []int{10}, finalize.finalized)

	winner, ok := matchWinner(got)
	assert.True(t, ok)
	assert.Equal(t, 1, winner)
}

func TestSubmitResultFreshMatchKeepsNothingToDelete(t *testing.T) {
	match := &models.Match{ID: 11, HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled}
	svc, events, lineups, finalize := newMatchFixture(t, match)

	_, err := svc.SubmitResult(context.Background(), SubmitResultParams{
		MatchID:   11,
		HomeScore: 2,
		AwayScore: 0,
	}, []EventInput{{ClubID: 1, PlayerID: 7, Type: models.EventGoal, Minute: 12}}, nil)
	require.NoError(t, err)

	assert.Empty(t, events.deleted)
	assert.Empty(t, lineups.deleted)
	assert.Equal(t, 1, events.created)
	assert.Equal(t, []int{11}, finalize.finalized)
}

func TestSubmitResultRejectsForeignClub(t *testing.T) {
	match := &models.Match{ID: 11, HomeClubID: 1, AwayClubID: 2, Status: models.MatchStatusScheduled}
	svc, events, _, finalize := newMatchFixture(t, match)

	_, err := svc.SubmitResult(context.Background(), SubmitResultParams{MatchID: 11},
		[]EventInput{{ClubID: 9, PlayerID: 7, Type: models.EventGoal, Minute: 12}}, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Zero(t, events.created)
	assert.Empty(t, finalize.finalized)
}

func TestSetStatusOnFinishedMatch(t *testing.T) {
	match := finishedMatch(1, 2, 1, 1)
	match.ID = 10
	svc, _, _, _ := newMatchFixture(t, match)

	// A finished match never moves back through status edits, only through
	// result resubmission.
	assert.ErrorIs(t, svc.SetStatus(context.Background(), 10, models.MatchStatusScheduled), ErrMatchAlreadyFinished)
	assert.ErrorIs(t, svc.SetStatus(context.Background(), 10, models.MatchStatusLive), ErrMatchAlreadyFinished)

	err := svc.SetStatus(context.Background(), 10, models.MatchStatusFinished)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
