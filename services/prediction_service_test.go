package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type stubMatchRepo struct {
	repositories.MatchRepository
	match   *models.Match
	matches []*models.Match
	err     error
}

func (s stubMatchRepo) GetByID(context.Context, repositories.SQLExecutor, int) (*models.Match, error) {
	return s.match, s.err
}

func (s stubMatchRepo) ListBySeason(context.Context, repositories.SQLExecutor, int, *models.MatchStatus) ([]*models.Match, error) {
	return s.matches, nil
}

type stubPredictionRepo struct {
	repositories.PredictionRepository
	created *models.Prediction
	err     error
}

func (s *stubPredictionRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Prediction) error {
	if s.err != nil {
		return s.err
	}
	p.ID = 1
	s.created = p
	return nil
}

func newPredictionFixture(match *models.Match, now time.Time) (*predictionService, *stubPredictionRepo) {
	predictions := &stubPredictionRepo{}
	svc := &predictionService{
		matchRepo:      stubMatchRepo{match: match},
		predictionRepo: predictions,
		now:            func() time.Time { return now },
	}
	return svc, predictions
}

func TestCreatePrediction(t *testing.T) {
	kickoff := time.Date(2026, time.May, 1, 18, 0, 0, 0, time.UTC)
	match := &models.Match{ID: 5, Status: models.MatchStatusScheduled, Date: kickoff}
	svc, predictions := newPredictionFixture(match, kickoff.Add(-time.Hour))

	p, err := svc.CreatePrediction(context.Background(), 9, 5, models.OutcomeHome)
	require.NoError(t, err)
	assert.Equal(t, 9, p.UserID)
	assert.Equal(t, 5, p.MatchID)
	assert.Equal(t, models.OutcomeHome, p.Pick)
	assert.Same(t, p, predictions.created)
}

func TestCreatePredictionRejectsBadPick(t *testing.T) {
	svc, _ := newPredictionFixture(&models.Match{}, time.Now())

	_, err := svc.CreatePrediction(context.Background(), 9, 5, "home")
	assert.ErrorIs(t, err, ErrInvalidPredictionPick)
}

func TestCreatePredictionClosedWindow(t *testing.T) {
	kickoff := time.Date(2026, time.May, 1, 18, 0, 0, 0, time.UTC)

	// Kickoff time has passed.
	match := &models.Match{ID: 5, Status: models.MatchStatusScheduled, Date: kickoff}
	svc, _ := newPredictionFixture(match, kickoff)
	_, err := svc.CreatePrediction(context.Background(), 9, 5, models.OutcomeDraw)
	assert.ErrorIs(t, err, ErrPredictionClosed)

	// Match already left the scheduled state.
	match = &models.Match{ID: 5, Status: models.MatchStatusLive, Date: kickoff}
	svc, _ = newPredictionFixture(match, kickoff.Add(-time.Hour))
	_, err = svc.CreatePrediction(context.Background(), 9, 5, models.OutcomeAway)
	assert.ErrorIs(t, err, ErrPredictionClosed)
}

func TestCreatePredictionMatchNotFound(t *testing.T) {
	svc := &predictionService{
		matchRepo:      stubMatchRepo{err: repositories.ErrMatchNotFound},
		predictionRepo: &stubPredictionRepo{},
		now:            time.Now,
	}

	_, err := svc.CreatePrediction(context.Background(), 9, 5, models.OutcomeHome)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
