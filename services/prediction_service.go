package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type PredictionService interface {
	// CreatePrediction registers a 1/X/2 pick. Picks close as soon as the
	// match leaves the scheduled state or its kickoff time passes.
	CreatePrediction(ctx context.Context, userID, matchID int, pick models.MatchOutcome) (*models.Prediction, error)
	ListUserPredictions(ctx context.Context, userID int) ([]*models.Prediction, error)
	ListUserAchievements(ctx context.Context, userID int) ([]*models.UserAchievement, error)
}

type predictionService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	predictionRepo  repositories.PredictionRepository
	achievementRepo repositories.AchievementRepository
	now             func() time.Time
}

func NewPredictionService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	achievementRepo repositories.AchievementRepository,
) PredictionService {
	return &predictionService{
		db:              db,
		matchRepo:       matchRepo,
		predictionRepo:  predictionRepo,
		achievementRepo: achievementRepo,
		now:             time.Now,
	}
}

func (s *predictionService) CreatePrediction(ctx context.Context, userID, matchID int, pick models.MatchOutcome) (*models.Prediction, error) {
	switch pick {
	case models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway:
	default:
		return nil, ErrInvalidPredictionPick
	}

	match, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status != models.MatchStatusScheduled || !s.now().Before(match.Date) {
		return nil, ErrPredictionClosed
	}

	p := &models.Prediction{UserID: userID, MatchID: matchID, Pick: pick}
	if err := s.predictionRepo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *predictionService) ListUserPredictions(ctx context.Context, userID int) ([]*models.Prediction, error) {
	return s.predictionRepo.ListByUser(ctx, s.db, userID)
}

func (s *predictionService) ListUserAchievements(ctx context.Context, userID int) ([]*models.UserAchievement, error) {
	return s.achievementRepo.ListByUser(ctx, s.db, userID)
}
