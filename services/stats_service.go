package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// StatsService exposes the aggregate tables maintained by finalization.
type StatsService interface {
	ListStandings(ctx context.Context, seasonID int) ([]*models.ClubSeasonStats, error)
	ListPlayerSeasonStats(ctx context.Context, seasonID int) ([]*models.PlayerSeasonStats, error)
	ListPlayerCareerStats(ctx context.Context, clubID int) ([]*models.PlayerCareerStats, error)
	ListDisqualifications(ctx context.Context, seasonID int, activeOnly bool) ([]*models.Disqualification, error)
}

type statsService struct {
	db              *sql.DB
	seasonRepo      repositories.SeasonRepository
	clubStatsRepo   repositories.ClubStatsRepository
	playerStatsRepo repositories.PlayerStatsRepository
	disqRepo        repositories.DisqualificationRepository
}

func NewStatsService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	clubStatsRepo repositories.ClubStatsRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	disqRepo repositories.DisqualificationRepository,
) StatsService {
	return &statsService{
		db:              db,
		seasonRepo:      seasonRepo,
		clubStatsRepo:   clubStatsRepo,
		playerStatsRepo: playerStatsRepo,
		disqRepo:        disqRepo,
	}
}

func (s *statsService) ListStandings(ctx context.Context, seasonID int) ([]*models.ClubSeasonStats, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.clubStatsRepo.ListBySeason(ctx, s.db, seasonID)
}

func (s *statsService) ListPlayerSeasonStats(ctx context.Context, seasonID int) ([]*models.PlayerSeasonStats, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.playerStatsRepo.ListBySeason(ctx, s.db, seasonID)
}

func (s *statsService) ListPlayerCareerStats(ctx context.Context, clubID int) ([]*models.PlayerCareerStats, error) {
	return s.playerStatsRepo.ListCareerByClub(ctx, s.db, clubID)
}

func (s *statsService) ListDisqualifications(ctx context.Context, seasonID int, activeOnly bool) ([]*models.Disqualification, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.disqRepo.ListBySeason(ctx, s.db, seasonID, activeOnly)
}

func (s *statsService) ensureSeason(ctx context.Context, seasonID int) error {
	if _, err := s.seasonRepo.GetByID(ctx, s.db, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return ErrSeasonNotFound
		}
		return err
	}
	return nil
}
