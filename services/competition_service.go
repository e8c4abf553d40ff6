package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type CompetitionService interface {
	CreateCompetition(ctx context.Context, name string, country *string) (*models.Competition, error)
	GetCompetition(ctx context.Context, id int) (*models.Competition, error)
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
	ListSeasons(ctx context.Context, competitionID int) ([]*models.Season, error)
}

type competitionService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	seasonRepo      repositories.SeasonRepository
}

func NewCompetitionService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	seasonRepo repositories.SeasonRepository,
) CompetitionService {
	return &competitionService{
		db:              db,
		competitionRepo: competitionRepo,
		seasonRepo:      seasonRepo,
	}
}

func (s *competitionService) CreateCompetition(ctx context.Context, name string, country *string) (*models.Competition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: competition name is required", ErrValidationFailed)
	}
	competition := &models.Competition{Name: name, Country: country}
	if err := s.competitionRepo.Create(ctx, s.db, competition); err != nil {
		return nil, err
	}
	return competition, nil
}

func (s *competitionService) GetCompetition(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return competition, nil
}

func (s *competitionService) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	return s.competitionRepo.List(ctx, s.db)
}

func (s *competitionService) ListSeasons(ctx context.Context, competitionID int) ([]*models.Season, error) {
	if _, err := s.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.seasonRepo.ListByCompetition(ctx, s.db, competitionID)
}
