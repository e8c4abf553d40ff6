package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetBySeasonAndLabel(ctx context.Context, exec SQLExecutor, seasonID int, label string) (*models.Round, error)
	// GetOrCreate returns the round with the given label, creating it when
	// missing. Labels are unique per season.
	GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID int, label string, position int) (*models.Round, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Round, error)
}

type postgresRoundRepository struct{}

func NewPostgresRoundRepository() RoundRepository {
	return &postgresRoundRepository{}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `INSERT INTO rounds (season_id, label, position) VALUES ($1, $2, $3) RETURNING id`
	return exec.QueryRowContext(ctx, query, round.SeasonID, round.Label, round.Position).Scan(&round.ID)
}

func (r *postgresRoundRepository) GetBySeasonAndLabel(ctx context.Context, exec SQLExecutor, seasonID int, label string) (*models.Round, error) {
	var round models.Round
	err := exec.QueryRowContext(ctx,
		`SELECT id, season_id, label, position FROM rounds WHERE season_id = $1 AND label = $2`,
		seasonID, label,
	).Scan(&round.ID, &round.SeasonID, &round.Label, &round.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *postgresRoundRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID int, label string, position int) (*models.Round, error) {
	round, err := r.GetBySeasonAndLabel(ctx, exec, seasonID, label)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, ErrRoundNotFound) {
		return nil, err
	}
	round = &models.Round{SeasonID: seasonID, Label: label, Position: position}
	if err := r.Create(ctx, exec, round); err != nil {
		return nil, err
	}
	return round, nil
}

func (r *postgresRoundRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Round, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, season_id, label, position FROM rounds WHERE season_id = $1 ORDER BY position`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var round models.Round
		if err := rows.Scan(&round.ID, &round.SeasonID, &round.Label, &round.Position); err != nil {
			return nil, err
		}
		rounds = append(rounds, &round)
	}
	return rounds, rows.Err()
}
