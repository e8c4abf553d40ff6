package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrSeriesNotFound = errors.New("series not found")

type SeriesRepository interface {
	Create(ctx context.Context, exec SQLExecutor, series *models.Series) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Series, error)
	ListByStage(ctx context.Context, exec SQLExecutor, seasonID int, stage string) ([]*models.Series, error)
	CountByStage(ctx context.Context, exec SQLExecutor, seasonID int, stage string) (int, error)
	Finish(ctx context.Context, exec SQLExecutor, id int, winnerClubID int) error
}

type postgresSeriesRepository struct{}

func NewPostgresSeriesRepository() SeriesRepository {
	return &postgresSeriesRepository{}
}

const seriesColumns = `id, season_id, stage, home_club_id, away_club_id,
	home_seed, away_seed, slot, planned_matches, status, winner_club_id, created_at`

func (r *postgresSeriesRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Series) error {
	query := `
		INSERT INTO series
			(season_id, stage, home_club_id, away_club_id, home_seed, away_seed,
			 slot, planned_matches, status, winner_club_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	return exec.QueryRowContext(ctx, query,
		s.SeasonID, s.Stage, s.HomeClubID, s.AwayClubID, s.HomeSeed, s.AwaySeed,
		s.Slot, s.PlannedMatches, s.Status, s.WinnerClubID,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *postgresSeriesRepository) scan(row rowScanner) (*models.Series, error) {
	var s models.Series
	err := row.Scan(&s.ID, &s.SeasonID, &s.Stage, &s.HomeClubID, &s.AwayClubID,
		&s.HomeSeed, &s.AwaySeed, &s.Slot, &s.PlannedMatches, &s.Status,
		&s.WinnerClubID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSeriesRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT `+seriesColumns+` FROM series WHERE id = $1`, id))
}

func (r *postgresSeriesRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Series, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT `+seriesColumns+` FROM series WHERE season_id = $1 ORDER BY created_at, slot`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresSeriesRepository) ListByStage(ctx context.Context, exec SQLExecutor, seasonID int, stage string) ([]*models.Series, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT `+seriesColumns+` FROM series WHERE season_id = $1 AND stage = $2 ORDER BY slot`,
		seasonID, stage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresSeriesRepository) collect(rows *sql.Rows) ([]*models.Series, error) {
	series := make([]*models.Series, 0)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, rows.Err()
}

func (r *postgresSeriesRepository) CountByStage(ctx context.Context, exec SQLExecutor, seasonID int, stage string) (int, error) {
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM series WHERE season_id = $1 AND stage = $2`,
		seasonID, stage,
	).Scan(&count)
	return count, err
}

func (r *postgresSeriesRepository) Finish(ctx context.Context, exec SQLExecutor, id int, winnerClubID int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE series SET status = $1, winner_club_id = $2 WHERE id = $3`,
		models.SeriesStatusFinished, winnerClubID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}
