package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSeasonNotFound      = errors.New("season not found")
	ErrCompetitionNotFound = errors.New("competition not found")
)

type SeasonRepository interface {
	Create(ctx context.Context, exec SQLExecutor, season *models.Season) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Season, error)
	ExtendEndDate(ctx context.Context, exec SQLExecutor, id int, endDate time.Time) error
	SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error
}

type CompetitionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error)
}

type postgresSeasonRepository struct{}

func NewPostgresSeasonRepository() SeasonRepository {
	return &postgresSeasonRepository{}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, exec SQLExecutor, season *models.Season) error {
	query := `
		INSERT INTO seasons (competition_id, name, format, start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return exec.QueryRowContext(ctx, query,
		season.CompetitionID, season.Name, season.Format,
		season.StartDate, season.EndDate, season.Active,
	).Scan(&season.ID, &season.CreatedAt)
}

func (r *postgresSeasonRepository) scan(row rowScanner) (*models.Season, error) {
	var s models.Season
	err := row.Scan(&s.ID, &s.CompetitionID, &s.Name, &s.Format,
		&s.StartDate, &s.EndDate, &s.Active, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error) {
	query := `
		SELECT id, competition_id, name, format, start_date, end_date, active, created_at
		FROM seasons WHERE id = $1`
	return r.scan(exec.QueryRowContext(ctx, query, id))
}

func (r *postgresSeasonRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Season, error) {
	query := `
		SELECT id, competition_id, name, format, start_date, end_date, active, created_at
		FROM seasons WHERE competition_id = $1
		ORDER BY start_date DESC`
	rows, err := exec.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]*models.Season, 0)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

// ExtendEndDate pushes the season end forward, never backward.
func (r *postgresSeasonRepository) ExtendEndDate(ctx context.Context, exec SQLExecutor, id int, endDate time.Time) error {
	query := `UPDATE seasons SET end_date = GREATEST(end_date, $1) WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, endDate, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error {
	result, err := exec.ExecContext(ctx, `UPDATE seasons SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

type postgresCompetitionRepository struct{}

func NewPostgresCompetitionRepository() CompetitionRepository {
	return &postgresCompetitionRepository{}
}

func (r *postgresCompetitionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	query := `INSERT INTO competitions (name, country) VALUES ($1, $2) RETURNING id, created_at`
	return exec.QueryRowContext(ctx, query, c.Name, c.Country).Scan(&c.ID, &c.CreatedAt)
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error) {
	var c models.Competition
	err := exec.QueryRowContext(ctx,
		`SELECT id, name, country, created_at FROM competitions WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Country, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCompetitionRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error) {
	rows, err := exec.QueryContext(ctx, `SELECT id, name, country, created_at FROM competitions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Competition, 0)
	for rows.Next() {
		var c models.Competition
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
