package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, status *models.MatchStatus) ([]*models.Match, error)
	ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	// DeleteUnplayedBySeries removes matches of a decided series that will
	// never be played.
	DeleteUnplayedBySeries(ctx context.Context, exec SQLExecutor, seriesID int) (int64, error)
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, season_id, round_id, series_id, group_label,
	home_club_id, away_club_id, home_score, away_score,
	has_shootout, home_shootout_score, away_shootout_score, date, status`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(season_id, round_id, series_id, group_label, home_club_id, away_club_id,
			 home_score, away_score, has_shootout, home_shootout_score, away_shootout_score,
			 date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	return exec.QueryRowContext(ctx, query,
		m.SeasonID, m.RoundID, m.SeriesID, m.GroupLabel, m.HomeClubID, m.AwayClubID,
		m.HomeScore, m.AwayScore, m.HasShootout, m.HomeShootoutScore, m.AwayShootoutScore,
		m.Date, m.Status,
	).Scan(&m.ID)
}

func (r *postgresMatchRepository) scan(row rowScanner) (*models.Match, error) {
	var m models.Match
	err := row.Scan(&m.ID, &m.SeasonID, &m.RoundID, &m.SeriesID, &m.GroupLabel,
		&m.HomeClubID, &m.AwayClubID, &m.HomeScore, &m.AwayScore,
		&m.HasShootout, &m.HomeShootoutScore, &m.AwayShootoutScore, &m.Date, &m.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func (r *postgresMatchRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE season_id = $1`
	args := []interface{}{seasonID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY date, id`

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresMatchRepository) ListBySeries(ctx context.Context, exec SQLExecutor, seriesID int) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE series_id = $1 ORDER BY date, id`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresMatchRepository) collect(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			home_score = $1, away_score = $2, has_shootout = $3,
			home_shootout_score = $4, away_shootout_score = $5, status = $6, date = $7
		WHERE id = $8`
	result, err := exec.ExecContext(ctx, query,
		m.HomeScore, m.AwayScore, m.HasShootout,
		m.HomeShootoutScore, m.AwayShootoutScore, m.Status, m.Date, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteUnplayedBySeries(ctx context.Context, exec SQLExecutor, seriesID int) (int64, error) {
	result, err := exec.ExecContext(ctx,
		`DELETE FROM matches WHERE series_id = $1 AND status IN ($2, $3, $4)`,
		seriesID, models.MatchStatusScheduled, models.MatchStatusLive, models.MatchStatusPostponed)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
