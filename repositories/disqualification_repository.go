package repositories

import (
	"context"
	"time"

	"github.com/Dosada05/league-system/models"
)

type DisqualificationRepository interface {
	// ReplaceSeason swaps the season's whole suspension set for the given
	// rows, same rebuild semantics as the stats tables.
	ReplaceSeason(ctx context.Context, exec SQLExecutor, seasonID int, rows []*models.Disqualification) error
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, activeOnly bool) ([]*models.Disqualification, error)
}

type postgresDisqualificationRepository struct{}

func NewPostgresDisqualificationRepository() DisqualificationRepository {
	return &postgresDisqualificationRepository{}
}

func (r *postgresDisqualificationRepository) ReplaceSeason(ctx context.Context, exec SQLExecutor, seasonID int, disqRows []*models.Disqualification) error {
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM disqualifications WHERE season_id = $1`, seasonID); err != nil {
		return err
	}
	query := `
		INSERT INTO disqualifications
			(season_id, player_id, club_id, reason, ban_matches, missed_matches, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	now := time.Now()
	for _, d := range disqRows {
		d.CreatedAt = now
		if err := exec.QueryRowContext(ctx, query,
			d.SeasonID, d.PlayerID, d.ClubID, d.Reason,
			d.BanMatches, d.MissedMatches, d.Active, d.CreatedAt,
		).Scan(&d.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresDisqualificationRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, activeOnly bool) ([]*models.Disqualification, error) {
	query := `
		SELECT id, season_id, player_id, club_id, reason, ban_matches, missed_matches, active, created_at
		FROM disqualifications WHERE season_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := exec.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Disqualification, 0)
	for rows.Next() {
		var d models.Disqualification
		if err := rows.Scan(&d.ID, &d.SeasonID, &d.PlayerID, &d.ClubID, &d.Reason,
			&d.BanMatches, &d.MissedMatches, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
