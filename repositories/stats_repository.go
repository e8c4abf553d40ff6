package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var ErrStandingsNotFound = errors.New("standings row not found")

// ClubStatsRepository stores the season standings table. The table is a
// materialized view of the finished-match set: finalization deletes and
// reinserts it wholesale.
type ClubStatsRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.ClubSeasonStats) error
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.ClubSeasonStats, error)
}

type PlayerStatsRepository interface {
	ReplaceSeason(ctx context.Context, exec SQLExecutor, seasonID int, rows []*models.PlayerSeasonStats) error
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.PlayerSeasonStats, error)
	// ListSeasonsByClubs returns season-stats rows of every season that
	// involves one of the clubs, the input for career rebuilds.
	ListSeasonsByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int) ([]*models.PlayerSeasonStats, error)
	ReplaceCareerByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int, rows []*models.PlayerCareerStats) error
	ListCareerByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.PlayerCareerStats, error)
}

type postgresClubStatsRepository struct{}

func NewPostgresClubStatsRepository() ClubStatsRepository {
	return &postgresClubStatsRepository{}
}

func (r *postgresClubStatsRepository) BatchCreate(ctx context.Context, exec SQLExecutor, statsRows []*models.ClubSeasonStats) error {
	query := `
		INSERT INTO club_season_stats
			(season_id, club_id, played, wins, draws, losses,
			 goals_for, goals_against, goal_diff, points, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	now := time.Now()
	for _, s := range statsRows {
		s.UpdatedAt = now
		if err := exec.QueryRowContext(ctx, query,
			s.SeasonID, s.ClubID, s.Played, s.Wins, s.Draws, s.Losses,
			s.GoalsFor, s.GoalsAgainst, s.GoalDiff, s.Points, s.Rank, s.UpdatedAt,
		).Scan(&s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresClubStatsRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM club_season_stats WHERE season_id = $1`, seasonID)
	return err
}

func (r *postgresClubStatsRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.ClubSeasonStats, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, season_id, club_id, played, wins, draws, losses,
		        goals_for, goals_against, goal_diff, points, rank, updated_at
		 FROM club_season_stats WHERE season_id = $1 ORDER BY rank`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.ClubSeasonStats, 0)
	for rows.Next() {
		var s models.ClubSeasonStats
		if err := rows.Scan(&s.ID, &s.SeasonID, &s.ClubID, &s.Played, &s.Wins, &s.Draws,
			&s.Losses, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDiff, &s.Points,
			&s.Rank, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

type postgresPlayerStatsRepository struct{}

func NewPostgresPlayerStatsRepository() PlayerStatsRepository {
	return &postgresPlayerStatsRepository{}
}

func (r *postgresPlayerStatsRepository) ReplaceSeason(ctx context.Context, exec SQLExecutor, seasonID int, statsRows []*models.PlayerSeasonStats) error {
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM player_season_stats WHERE season_id = $1`, seasonID); err != nil {
		return err
	}
	query := `
		INSERT INTO player_season_stats
			(season_id, club_id, player_id, matches, goals, assists,
			 yellow_cards, red_cards, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	now := time.Now()
	for _, s := range statsRows {
		s.UpdatedAt = now
		if err := exec.QueryRowContext(ctx, query,
			s.SeasonID, s.ClubID, s.PlayerID, s.Matches, s.Goals, s.Assists,
			s.YellowCards, s.RedCards, s.UpdatedAt,
		).Scan(&s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresPlayerStatsRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.PlayerSeasonStats, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, season_id, club_id, player_id, matches, goals, assists,
		        yellow_cards, red_cards, updated_at
		 FROM player_season_stats WHERE season_id = $1 ORDER BY goals DESC, assists DESC`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPlayerSeasonStats(rows)
}

func (r *postgresPlayerStatsRepository) ListSeasonsByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int) ([]*models.PlayerSeasonStats, error) {
	if len(clubIDs) == 0 {
		return []*models.PlayerSeasonStats{}, nil
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, season_id, club_id, player_id, matches, goals, assists,
		        yellow_cards, red_cards, updated_at
		 FROM player_season_stats WHERE club_id = ANY($1)`,
		pq.Array(clubIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPlayerSeasonStats(rows)
}

func collectPlayerSeasonStats(rows *sql.Rows) ([]*models.PlayerSeasonStats, error) {
	out := make([]*models.PlayerSeasonStats, 0)
	for rows.Next() {
		var s models.PlayerSeasonStats
		if err := rows.Scan(&s.ID, &s.SeasonID, &s.ClubID, &s.PlayerID, &s.Matches,
			&s.Goals, &s.Assists, &s.YellowCards, &s.RedCards, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *postgresPlayerStatsRepository) ReplaceCareerByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int, statsRows []*models.PlayerCareerStats) error {
	if len(clubIDs) == 0 {
		return nil
	}
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM player_career_stats WHERE club_id = ANY($1)`, pq.Array(clubIDs)); err != nil {
		return err
	}
	query := `
		INSERT INTO player_career_stats
			(club_id, player_id, matches, goals, assists, yellow_cards, red_cards, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	now := time.Now()
	for _, s := range statsRows {
		s.UpdatedAt = now
		if err := exec.QueryRowContext(ctx, query,
			s.ClubID, s.PlayerID, s.Matches, s.Goals, s.Assists,
			s.YellowCards, s.RedCards, s.UpdatedAt,
		).Scan(&s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresPlayerStatsRepository) ListCareerByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.PlayerCareerStats, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, club_id, player_id, matches, goals, assists, yellow_cards, red_cards, updated_at
		 FROM player_career_stats WHERE club_id = $1 ORDER BY goals DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.PlayerCareerStats, 0)
	for rows.Next() {
		var s models.PlayerCareerStats
		if err := rows.Scan(&s.ID, &s.ClubID, &s.PlayerID, &s.Matches, &s.Goals,
			&s.Assists, &s.YellowCards, &s.RedCards, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
