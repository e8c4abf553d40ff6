package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

type MatchEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	// DeleteByMatch clears the match's events, used when a result is
	// resubmitted. Zero affected rows is fine.
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchEvent, error)
	ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchEvent, error)
}

type LineupRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, lineups []*models.Lineup) error
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.Lineup, error)
}

type postgresMatchEventRepository struct{}

func NewPostgresMatchEventRepository() MatchEventRepository {
	return &postgresMatchEventRepository{}
}

func (r *postgresMatchEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.MatchEvent) error {
	query := `
		INSERT INTO match_events (match_id, club_id, player_id, type, assist_player_id, minute)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	return exec.QueryRowContext(ctx, query,
		e.MatchID, e.ClubID, e.PlayerID, e.Type, e.AssistPlayerID, e.Minute,
	).Scan(&e.ID)
}

func (r *postgresMatchEventRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM match_events WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchEvent, error) {
	return r.ListByMatches(ctx, exec, []int{matchID})
}

func (r *postgresMatchEventRepository) ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchEvent, error) {
	if len(matchIDs) == 0 {
		return []*models.MatchEvent{}, nil
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, match_id, club_id, player_id, type, assist_player_id, minute
		 FROM match_events WHERE match_id = ANY($1) ORDER BY match_id, minute, id`,
		pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*models.MatchEvent, error) {
	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		var e models.MatchEvent
		if err := rows.Scan(&e.ID, &e.MatchID, &e.ClubID, &e.PlayerID,
			&e.Type, &e.AssistPlayerID, &e.Minute); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

type postgresLineupRepository struct{}

func NewPostgresLineupRepository() LineupRepository {
	return &postgresLineupRepository{}
}

func (r *postgresLineupRepository) BatchCreate(ctx context.Context, exec SQLExecutor, lineups []*models.Lineup) error {
	query := `
		INSERT INTO lineups (match_id, club_id, player_id, starter)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, player_id) DO UPDATE SET starter = EXCLUDED.starter
		RETURNING id`
	for _, l := range lineups {
		if err := exec.QueryRowContext(ctx, query,
			l.MatchID, l.ClubID, l.PlayerID, l.Starter).Scan(&l.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresLineupRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM lineups WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresLineupRepository) ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.Lineup, error) {
	if len(matchIDs) == 0 {
		return []*models.Lineup{}, nil
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, match_id, club_id, player_id, starter
		 FROM lineups WHERE match_id = ANY($1) ORDER BY match_id, id`,
		pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lineups := make([]*models.Lineup, 0)
	for rows.Next() {
		var l models.Lineup
		if err := rows.Scan(&l.ID, &l.MatchID, &l.ClubID, &l.PlayerID, &l.Starter); err != nil {
			return nil, err
		}
		lineups = append(lineups, &l)
	}
	return lineups, rows.Err()
}
