package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrClubNotFound   = errors.New("club not found")
	ErrPlayerNotFound = errors.New("player not found")
)

type ClubRepository interface {
	Create(ctx context.Context, exec SQLExecutor, club *models.Club) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Club, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Club, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Club, error)
	UpdateCrestKey(ctx context.Context, exec SQLExecutor, id int, key *string) error
}

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Player, error)
	ListByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int) ([]*models.Player, error)
}

type postgresClubRepository struct{}

func NewPostgresClubRepository() ClubRepository {
	return &postgresClubRepository{}
}

func (r *postgresClubRepository) Create(ctx context.Context, exec SQLExecutor, club *models.Club) error {
	query := `INSERT INTO clubs (name, city) VALUES ($1, $2) RETURNING id, created_at`
	return exec.QueryRowContext(ctx, query, club.Name, club.City).Scan(&club.ID, &club.CreatedAt)
}

func (r *postgresClubRepository) scan(row rowScanner) (*models.Club, error) {
	var c models.Club
	err := row.Scan(&c.ID, &c.Name, &c.City, &c.CrestKey, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Club, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT id, name, city, crest_key, created_at FROM clubs WHERE id = $1`, id))
}

func (r *postgresClubRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Club, error) {
	if len(ids) == 0 {
		return []*models.Club{}, nil
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, name, city, crest_key, created_at FROM clubs WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresClubRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Club, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, name, city, crest_key, created_at FROM clubs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresClubRepository) collect(rows *sql.Rows) ([]*models.Club, error) {
	clubs := make([]*models.Club, 0)
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (r *postgresClubRepository) UpdateCrestKey(ctx context.Context, exec SQLExecutor, id int, key *string) error {
	result, err := exec.ExecContext(ctx, `UPDATE clubs SET crest_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

type postgresPlayerRepository struct{}

func NewPostgresPlayerRepository() PlayerRepository {
	return &postgresPlayerRepository{}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (club_id, first_name, last_name, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return exec.QueryRowContext(ctx, query,
		player.ClubID, player.FirstName, player.LastName, player.Position,
	).Scan(&player.ID, &player.CreatedAt)
}

func (r *postgresPlayerRepository) scan(row rowScanner) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.ClubID, &p.FirstName, &p.LastName, &p.Position, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT id, club_id, first_name, last_name, position, created_at FROM players WHERE id = $1`, id))
}

func (r *postgresPlayerRepository) ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Player, error) {
	return r.ListByClubs(ctx, exec, []int{clubID})
}

func (r *postgresPlayerRepository) ListByClubs(ctx context.Context, exec SQLExecutor, clubIDs []int) ([]*models.Player, error) {
	if len(clubIDs) == 0 {
		return []*models.Player{}, nil
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, club_id, first_name, last_name, position, created_at
		 FROM players WHERE club_id = ANY($1) ORDER BY club_id, last_name`,
		pq.Array(clubIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
