package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error)
	ListEmailsByRole(ctx context.Context, exec SQLExecutor, role models.UserRole) ([]string, error)
}

type postgresUserRepository struct{}

func NewPostgresUserRepository() UserRepository {
	return &postgresUserRepository{}
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, u *models.User) error {
	query := `
		INSERT INTO users (email, nickname, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := exec.QueryRowContext(ctx, query, u.Email, u.Nickname, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrUserEmailConflict
	}
	return err
}

func (r *postgresUserRepository) scan(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT id, email, nickname, password_hash, role, created_at FROM users WHERE id = $1`, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error) {
	return r.scan(exec.QueryRowContext(ctx,
		`SELECT id, email, nickname, password_hash, role, created_at FROM users WHERE email = $1`, email))
}

func (r *postgresUserRepository) ListEmailsByRole(ctx context.Context, exec SQLExecutor, role models.UserRole) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `SELECT email FROM users WHERE role = $1`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
