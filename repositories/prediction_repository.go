package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrPredictionConflict = errors.New("user already predicted this match")
)

type PredictionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Prediction) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Prediction, error)
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Prediction, error)
	Grade(ctx context.Context, exec SQLExecutor, id int, correct bool, points int) error
	// CountGradedByUser returns (total graded, correct) for achievement
	// threshold checks.
	CountGradedByUser(ctx context.Context, exec SQLExecutor, userID int) (total int, correct int, err error)
}

type AchievementRepository interface {
	Create(ctx context.Context, exec SQLExecutor, a *models.UserAchievement) error
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.UserAchievement, error)
}

type postgresPredictionRepository struct{}

func NewPostgresPredictionRepository() PredictionRepository {
	return &postgresPredictionRepository{}
}

func (r *postgresPredictionRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (user_id, match_id, pick)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, match_id) DO NOTHING
		RETURNING id, created_at`
	err := exec.QueryRowContext(ctx, query, p.UserID, p.MatchID, p.Pick).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		// No row returned means the conflict branch fired.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPredictionConflict
		}
		return err
	}
	return nil
}

func (r *postgresPredictionRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Prediction, error) {
	return r.list(ctx, exec, `match_id = $1`, matchID)
}

func (r *postgresPredictionRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Prediction, error) {
	return r.list(ctx, exec, `user_id = $1`, userID)
}

func (r *postgresPredictionRepository) list(ctx context.Context, exec SQLExecutor, where string, arg interface{}) ([]*models.Prediction, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, user_id, match_id, pick, correct, points, created_at
		 FROM predictions WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Prediction, 0)
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.MatchID, &p.Pick,
			&p.Correct, &p.Points, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *postgresPredictionRepository) Grade(ctx context.Context, exec SQLExecutor, id int, correct bool, points int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE predictions SET correct = $1, points = $2 WHERE id = $3`,
		correct, points, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPredictionNotFound)
}

func (r *postgresPredictionRepository) CountGradedByUser(ctx context.Context, exec SQLExecutor, userID int) (int, int, error) {
	var total, correct int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FILTER (WHERE correct IS NOT NULL),
		        COUNT(*) FILTER (WHERE correct)
		 FROM predictions WHERE user_id = $1`, userID,
	).Scan(&total, &correct)
	return total, correct, err
}

type postgresAchievementRepository struct{}

func NewPostgresAchievementRepository() AchievementRepository {
	return &postgresAchievementRepository{}
}

func (r *postgresAchievementRepository) Create(ctx context.Context, exec SQLExecutor, a *models.UserAchievement) error {
	query := `
		INSERT INTO user_achievements (user_id, code)
		VALUES ($1, $2)
		ON CONFLICT (user_id, code) DO NOTHING
		RETURNING id, earned_at`
	err := exec.QueryRowContext(ctx, query, a.UserID, a.Code).Scan(&a.ID, &a.EarnedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Already earned; nothing to do.
		return nil
	}
	return err
}

func (r *postgresAchievementRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.UserAchievement, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id, user_id, code, earned_at FROM user_achievements WHERE user_id = $1 ORDER BY earned_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.UserAchievement, 0)
	for rows.Next() {
		var a models.UserAchievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Code, &a.EarnedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
