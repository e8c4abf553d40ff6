package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Participant, error)
}

type postgresParticipantRepository struct{}

func NewPostgresParticipantRepository() ParticipantRepository {
	return &postgresParticipantRepository{}
}

func (r *postgresParticipantRepository) BatchCreate(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error {
	query := `INSERT INTO participants (season_id, club_id) VALUES ($1, $2) RETURNING id`
	for _, p := range participants {
		if err := exec.QueryRowContext(ctx, query, p.SeasonID, p.ClubID).Scan(&p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresParticipantRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Participant, error) {
	query := `
		SELECT p.id, p.season_id, p.club_id, c.id, c.name, c.city, c.crest_key, c.created_at
		FROM participants p
		JOIN clubs c ON c.id = p.club_id
		WHERE p.season_id = $1
		ORDER BY c.name`
	rows, err := exec.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var c models.Club
		if err := rows.Scan(&p.ID, &p.SeasonID, &p.ClubID,
			&c.ID, &c.Name, &c.City, &c.CrestKey, &c.CreatedAt); err != nil {
			return nil, err
		}
		p.Club = &c
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}
