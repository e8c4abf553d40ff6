package models

import "time"

type Club struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      *string   `json:"city,omitempty" db:"city"`
	CrestKey  *string   `json:"-" db:"crest_key"`
	CrestURL  *string   `json:"crest_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Participant is a club entered into a season. Immutable once the club has
// matches in that season.
type Participant struct {
	ID       int `json:"id" db:"id"`
	SeasonID int `json:"season_id" db:"season_id"`
	ClubID   int `json:"club_id" db:"club_id"`

	Club *Club `json:"club,omitempty" db:"-"`
}

type Player struct {
	ID        int       `json:"id" db:"id"`
	ClubID    *int      `json:"club_id,omitempty" db:"club_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Position  *string   `json:"position,omitempty" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
