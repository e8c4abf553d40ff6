package models

import "time"

// ClubSeasonStats is one standings row. Rows are rebuilt wholesale from the
// finished-match set on every finalization, never patched incrementally.
type ClubSeasonStats struct {
	ID           int       `json:"id" db:"id"`
	SeasonID     int       `json:"season_id" db:"season_id"`
	ClubID       int       `json:"club_id" db:"club_id"`
	Played       int       `json:"played" db:"played"`
	Wins         int       `json:"wins" db:"wins"`
	Draws        int       `json:"draws" db:"draws"`
	Losses       int       `json:"losses" db:"losses"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	GoalDiff     int       `json:"goal_diff" db:"goal_diff"`
	Points       int       `json:"points" db:"points"`
	Rank         int       `json:"rank" db:"rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Club *Club `json:"club,omitempty" db:"-"`
}

type PlayerSeasonStats struct {
	ID          int       `json:"id" db:"id"`
	SeasonID    int       `json:"season_id" db:"season_id"`
	ClubID      int       `json:"club_id" db:"club_id"`
	PlayerID    int       `json:"player_id" db:"player_id"`
	Matches     int       `json:"matches" db:"matches"`
	Goals       int       `json:"goals" db:"goals"`
	Assists     int       `json:"assists" db:"assists"`
	YellowCards int       `json:"yellow_cards" db:"yellow_cards"`
	RedCards    int       `json:"red_cards" db:"red_cards"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

type PlayerCareerStats struct {
	ID          int       `json:"id" db:"id"`
	ClubID      int       `json:"club_id" db:"club_id"`
	PlayerID    int       `json:"player_id" db:"player_id"`
	Matches     int       `json:"matches" db:"matches"`
	Goals       int       `json:"goals" db:"goals"`
	Assists     int       `json:"assists" db:"assists"`
	YellowCards int       `json:"yellow_cards" db:"yellow_cards"`
	RedCards    int       `json:"red_cards" db:"red_cards"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
