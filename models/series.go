package models

import "time"

type SeriesStatus string

const (
	SeriesStatusInProgress SeriesStatus = "in_progress"
	SeriesStatusFinished   SeriesStatus = "finished"
)

// Series groups the matches of one best-of-N pairing within a knockout
// stage. A series whose home and away club coincide is an automatic bye.
type Series struct {
	ID       int    `json:"id" db:"id"`
	SeasonID int    `json:"season_id" db:"season_id"`
	Stage    string `json:"stage" db:"stage"`

	HomeClubID int  `json:"home_club_id" db:"home_club_id"`
	AwayClubID int  `json:"away_club_id" db:"away_club_id"`
	HomeSeed   *int `json:"home_seed,omitempty" db:"home_seed"`
	AwaySeed   *int `json:"away_seed,omitempty" db:"away_seed"`

	// Slot is the series position inside its stage. Stage winners are
	// collected in slot order and re-paired outer against inner, so the
	// slot 0 winner meets the last slot's winner.
	Slot           int `json:"slot" db:"slot"`
	PlannedMatches int `json:"planned_matches" db:"planned_matches"`

	Status       SeriesStatus `json:"status" db:"status"`
	WinnerClubID *int         `json:"winner_club_id,omitempty" db:"winner_club_id"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}

// IsBye reports whether the series represents an automatic advance.
func (s *Series) IsBye() bool {
	return s.HomeClubID == s.AwayClubID
}

// WinsNeeded is the finished-match win count that decides the series.
func (s *Series) WinsNeeded() int {
	return s.PlannedMatches/2 + 1
}

type Round struct {
	ID       int    `json:"id" db:"id"`
	SeasonID int    `json:"season_id" db:"season_id"`
	Label    string `json:"label" db:"label"`
	Position int    `json:"position" db:"position"`
}
