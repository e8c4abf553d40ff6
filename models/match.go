package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusPostponed MatchStatus = "postponed"
)

type Match struct {
	ID         int     `json:"id" db:"id"`
	SeasonID   int     `json:"season_id" db:"season_id"`
	RoundID    *int    `json:"round_id,omitempty" db:"round_id"`
	SeriesID   *int    `json:"series_id,omitempty" db:"series_id"`
	GroupLabel *string `json:"group_label,omitempty" db:"group_label"`

	HomeClubID int `json:"home_club_id" db:"home_club_id"`
	AwayClubID int `json:"away_club_id" db:"away_club_id"`

	HomeScore *int `json:"home_score,omitempty" db:"home_score"`
	AwayScore *int `json:"away_score,omitempty" db:"away_score"`

	// Shootout scores are meaningful only when HasShootout is set; they break
	// a level regulation score for knockout progression and prediction
	// outcome, never for standings.
	HasShootout       bool `json:"has_shootout" db:"has_shootout"`
	HomeShootoutScore *int `json:"home_shootout_score,omitempty" db:"home_shootout_score"`
	AwayShootoutScore *int `json:"away_shootout_score,omitempty" db:"away_shootout_score"`

	Date   time.Time   `json:"date" db:"date"`
	Status MatchStatus `json:"status" db:"status"`

	HomeClub *Club   `json:"home_club,omitempty" db:"-"`
	AwayClub *Club   `json:"away_club,omitempty" db:"-"`
	Round    *Round  `json:"round,omitempty" db:"-"`
	Series   *Series `json:"series,omitempty" db:"-"`
}

type MatchEventType string

const (
	EventGoal         MatchEventType = "goal"
	EventYellowCard   MatchEventType = "yellow_card"
	EventSecondYellow MatchEventType = "second_yellow"
	EventRedCard      MatchEventType = "red_card"
)

type MatchEvent struct {
	ID       int            `json:"id" db:"id"`
	MatchID  int            `json:"match_id" db:"match_id"`
	ClubID   int            `json:"club_id" db:"club_id"`
	PlayerID int            `json:"player_id" db:"player_id"`
	Type     MatchEventType `json:"type" db:"type"`
	// Set only on goal events.
	AssistPlayerID *int `json:"assist_player_id,omitempty" db:"assist_player_id"`
	Minute         int  `json:"minute" db:"minute"`
}

// Lineup records one player appearance in one match.
type Lineup struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	ClubID   int  `json:"club_id" db:"club_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	Starter  bool `json:"starter" db:"starter"`
}
