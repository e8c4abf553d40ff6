package models

import "time"

type DisqualificationReason string

const (
	ReasonAccumulatedCards DisqualificationReason = "accumulated_cards"
	ReasonSecondYellow     DisqualificationReason = "second_yellow"
	ReasonRedCard          DisqualificationReason = "red_card"
)

// BanLength returns the suspension length in matches for a reason.
func (r DisqualificationReason) BanLength() int {
	switch r {
	case ReasonRedCard:
		return 2
	default:
		return 1
	}
}

// YellowCardThreshold is the season yellow-card count that triggers an
// accumulated-cards suspension.
const YellowCardThreshold = 4

// Disqualification suspends a player for a number of matches. MissedMatches
// grows by one for every finished match the suspended club plays while the
// ban is active; the ban deactivates once missed >= duration.
type Disqualification struct {
	ID            int                    `json:"id" db:"id"`
	SeasonID      int                    `json:"season_id" db:"season_id"`
	PlayerID      int                    `json:"player_id" db:"player_id"`
	ClubID        *int                   `json:"club_id,omitempty" db:"club_id"`
	Reason        DisqualificationReason `json:"reason" db:"reason"`
	BanMatches    int                    `json:"ban_matches" db:"ban_matches"`
	MissedMatches int                    `json:"missed_matches" db:"missed_matches"`
	Active        bool                   `json:"active" db:"active"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
}
