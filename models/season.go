package models

import "time"

type SeasonFormat string

const (
	// Every participant meets every other once.
	FormatSingleRoundRobin SeasonFormat = "single_round_robin"
	// Two passes, home/away reversed on the second.
	FormatDoubleRoundRobin SeasonFormat = "double_round_robin"
	// Knockout rounds of best-of-N series, winners re-seeded by standings.
	FormatBestOfSeries SeasonFormat = "best_of_series"
	// Single-elimination bracket, winners merged pairwise by bracket slot.
	FormatSingleElimination SeasonFormat = "single_elimination"
	// Group stage round robins followed by a playoff bracket.
	FormatGroupPlayoff SeasonFormat = "group_playoff"
)

func (f SeasonFormat) Valid() bool {
	switch f {
	case FormatSingleRoundRobin, FormatDoubleRoundRobin, FormatBestOfSeries,
		FormatSingleElimination, FormatGroupPlayoff:
		return true
	}
	return false
}

// IsKnockout reports whether the format schedules series instead of rounds.
func (f SeasonFormat) IsKnockout() bool {
	return f == FormatBestOfSeries || f == FormatSingleElimination
}

// CountsKnockoutMatches reports whether knockout-stage matches feed the
// season standings table. Only the hybrid format keeps counting after the
// group stage.
func (f SeasonFormat) CountsKnockoutMatches() bool {
	return f == FormatGroupPlayoff
}

type Competition struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Country   *string   `json:"country,omitempty" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Season struct {
	ID            int          `json:"id" db:"id"`
	CompetitionID int          `json:"competition_id" db:"competition_id"`
	Name          string       `json:"name" db:"name"`
	Format        SeasonFormat `json:"format" db:"format"`
	StartDate     time.Time    `json:"start_date" db:"start_date"`
	EndDate       time.Time    `json:"end_date" db:"end_date"`
	Active        bool         `json:"active" db:"active"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`

	Competition *Competition `json:"competition,omitempty" db:"-"`
}

// GroupSpec assigns clubs to one group of a group+playoff season.
// Index must be contiguous starting at 0 across the whole request.
type GroupSpec struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	ClubIDs    []int  `json:"club_ids"`
	Qualifiers int    `json:"qualifiers"`
}
