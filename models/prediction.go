package models

import "time"

// MatchOutcome is the classic 1/X/2 result of a match.
type MatchOutcome string

const (
	OutcomeHome MatchOutcome = "1"
	OutcomeDraw MatchOutcome = "X"
	OutcomeAway MatchOutcome = "2"
)

// PredictionPoints is awarded for a correct outcome pick.
const PredictionPoints = 3

type Prediction struct {
	ID        int          `json:"id" db:"id"`
	UserID    int          `json:"user_id" db:"user_id"`
	MatchID   int          `json:"match_id" db:"match_id"`
	Pick      MatchOutcome `json:"pick" db:"pick"`
	Correct   *bool        `json:"correct,omitempty" db:"correct"`
	Points    int          `json:"points" db:"points"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

type Achievement struct {
	Code             string `json:"code"`
	TotalThreshold   int    `json:"total_threshold,omitempty"`
	CorrectThreshold int    `json:"correct_threshold,omitempty"`
}

// PredictionAchievements are evaluated after every grading pass against the
// user's total and correct prediction counts.
var PredictionAchievements = []Achievement{
	{Code: "first_prediction", TotalThreshold: 1},
	{Code: "ten_predictions", TotalThreshold: 10},
	{Code: "fifty_predictions", TotalThreshold: 50},
	{Code: "first_hit", CorrectThreshold: 1},
	{Code: "ten_hits", CorrectThreshold: 10},
	{Code: "oracle", CorrectThreshold: 50},
}

type UserAchievement struct {
	ID       int       `json:"id" db:"id"`
	UserID   int       `json:"user_id" db:"user_id"`
	Code     string    `json:"code" db:"code"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}
