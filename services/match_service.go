package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// SubmitResultParams carries the final score of a match. Shootout fields are
// accepted only together.
type SubmitResultParams struct {
	MatchID           int  `json:"-"`
	HomeScore         int  `json:"home_score"`
	AwayScore         int  `json:"away_score"`
	HasShootout       bool `json:"has_shootout"`
	HomeShootoutScore *int `json:"home_shootout_score,omitempty"`
	AwayShootoutScore *int `json:"away_shootout_score,omitempty"`
}

type EventInput struct {
	ClubID         int                   `json:"club_id"`
	PlayerID       int                   `json:"player_id"`
	Type           models.MatchEventType `json:"type"`
	AssistPlayerID *int                  `json:"assist_player_id,omitempty"`
	Minute         int                   `json:"minute"`
}

type LineupInput struct {
	ClubID   int  `json:"club_id"`
	PlayerID int  `json:"player_id"`
	Starter  bool `json:"starter"`
}

type MatchService interface {
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListSeasonMatches(ctx context.Context, seasonID int, status *models.MatchStatus) ([]*models.Match, error)
	ListMatchEvents(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	// SubmitResult records the score, replaces events and lineups, marks the
	// match finished and triggers the full aggregate recompute. Submitting
	// against an already finished match overwrites the previous result and
	// recomputes, which is how a drawn knockout match gets resolved with a
	// shootout after the fact.
	SubmitResult(ctx context.Context, params SubmitResultParams, events []EventInput, lineups []LineupInput) (*models.Match, error)
	SetStatus(ctx context.Context, matchID int, status models.MatchStatus) error
}

type matchService struct {
	db         *sql.DB
	matchRepo  repositories.MatchRepository
	eventRepo  repositories.MatchEventRepository
	lineupRepo repositories.LineupRepository
	clubRepo   repositories.ClubRepository
	finalize   FinalizeService
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	lineupRepo repositories.LineupRepository,
	clubRepo repositories.ClubRepository,
	finalize FinalizeService,
) MatchService {
	return &matchService{
		db:         db,
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		lineupRepo: lineupRepo,
		clubRepo:   clubRepo,
		finalize:   finalize,
	}
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if err := s.attachClubs(ctx, []*models.Match{match}); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListSeasonMatches(ctx context.Context, seasonID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListBySeason(ctx, s.db, seasonID, status)
	if err != nil {
		return nil, err
	}
	if err := s.attachClubs(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *matchService) ListMatchEvents(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	if _, err := s.matchRepo.GetByID(ctx, s.db, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.eventRepo.ListByMatch(ctx, s.db, matchID)
}

func (s *matchService) SubmitResult(ctx context.Context, params SubmitResultParams, events []EventInput, lineups []LineupInput) (*models.Match, error) {
	if params.HomeScore < 0 || params.AwayScore < 0 {
		return nil, fmt.Errorf("%w: negative score", ErrValidationFailed)
	}
	if params.HasShootout && (params.HomeShootoutScore == nil || params.AwayShootoutScore == nil) {
		return nil, fmt.Errorf("%w: shootout requires both scores", ErrValidationFailed)
	}

	var match *models.Match
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetByID(ctx, tx, params.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		clubs := map[int]bool{match.HomeClubID: true, match.AwayClubID: true}
		for _, e := range events {
			if !clubs[e.ClubID] {
				return fmt.Errorf("%w: event club %d is not playing this match", ErrValidationFailed, e.ClubID)
			}
		}
		for _, l := range lineups {
			if !clubs[l.ClubID] {
				return fmt.Errorf("%w: lineup club %d is not playing this match", ErrValidationFailed, l.ClubID)
			}
		}

		if match.Status == models.MatchStatusFinished {
			// Resubmission: the previous events and lineups are dropped so
			// the rebuilt aggregates see only the corrected result.
			if err := s.eventRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
				return err
			}
			if err := s.lineupRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
				return err
			}
		}

		match.HomeScore = intPtr(params.HomeScore)
		match.AwayScore = intPtr(params.AwayScore)
		match.HasShootout = params.HasShootout
		match.HomeShootoutScore = params.HomeShootoutScore
		match.AwayShootoutScore = params.AwayShootoutScore
		match.Status = models.MatchStatusFinished
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}

		for _, in := range events {
			event := &models.MatchEvent{
				MatchID:        match.ID,
				ClubID:         in.ClubID,
				PlayerID:       in.PlayerID,
				Type:           in.Type,
				AssistPlayerID: in.AssistPlayerID,
				Minute:         in.Minute,
			}
			if err := s.eventRepo.Create(ctx, tx, event); err != nil {
				return err
			}
		}

		rows := make([]*models.Lineup, 0, len(lineups))
		for _, in := range lineups {
			rows = append(rows, &models.Lineup{
				MatchID:  match.ID,
				ClubID:   in.ClubID,
				PlayerID: in.PlayerID,
				Starter:  in.Starter,
			})
		}
		return s.lineupRepo.BatchCreate(ctx, tx, rows)
	})
	if err != nil {
		return nil, err
	}

	// Finalization runs in its own transaction on the committed result, so a
	// recompute failure never loses the submitted score.
	if err := s.finalize.Finalize(ctx, match.ID); err != nil {
		return nil, fmt.Errorf("result saved but finalization failed: %w", err)
	}
	return match, nil
}

func (s *matchService) SetStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	match, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if match.Status == models.MatchStatusFinished {
		return ErrMatchAlreadyFinished
	}
	if status == models.MatchStatusFinished {
		return fmt.Errorf("%w: finish a match by submitting its result", ErrValidationFailed)
	}
	return s.matchRepo.UpdateStatus(ctx, s.db, matchID, status)
}

func (s *matchService) attachClubs(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int, 0, len(matches)*2)
	for _, m := range matches {
		ids = append(ids, m.HomeClubID, m.AwayClubID)
	}
	ids = dedupeIDs(ids)
	sort.Ints(ids)

	clubs, err := s.clubRepo.ListByIDs(ctx, s.db, ids)
	if err != nil {
		return err
	}
	byID := make(map[int]*models.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
	}
	for _, m := range matches {
		m.HomeClub = byID[m.HomeClubID]
		m.AwayClub = byID[m.AwayClubID]
	}
	return nil
}
