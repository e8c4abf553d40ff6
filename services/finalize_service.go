package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// finalizeTimeout bounds the rebuild transaction. The aggregate recompute
// touches every finished match of the season, so it gets more room than a
// plain request.
const finalizeTimeout = 30 * time.Second

// FinalizeResult is handed to post-commit hooks after a successful finalize.
type FinalizeResult struct {
	Match     *models.Match
	Season    *models.Season
	Standings []*models.ClubSeasonStats
}

// FinalizeHook runs after the finalize transaction commits. Hooks are best
// effort: a failing or panicking hook is logged and never affects the
// committed result.
type FinalizeHook func(ctx context.Context, res *FinalizeResult)

// FinalizeService recomputes every aggregate derived from a finished match:
// standings, player season and career stats, suspensions, prediction grades,
// and knockout progression. The whole pass is idempotent; re-finalizing a
// match converges to the same state.
type FinalizeService interface {
	Finalize(ctx context.Context, matchID int) error
	AddHook(hook FinalizeHook)
}

type finalizeService struct {
	db              *sql.DB
	seasonRepo      repositories.SeasonRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	playerRepo      repositories.PlayerRepository
	eventRepo       repositories.MatchEventRepository
	lineupRepo      repositories.LineupRepository
	clubStatsRepo   repositories.ClubStatsRepository
	playerStatsRepo repositories.PlayerStatsRepository
	disqRepo        repositories.DisqualificationRepository
	predictionRepo  repositories.PredictionRepository
	achievementRepo repositories.AchievementRepository
	progression     ProgressionService
	logger          *slog.Logger
	hooks           []FinalizeHook
}

func NewFinalizeService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	playerRepo repositories.PlayerRepository,
	eventRepo repositories.MatchEventRepository,
	lineupRepo repositories.LineupRepository,
	clubStatsRepo repositories.ClubStatsRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	disqRepo repositories.DisqualificationRepository,
	predictionRepo repositories.PredictionRepository,
	achievementRepo repositories.AchievementRepository,
	progression ProgressionService,
	logger *slog.Logger,
) FinalizeService {
	return &finalizeService{
		db:              db,
		seasonRepo:      seasonRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		playerRepo:      playerRepo,
		eventRepo:       eventRepo,
		lineupRepo:      lineupRepo,
		clubStatsRepo:   clubStatsRepo,
		playerStatsRepo: playerStatsRepo,
		disqRepo:        disqRepo,
		predictionRepo:  predictionRepo,
		achievementRepo: achievementRepo,
		progression:     progression,
		logger:          logger,
	}
}

func (s *finalizeService) AddHook(hook FinalizeHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *finalizeService) Finalize(ctx context.Context, matchID int) error {
	ctx, cancel := context.WithTimeout(ctx, finalizeTimeout)
	defer cancel()

	var result *FinalizeResult
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Status is rechecked inside the transaction: a concurrent edit
		// between the caller's check and ours must not slip through.
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status != models.MatchStatusFinished {
			return ErrMatchNotFinished
		}

		season, err := s.seasonRepo.GetByID(ctx, tx, match.SeasonID)
		if err != nil {
			return err
		}

		finished := models.MatchStatusFinished
		finishedMatches, err := s.matchRepo.ListBySeason(ctx, tx, season.ID, &finished)
		if err != nil {
			return err
		}
		participants, err := s.participantRepo.ListBySeason(ctx, tx, season.ID)
		if err != nil {
			return err
		}
		clubIDs := make([]int, 0, len(participants))
		for _, p := range participants {
			clubIDs = append(clubIDs, p.ClubID)
		}

		standings, err := s.rebuildStandings(ctx, tx, season, clubIDs, finishedMatches)
		if err != nil {
			return fmt.Errorf("rebuild standings: %w", err)
		}
		events, err := s.rebuildPlayerStats(ctx, tx, season.ID, clubIDs, finishedMatches)
		if err != nil {
			return fmt.Errorf("rebuild player stats: %w", err)
		}
		if err := s.rebuildDisqualifications(ctx, tx, season.ID, finishedMatches, events); err != nil {
			return fmt.Errorf("rebuild disqualifications: %w", err)
		}
		if err := s.gradePredictions(ctx, tx, match); err != nil {
			return fmt.Errorf("grade predictions: %w", err)
		}
		if err := s.progression.AdvanceFromMatch(ctx, tx, match); err != nil {
			return fmt.Errorf("advance knockout stage: %w", err)
		}

		result = &FinalizeResult{Match: match, Season: season, Standings: standings}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("match finalized",
		slog.Int("match_id", matchID), slog.Int("season_id", result.Season.ID))
	s.runHooks(ctx, result)
	return nil
}

// rebuildStandings drops and reinserts the season standings table from the
// full finished-match set.
func (s *finalizeService) rebuildStandings(ctx context.Context, tx *sql.Tx, season *models.Season, clubIDs []int, finishedMatches []*models.Match) ([]*models.ClubSeasonStats, error) {
	rows := buildStandings(season.ID, season.Format, clubIDs, finishedMatches)
	if err := s.clubStatsRepo.DeleteBySeason(ctx, tx, season.ID); err != nil {
		return nil, err
	}
	if err := s.clubStatsRepo.BatchCreate(ctx, tx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// rebuildPlayerStats recomputes season rows for the whole season, then career
// rows for every club in the season's field, so the career table never lags
// the season rows just rewritten. Returns the loaded events for the
// disqualification pass.
func (s *finalizeService) rebuildPlayerStats(ctx context.Context, tx *sql.Tx, seasonID int, clubIDs []int, finishedMatches []*models.Match) ([]*models.MatchEvent, error) {
	matchIDs := make([]int, 0, len(finishedMatches))
	for _, m := range finishedMatches {
		matchIDs = append(matchIDs, m.ID)
	}
	events, err := s.eventRepo.ListByMatches(ctx, tx, matchIDs)
	if err != nil {
		return nil, err
	}
	lineups, err := s.lineupRepo.ListByMatches(ctx, tx, matchIDs)
	if err != nil {
		return nil, err
	}

	seasonRows := buildPlayerSeasonStats(seasonID, events, lineups)
	if err := s.playerStatsRepo.ReplaceSeason(ctx, tx, seasonID, seasonRows); err != nil {
		return nil, err
	}

	allSeasons, err := s.playerStatsRepo.ListSeasonsByClubs(ctx, tx, clubIDs)
	if err != nil {
		return nil, err
	}
	roster, err := s.playerRepo.ListByClubs(ctx, tx, clubIDs)
	if err != nil {
		return nil, err
	}
	careerRows := buildCareerStats(allSeasons, roster)
	if err := s.playerStatsRepo.ReplaceCareerByClubs(ctx, tx, clubIDs, careerRows); err != nil {
		return nil, err
	}
	return events, nil
}

// rebuildDisqualifications derives the season's suspension set from the
// finished-match history and swaps it in wholesale.
func (s *finalizeService) rebuildDisqualifications(ctx context.Context, tx *sql.Tx, seasonID int, finishedMatches []*models.Match, events []*models.MatchEvent) error {
	eventsByMatch := make(map[int][]*models.MatchEvent, len(finishedMatches))
	for _, e := range events {
		eventsByMatch[e.MatchID] = append(eventsByMatch[e.MatchID], e)
	}
	bans := buildDisqualifications(seasonID, finishedMatches, eventsByMatch)
	if err := s.disqRepo.ReplaceSeason(ctx, tx, seasonID, bans); err != nil {
		return err
	}
	for _, b := range bans {
		if b.Active {
			s.logger.Info("player suspended",
				slog.Int("season_id", seasonID), slog.Int("player_id", b.PlayerID),
				slog.String("reason", string(b.Reason)),
				slog.Int("matches", b.BanMatches-b.MissedMatches))
		}
	}
	return nil
}

// gradePredictions marks every prediction on the match and awards threshold
// achievements. Grading is idempotent: re-finalizing overwrites the same
// verdicts.
func (s *finalizeService) gradePredictions(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	outcome, ok := matchOutcome(match)
	if !ok {
		return nil
	}
	predictions, err := s.predictionRepo.ListByMatch(ctx, tx, match.ID)
	if err != nil {
		return err
	}
	graded := make(map[int]bool)
	for _, p := range predictions {
		correct := p.Pick == outcome
		points := 0
		if correct {
			points = models.PredictionPoints
		}
		if err := s.predictionRepo.Grade(ctx, tx, p.ID, correct, points); err != nil {
			return err
		}
		graded[p.UserID] = true
	}

	for userID := range graded {
		total, correct, err := s.predictionRepo.CountGradedByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, a := range models.PredictionAchievements {
			if a.TotalThreshold > 0 && total < a.TotalThreshold {
				continue
			}
			if a.CorrectThreshold > 0 && correct < a.CorrectThreshold {
				continue
			}
			ua := &models.UserAchievement{UserID: userID, Code: a.Code}
			if err := s.achievementRepo.Create(ctx, tx, ua); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *finalizeService) runHooks(ctx context.Context, res *FinalizeResult) {
	for _, hook := range s.hooks {
		func() {
			defer func() {
				if p := recover(); p != nil {
					s.logger.Error("finalize hook panicked", slog.Any("panic", p))
				}
			}()
			hook(ctx, res)
		}()
	}
}
