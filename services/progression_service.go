package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/schedule"
)

// ProgressionService advances knockout stages as series results arrive. All
// methods run inside the caller's transaction; the service never commits.
type ProgressionService interface {
	// AdvanceFromMatch re-evaluates the series the match belongs to and, when
	// its whole stage is decided, plans the next stage. No-op for matches
	// outside a series.
	AdvanceFromMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
}

type progressionService struct {
	seasonRepo    repositories.SeasonRepository
	seriesRepo    repositories.SeriesRepository
	matchRepo     repositories.MatchRepository
	clubStatsRepo repositories.ClubStatsRepository
	logger        *slog.Logger
}

func NewProgressionService(
	seasonRepo repositories.SeasonRepository,
	seriesRepo repositories.SeriesRepository,
	matchRepo repositories.MatchRepository,
	clubStatsRepo repositories.ClubStatsRepository,
	logger *slog.Logger,
) ProgressionService {
	return &progressionService{
		seasonRepo:    seasonRepo,
		seriesRepo:    seriesRepo,
		matchRepo:     matchRepo,
		clubStatsRepo: clubStatsRepo,
		logger:        logger,
	}
}

// matchWinner returns the winning club of a finished match. A level
// regulation score is broken by the shootout only when the shootout flag is
// set; otherwise the match is undecided.
func matchWinner(m *models.Match) (int, bool) {
	if m.Status != models.MatchStatusFinished || m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return m.HomeClubID, true
	case *m.AwayScore > *m.HomeScore:
		return m.AwayClubID, true
	}
	if m.HasShootout && m.HomeShootoutScore != nil && m.AwayShootoutScore != nil {
		if *m.HomeShootoutScore > *m.AwayShootoutScore {
			return m.HomeClubID, true
		}
		if *m.AwayShootoutScore > *m.HomeShootoutScore {
			return m.AwayClubID, true
		}
	}
	return 0, false
}

// seriesWinner applies the best-of-N rule: first side with
// floor(planned/2)+1 finished-match wins takes the series.
func seriesWinner(series *models.Series, matches []*models.Match) (int, bool) {
	if series.IsBye() {
		return series.HomeClubID, true
	}
	needed := series.WinsNeeded()
	wins := make(map[int]int, 2)
	for _, m := range matches {
		if winner, ok := matchWinner(m); ok {
			wins[winner]++
		}
	}
	for clubID, count := range wins {
		if count >= needed {
			return clubID, true
		}
	}
	return 0, false
}

func (s *progressionService) AdvanceFromMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.SeriesID == nil {
		return nil
	}

	series, err := s.seriesRepo.GetByID(ctx, exec, *match.SeriesID)
	if err != nil {
		return fmt.Errorf("%w: series %d", ErrSeriesNotFound, *match.SeriesID)
	}

	if series.Status != models.SeriesStatusFinished {
		matches, err := s.matchRepo.ListBySeries(ctx, exec, series.ID)
		if err != nil {
			return err
		}

		if _, decided := matchWinner(match); !decided && match.Status == models.MatchStatusFinished {
			// Legitimate operator-attention state, not a failure.
			s.logger.Warn("knockout match drawn without shootout, stage left pending",
				slog.Int("match_id", match.ID), slog.Int("series_id", series.ID))
		}

		winner, ok := seriesWinner(series, matches)
		if !ok {
			return nil
		}
		if err := s.seriesRepo.Finish(ctx, exec, series.ID, winner); err != nil {
			return err
		}
		// Remaining fixtures of a decided series are moot.
		deleted, err := s.matchRepo.DeleteUnplayedBySeries(ctx, exec, series.ID)
		if err != nil {
			return err
		}
		if deleted > 0 {
			s.logger.Info("removed unplayed series matches",
				slog.Int("series_id", series.ID), slog.Int64("count", deleted))
		}
	}

	return s.advanceStages(ctx, exec, series.SeasonID, series.Stage)
}

// advanceStages walks completed stages as a worklist: creating a stage can
// immediately complete it (bye-heavy fields), so each created stage is
// re-checked before returning.
func (s *progressionService) advanceStages(ctx context.Context, exec repositories.SQLExecutor, seasonID int, stage string) error {
	season, err := s.seasonRepo.GetByID(ctx, exec, seasonID)
	if err != nil {
		return fmt.Errorf("%w: season %d", ErrSeasonNotFound, seasonID)
	}

	for stage != "" && stage != schedule.ThirdPlaceLabel {
		stageSeries, err := s.seriesRepo.ListByStage(ctx, exec, seasonID, stage)
		if err != nil {
			return err
		}
		if len(stageSeries) == 0 {
			return nil
		}
		for _, sr := range stageSeries {
			if sr.Status != models.SeriesStatusFinished {
				return nil
			}
		}

		winners := stageWinners(stageSeries)
		if len(winners) < 2 {
			// Champion decided; the season is over.
			if season.Active {
				if err := s.seasonRepo.SetActive(ctx, exec, seasonID, false); err != nil {
					return err
				}
				s.logger.Info("season complete", slog.Int("season_id", seasonID))
			}
			return nil
		}

		nextStage := schedule.StageName(len(winners))
		existing, err := s.seriesRepo.CountByStage(ctx, exec, seasonID, nextStage)
		if err != nil {
			return err
		}
		if existing > 0 {
			// Already advanced; idempotent no-op.
			return nil
		}

		seeds, err := s.seedWinners(ctx, exec, season, winners)
		if err != nil {
			return err
		}

		bestOf := stagePlannedMatches(stageSeries)
		start, err := s.nextStageStart(ctx, exec, seasonID, stageSeries)
		if err != nil {
			return err
		}

		plan := schedule.PlanStage(seeds, bestOf, start, nil)
		if _, err := createStage(ctx, exec, s.seriesRepo, s.matchRepo, seasonID, plan, bestOf); err != nil {
			return err
		}

		if nextStage == schedule.StageName(2) {
			if err := s.createThirdPlaceMatch(ctx, exec, seasonID, stageSeries, start); err != nil {
				return err
			}
		}

		if last := plan.LastMatchDate(); !last.IsZero() {
			if err := s.seasonRepo.ExtendEndDate(ctx, exec, seasonID, last); err != nil {
				return err
			}
		}

		s.logger.Info("stage advanced",
			slog.Int("season_id", seasonID),
			slog.String("from", stage), slog.String("to", nextStage))
		stage = nextStage
	}
	return nil
}

// stageWinners collects winners in slot order; a winner keeps the slot of
// the series it came from so the bracket tree stays position-stable.
type slotWinner struct {
	slot   int
	seed   int
	clubID int
}

func stageWinners(stageSeries []*models.Series) []slotWinner {
	winners := make([]slotWinner, 0, len(stageSeries))
	for _, sr := range stageSeries {
		if sr.WinnerClubID == nil {
			continue
		}
		seed := 0
		switch {
		case sr.HomeSeed != nil && *sr.WinnerClubID == sr.HomeClubID:
			seed = *sr.HomeSeed
		case sr.AwaySeed != nil && *sr.WinnerClubID == sr.AwayClubID:
			seed = *sr.AwaySeed
		}
		winners = append(winners, slotWinner{slot: sr.Slot, seed: seed, clubID: *sr.WinnerClubID})
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].slot < winners[j].slot })
	return winners
}

// seedWinners orders the next-stage field. The bracket format keeps slot
// order so winners of slots (0, last) meet only at the end; the seeded
// series format re-sorts by current standings instead.
func (s *progressionService) seedWinners(ctx context.Context, exec repositories.SQLExecutor, season *models.Season, winners []slotWinner) ([]schedule.Seed, error) {
	if season.Format == models.FormatBestOfSeries {
		standings, err := s.clubStatsRepo.ListBySeason(ctx, exec, season.ID)
		if err != nil {
			return nil, err
		}
		rankByClub := make(map[int]int, len(standings))
		for _, row := range standings {
			rankByClub[row.ClubID] = row.Rank
		}
		sort.SliceStable(winners, func(i, j int) bool {
			ri, okI := rankByClub[winners[i].clubID]
			rj, okJ := rankByClub[winners[j].clubID]
			if okI != okJ {
				return okI
			}
			return ri < rj
		})
	}

	seeds := make([]schedule.Seed, 0, len(winners))
	for i, w := range winners {
		seeds = append(seeds, schedule.Seed{Rank: i + 1, ClubID: w.clubID})
	}
	return seeds, nil
}

// createThirdPlaceMatch pairs the two semifinal losers, lowest recorded seed
// as home. Fewer than two identifiable losers is silently skipped.
func (s *progressionService) createThirdPlaceMatch(ctx context.Context, exec repositories.SQLExecutor, seasonID int, stageSeries []*models.Series, start time.Time) error {
	existing, err := s.seriesRepo.CountByStage(ctx, exec, seasonID, schedule.ThirdPlaceLabel)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	type loser struct {
		seed   int
		clubID int
	}
	losers := make([]loser, 0, 2)
	for _, sr := range stageSeries {
		if sr.IsBye() || sr.WinnerClubID == nil {
			continue
		}
		if *sr.WinnerClubID == sr.HomeClubID {
			l := loser{clubID: sr.AwayClubID}
			if sr.AwaySeed != nil {
				l.seed = *sr.AwaySeed
			}
			losers = append(losers, l)
		} else {
			l := loser{clubID: sr.HomeClubID}
			if sr.HomeSeed != nil {
				l.seed = *sr.HomeSeed
			}
			losers = append(losers, l)
		}
	}
	if len(losers) < 2 {
		return nil
	}
	sort.Slice(losers, func(i, j int) bool { return losers[i].seed < losers[j].seed })

	series := &models.Series{
		SeasonID:       seasonID,
		Stage:          schedule.ThirdPlaceLabel,
		HomeClubID:     losers[0].clubID,
		AwayClubID:     losers[1].clubID,
		HomeSeed:       intPtr(losers[0].seed),
		AwaySeed:       intPtr(losers[1].seed),
		Slot:           0,
		PlannedMatches: 1,
		Status:         models.SeriesStatusInProgress,
	}
	if err := s.seriesRepo.Create(ctx, exec, series); err != nil {
		return err
	}
	match := &models.Match{
		SeasonID:   seasonID,
		SeriesID:   intPtr(series.ID),
		HomeClubID: series.HomeClubID,
		AwayClubID: series.AwayClubID,
		Date:       start,
		Status:     models.MatchStatusScheduled,
	}
	return s.matchRepo.Create(ctx, exec, match)
}

// stagePlannedMatches carries the series length forward from the finished
// stage; byes hold zero and are skipped.
func stagePlannedMatches(stageSeries []*models.Series) int {
	for _, sr := range stageSeries {
		if sr.PlannedMatches > 0 {
			return sr.PlannedMatches
		}
	}
	return 1
}

// nextStageStart is the day after the latest match the finished stage
// actually played.
func (s *progressionService) nextStageStart(ctx context.Context, exec repositories.SQLExecutor, seasonID int, stageSeries []*models.Series) (time.Time, error) {
	var last time.Time
	for _, sr := range stageSeries {
		matches, err := s.matchRepo.ListBySeries(ctx, exec, sr.ID)
		if err != nil {
			return time.Time{}, err
		}
		for _, m := range matches {
			if m.Date.After(last) {
				last = m.Date
			}
		}
	}
	if last.IsZero() {
		last = time.Now()
	}
	return last.AddDate(0, 0, 1), nil
}

// createStage persists one planned knockout stage: a series plus matches per
// pairing, a bye as an already-finished series whose winner is the bye club.
func createStage(
	ctx context.Context,
	exec repositories.SQLExecutor,
	seriesRepo repositories.SeriesRepository,
	matchRepo repositories.MatchRepository,
	seasonID int,
	plan schedule.StagePlan,
	bestOf int,
) ([]*models.Series, error) {
	bestOf = schedule.NormalizeBestOf(bestOf)
	created := make([]*models.Series, 0, len(plan.Series)+1)

	for _, sp := range plan.Series {
		series := &models.Series{
			SeasonID:       seasonID,
			Stage:          sp.Stage,
			HomeClubID:     sp.Home.ClubID,
			AwayClubID:     sp.Away.ClubID,
			HomeSeed:       intPtr(sp.Home.Rank),
			AwaySeed:       intPtr(sp.Away.Rank),
			Slot:           sp.Slot,
			PlannedMatches: bestOf,
			Status:         models.SeriesStatusInProgress,
		}
		if err := seriesRepo.Create(ctx, exec, series); err != nil {
			return nil, fmt.Errorf("failed to create series: %w", err)
		}

		for i, date := range sp.MatchDates {
			home, away := sp.Home.ClubID, sp.Away.ClubID
			// Alternate venue across the series.
			if i%2 == 1 {
				home, away = away, home
			}
			match := &models.Match{
				SeasonID:   seasonID,
				SeriesID:   intPtr(series.ID),
				HomeClubID: home,
				AwayClubID: away,
				Date:       date,
				Status:     models.MatchStatusScheduled,
			}
			if err := matchRepo.Create(ctx, exec, match); err != nil {
				return nil, fmt.Errorf("failed to create series match: %w", err)
			}
		}
		created = append(created, series)
	}

	if plan.Bye != nil {
		bye := &models.Series{
			SeasonID:       seasonID,
			Stage:          plan.Stage,
			HomeClubID:     plan.Bye.ClubID,
			AwayClubID:     plan.Bye.ClubID,
			HomeSeed:       intPtr(plan.Bye.Rank),
			AwaySeed:       intPtr(plan.Bye.Rank),
			Slot:           len(plan.Series),
			PlannedMatches: 0,
			Status:         models.SeriesStatusFinished,
			WinnerClubID:   intPtr(plan.Bye.ClubID),
		}
		if err := seriesRepo.Create(ctx, exec, bye); err != nil {
			return nil, fmt.Errorf("failed to create bye series: %w", err)
		}
		created = append(created, bye)
	}
	return created, nil
}
