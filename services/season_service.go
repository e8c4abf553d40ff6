package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/schedule"
)

// Days between successive round-robin rounds.
const roundIntervalDays = 7

type CreateSeasonParams struct {
	CompetitionID int                 `json:"competition_id"`
	Name          string              `json:"name"`
	Format        models.SeasonFormat `json:"format"`
	ClubIDs       []int               `json:"club_ids"`
	StartDate     time.Time           `json:"start_date"`
	// Matches are aligned to this weekday; the requested start date moves
	// forward to the first such day.
	Weekday time.Weekday `json:"weekday"`
	// BestOf applies to knockout formats; forced odd, minimum 1.
	BestOf  int                `json:"best_of"`
	Kickoff *time.Duration     `json:"kickoff,omitempty"`
	Groups  []models.GroupSpec `json:"groups,omitempty"`
}

type SeasonService interface {
	CreateSeason(ctx context.Context, params CreateSeasonParams) (*models.Season, error)
	// CreatePlayoffs closes the group stage of a hybrid season and plans the
	// playoff bracket from each group's top finishers.
	CreatePlayoffs(ctx context.Context, seasonID, qualifiersPerGroup, bestOf int) ([]*models.Series, error)
	GetSeason(ctx context.Context, id int) (*models.Season, error)
}

type seasonService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	seasonRepo      repositories.SeasonRepository
	clubRepo        repositories.ClubRepository
	participantRepo repositories.ParticipantRepository
	roundRepo       repositories.RoundRepository
	seriesRepo      repositories.SeriesRepository
	matchRepo       repositories.MatchRepository
	clubStatsRepo   repositories.ClubStatsRepository
	logger          *slog.Logger
}

func NewSeasonService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	seasonRepo repositories.SeasonRepository,
	clubRepo repositories.ClubRepository,
	participantRepo repositories.ParticipantRepository,
	roundRepo repositories.RoundRepository,
	seriesRepo repositories.SeriesRepository,
	matchRepo repositories.MatchRepository,
	clubStatsRepo repositories.ClubStatsRepository,
	logger *slog.Logger,
) SeasonService {
	return &seasonService{
		db:              db,
		competitionRepo: competitionRepo,
		seasonRepo:      seasonRepo,
		clubRepo:        clubRepo,
		participantRepo: participantRepo,
		roundRepo:       roundRepo,
		seriesRepo:      seriesRepo,
		matchRepo:       matchRepo,
		clubStatsRepo:   clubStatsRepo,
		logger:          logger,
	}
}

// alignToWeekday moves t forward to the first occurrence of the weekday,
// keeping t itself when it already matches.
func alignToWeekday(t time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

func (s *seasonService) CreateSeason(ctx context.Context, params CreateSeasonParams) (*models.Season, error) {
	if !params.Format.Valid() {
		return nil, ErrUnknownFormat
	}

	clubIDs := dedupeIDs(params.ClubIDs)
	if len(clubIDs) < 2 {
		return nil, ErrNotEnoughClubs
	}

	if _, err := s.competitionRepo.GetByID(ctx, s.db, params.CompetitionID); err != nil {
		return nil, fmt.Errorf("%w: competition %d", ErrCompetitionNotFound, params.CompetitionID)
	}
	clubs, err := s.clubRepo.ListByIDs(ctx, s.db, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load clubs: %w", err)
	}
	if len(clubs) != len(clubIDs) {
		return nil, fmt.Errorf("%w: %d of %d clubs exist", ErrClubNotFound, len(clubs), len(clubIDs))
	}

	if params.Format == models.FormatGroupPlayoff {
		if err := validateGroups(params.Groups, clubIDs); err != nil {
			return nil, err
		}
	}

	start := alignToWeekday(params.StartDate, params.Weekday)

	season := &models.Season{
		CompetitionID: params.CompetitionID,
		Name:          params.Name,
		Format:        params.Format,
		StartDate:     start,
		EndDate:       start,
		Active:        true,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.seasonRepo.Create(ctx, tx, season); err != nil {
			return fmt.Errorf("failed to create season: %w", err)
		}

		participants := make([]*models.Participant, 0, len(clubIDs))
		for _, clubID := range clubIDs {
			participants = append(participants, &models.Participant{SeasonID: season.ID, ClubID: clubID})
		}
		if err := s.participantRepo.BatchCreate(ctx, tx, participants); err != nil {
			return fmt.Errorf("failed to create participants: %w", err)
		}

		// Zeroed standings rows up front: the standings view never has to
		// special-case an empty season.
		if err := s.clubStatsRepo.BatchCreate(ctx, tx, zeroedStandings(season.ID, clubIDs)); err != nil {
			return fmt.Errorf("failed to seed standings: %w", err)
		}

		var lastDate time.Time
		switch season.Format {
		case models.FormatSingleRoundRobin, models.FormatDoubleRoundRobin:
			repeat := 1
			if season.Format == models.FormatDoubleRoundRobin {
				repeat = 2
			}
			lastDate, err = s.materializeRoundRobin(ctx, tx, season, clubIDs, repeat, start, nil, 0)
			if err != nil {
				return err
			}
		case models.FormatBestOfSeries, models.FormatSingleElimination:
			seeds := make([]schedule.Seed, 0, len(clubIDs))
			for i, clubID := range clubIDs {
				seeds = append(seeds, schedule.Seed{Rank: i + 1, ClubID: clubID})
			}
			plan := schedule.PlanStage(seeds, params.BestOf, start, params.Kickoff)
			if _, err := createStage(ctx, tx, s.seriesRepo, s.matchRepo, season.ID, plan, params.BestOf); err != nil {
				return err
			}
			lastDate = plan.LastMatchDate()
		case models.FormatGroupPlayoff:
			for _, group := range params.Groups {
				label := group.Label
				groupLast, err := s.materializeRoundRobin(ctx, tx, season, group.ClubIDs, 1, start, &label, group.Index)
				if err != nil {
					return err
				}
				if groupLast.After(lastDate) {
					lastDate = groupLast
				}
			}
		}

		if lastDate.After(season.EndDate) {
			season.EndDate = lastDate
			if err := s.seasonRepo.ExtendEndDate(ctx, tx, season.ID, lastDate); err != nil {
				return fmt.Errorf("failed to set season end date: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("season created",
		slog.Int("season_id", season.ID),
		slog.String("format", string(season.Format)),
		slog.Int("clubs", len(clubIDs)))
	return season, nil
}

// materializeRoundRobin writes rounds and matches for one round-robin pass
// set. Group matches carry the group label in both the round label and the
// match row.
func (s *seasonService) materializeRoundRobin(ctx context.Context, tx *sql.Tx, season *models.Season, clubIDs []int, repeat int, start time.Time, groupLabel *string, groupIndex int) (time.Time, error) {
	pairs := schedule.RoundRobin(clubIDs, repeat)
	if len(pairs) == 0 {
		return time.Time{}, ErrNotEnoughClubs
	}

	roundByIndex := make(map[int]*models.Round)
	var lastDate time.Time
	for _, pair := range pairs {
		round, ok := roundByIndex[pair.Round]
		if !ok {
			label := fmt.Sprintf("Round %d", pair.Round+1)
			position := pair.Round
			if groupLabel != nil {
				label = fmt.Sprintf("%s, Round %d", *groupLabel, pair.Round+1)
				position = groupIndex*1000 + pair.Round
			}
			var err error
			round, err = s.roundRepo.GetOrCreate(ctx, tx, season.ID, label, position)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to create round %q: %w", label, err)
			}
			roundByIndex[pair.Round] = round
		}

		date := start.AddDate(0, 0, pair.Round*roundIntervalDays)
		match := &models.Match{
			SeasonID:   season.ID,
			RoundID:    intPtr(round.ID),
			GroupLabel: groupLabel,
			HomeClubID: pair.Home,
			AwayClubID: pair.Away,
			Date:       date,
			Status:     models.MatchStatusScheduled,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return time.Time{}, fmt.Errorf("failed to create match: %w", err)
		}
		if date.After(lastDate) {
			lastDate = date
		}
	}
	return lastDate, nil
}

func (s *seasonService) CreatePlayoffs(ctx context.Context, seasonID, qualifiersPerGroup, bestOf int) ([]*models.Series, error) {
	season, err := s.seasonRepo.GetByID(ctx, s.db, seasonID)
	if err != nil {
		return nil, ErrSeasonNotFound
	}
	if season.Format != models.FormatGroupPlayoff {
		return nil, fmt.Errorf("%w: playoffs require the group format", ErrValidationFailed)
	}
	if !season.Active {
		return nil, ErrSeasonNotActive
	}
	if qualifiersPerGroup < 1 {
		qualifiersPerGroup = 2
	}

	var created []*models.Series
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.seriesRepo.ListBySeason(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrStageAlreadyPlanned
		}

		matches, err := s.matchRepo.ListBySeason(ctx, tx, seasonID, nil)
		if err != nil {
			return err
		}
		groups := make(map[string][]int) // label -> club ids
		for _, m := range matches {
			if m.GroupLabel == nil {
				continue
			}
			if m.Status != models.MatchStatusFinished {
				return fmt.Errorf("%w: group stage has unfinished matches", ErrValidationFailed)
			}
			groups[*m.GroupLabel] = appendUnique(appendUnique(groups[*m.GroupLabel], m.HomeClubID), m.AwayClubID)
		}
		if len(groups) == 0 {
			return fmt.Errorf("%w: season has no group matches", ErrValidationFailed)
		}

		standings, err := s.clubStatsRepo.ListBySeason(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		rankByClub := make(map[int]int, len(standings))
		for _, row := range standings {
			rankByClub[row.ClubID] = row.Rank
		}

		qualifiers := qualifyFromGroups(groups, rankByClub, qualifiersPerGroup)
		if len(qualifiers) < 2 {
			return fmt.Errorf("%w: not enough qualifiers", ErrValidationFailed)
		}

		seeds := make([]schedule.Seed, 0, len(qualifiers))
		for i, clubID := range qualifiers {
			seeds = append(seeds, schedule.Seed{Rank: i + 1, ClubID: clubID})
		}
		start := alignToWeekday(time.Now().AddDate(0, 0, roundIntervalDays), season.StartDate.Weekday())
		plan := schedule.PlanStage(seeds, bestOf, start, nil)

		created, err = createStage(ctx, tx, s.seriesRepo, s.matchRepo, seasonID, plan, bestOf)
		if err != nil {
			return err
		}
		if last := plan.LastMatchDate(); !last.IsZero() {
			if err := s.seasonRepo.ExtendEndDate(ctx, tx, seasonID, last); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("playoffs created", slog.Int("season_id", seasonID), slog.Int("series", len(created)))
	return created, nil
}

func (s *seasonService) GetSeason(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, ErrSeasonNotFound
	}
	return season, nil
}

// qualifyFromGroups interleaves group winners, then runners-up and so on,
// ordered by overall rank inside each band so the seeding rewards the
// stronger group record.
func qualifyFromGroups(groups map[string][]int, rankByClub map[int]int, perGroup int) []int {
	type ranked struct {
		clubID int
		rank   int
	}
	byRank := func(rows []ranked) func(i, j int) bool {
		return func(i, j int) bool { return rows[i].rank < rows[j].rank }
	}

	banded := make([][]ranked, perGroup)
	for _, clubIDs := range groups {
		rows := make([]ranked, 0, len(clubIDs))
		for _, id := range clubIDs {
			rows = append(rows, ranked{clubID: id, rank: rankByClub[id]})
		}
		sort.Slice(rows, byRank(rows))
		for place := 0; place < perGroup && place < len(rows); place++ {
			banded[place] = append(banded[place], rows[place])
		}
	}

	out := make([]int, 0)
	for _, band := range banded {
		sort.Slice(band, byRank(band))
		for _, r := range band {
			out = append(out, r.clubID)
		}
	}
	return out
}

func validateGroups(groups []models.GroupSpec, clubIDs []int) error {
	if len(groups) == 0 {
		return ErrGroupConfigRequired
	}
	inSeason := make(map[int]struct{}, len(clubIDs))
	for _, id := range clubIDs {
		inSeason[id] = struct{}{}
	}

	size := len(groups[0].ClubIDs)
	seenIndex := make(map[int]struct{}, len(groups))
	assigned := make(map[int]struct{})
	for _, g := range groups {
		if len(g.ClubIDs) != size || size < 2 {
			return ErrGroupSlotMismatch
		}
		seenIndex[g.Index] = struct{}{}
		for _, id := range g.ClubIDs {
			if _, ok := inSeason[id]; !ok {
				return ErrGroupClubUnknown
			}
			if _, dup := assigned[id]; dup {
				return ErrGroupClubDuplicate
			}
			assigned[id] = struct{}{}
		}
	}
	for i := 0; i < len(groups); i++ {
		if _, ok := seenIndex[i]; !ok {
			return ErrGroupIndexGap
		}
	}
	if len(assigned) != len(clubIDs) {
		return ErrGroupSlotMismatch
	}
	return nil
}

func zeroedStandings(seasonID int, clubIDs []int) []*models.ClubSeasonStats {
	rows := make([]*models.ClubSeasonStats, 0, len(clubIDs))
	for i, clubID := range clubIDs {
		rows = append(rows, &models.ClubSeasonStats{
			SeasonID: seasonID,
			ClubID:   clubID,
			Rank:     i + 1,
		})
	}
	return rows
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func appendUnique(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
