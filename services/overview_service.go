package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/league-system/cache"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

const topScorersLimit = 10

// SeasonOverview is the composite season page payload.
type SeasonOverview struct {
	Season     *models.Season              `json:"season"`
	Standings  []*models.ClubSeasonStats   `json:"standings"`
	Upcoming   []*models.Match             `json:"upcoming"`
	Results    []*models.Match             `json:"results"`
	TopScorers []*models.PlayerSeasonStats `json:"top_scorers"`
	ActiveBans []*models.Disqualification  `json:"active_bans"`
}

type OverviewService interface {
	GetSeasonOverview(ctx context.Context, seasonID int) (*SeasonOverview, error)
}

type overviewService struct {
	db              *sql.DB
	seasonRepo      repositories.SeasonRepository
	matchRepo       repositories.MatchRepository
	clubStatsRepo   repositories.ClubStatsRepository
	playerStatsRepo repositories.PlayerStatsRepository
	disqRepo        repositories.DisqualificationRepository
	store           *cache.Store
}

func NewOverviewService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	clubStatsRepo repositories.ClubStatsRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	disqRepo repositories.DisqualificationRepository,
	store *cache.Store,
) OverviewService {
	return &overviewService{
		db:              db,
		seasonRepo:      seasonRepo,
		matchRepo:       matchRepo,
		clubStatsRepo:   clubStatsRepo,
		playerStatsRepo: playerStatsRepo,
		disqRepo:        disqRepo,
		store:           store,
	}
}

func (s *overviewService) GetSeasonOverview(ctx context.Context, seasonID int) (*SeasonOverview, error) {
	value, err := s.store.GetOrLoad(ctx, cache.SeasonKey(seasonID, "overview"), func(ctx context.Context) (any, error) {
		return s.loadOverview(ctx, seasonID)
	})
	if err != nil {
		return nil, err
	}
	overview, ok := value.(*SeasonOverview)
	if !ok {
		return s.loadOverview(ctx, seasonID)
	}
	return overview, nil
}

func (s *overviewService) loadOverview(ctx context.Context, seasonID int) (*SeasonOverview, error) {
	season, err := s.seasonRepo.GetByID(ctx, s.db, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	overview := &SeasonOverview{Season: season}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		standings, err := s.clubStatsRepo.ListBySeason(ctx, s.db, seasonID)
		if err != nil {
			return err
		}
		overview.Standings = standings
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListBySeason(ctx, s.db, seasonID, nil)
		if err != nil {
			return err
		}
		overview.Upcoming, overview.Results = splitSchedule(matches)
		return nil
	})
	g.Go(func() error {
		scorers, err := s.playerStatsRepo.ListBySeason(ctx, s.db, seasonID)
		if err != nil {
			return err
		}
		if len(scorers) > topScorersLimit {
			scorers = scorers[:topScorersLimit]
		}
		overview.TopScorers = scorers
		return nil
	})
	g.Go(func() error {
		bans, err := s.disqRepo.ListBySeason(ctx, s.db, seasonID, true)
		if err != nil {
			return err
		}
		overview.ActiveBans = bans
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// splitSchedule separates matches still to be played from finished results.
// Results are returned most recent first.
func splitSchedule(matches []*models.Match) (upcoming, results []*models.Match) {
	upcoming = make([]*models.Match, 0, len(matches))
	results = make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.MatchStatusFinished {
			results = append(results, m)
		} else {
			upcoming = append(upcoming, m)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Date.After(results[j].Date)
	})
	return upcoming, results
}
