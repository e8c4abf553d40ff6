package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

var crestExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

type ClubService interface {
	CreateClub(ctx context.Context, name string, city *string) (*models.Club, error)
	GetClub(ctx context.Context, id int) (*models.Club, error)
	ListClubs(ctx context.Context) ([]*models.Club, error)
	ListRoster(ctx context.Context, clubID int) ([]*models.Player, error)
	CreatePlayer(ctx context.Context, player *models.Player) error
	// UploadCrest replaces the club crest. The previous object is removed
	// from storage on success.
	UploadCrest(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error)
}

type clubService struct {
	db         *sql.DB
	clubRepo   repositories.ClubRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewClubService(
	db *sql.DB,
	clubRepo repositories.ClubRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ClubService {
	return &clubService{
		db:         db,
		clubRepo:   clubRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *clubService) CreateClub(ctx context.Context, name string, city *string) (*models.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: club name is required", ErrValidationFailed)
	}
	club := &models.Club{Name: name, City: city}
	if err := s.clubRepo.Create(ctx, s.db, club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	s.populateCrestURL(club)
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context) ([]*models.Club, error) {
	clubs, err := s.clubRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for _, c := range clubs {
		s.populateCrestURL(c)
	}
	return clubs, nil
}

func (s *clubService) ListRoster(ctx context.Context, clubID int) ([]*models.Player, error) {
	if _, err := s.clubRepo.GetByID(ctx, s.db, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return s.playerRepo.ListByClub(ctx, s.db, clubID)
}

func (s *clubService) CreatePlayer(ctx context.Context, player *models.Player) error {
	if strings.TrimSpace(player.FirstName) == "" || strings.TrimSpace(player.LastName) == "" {
		return fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if player.ClubID != nil {
		if _, err := s.clubRepo.GetByID(ctx, s.db, *player.ClubID); err != nil {
			if errors.Is(err, repositories.ErrClubNotFound) {
				return ErrClubNotFound
			}
			return err
		}
	}
	return s.playerRepo.Create(ctx, s.db, player)
}

func (s *clubService) UploadCrest(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", ErrValidationFailed)
	}
	ext, ok := crestExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported crest content type %q", ErrValidationFailed, contentType)
	}

	club, err := s.clubRepo.GetByID(ctx, s.db, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("clubs/%d/crest%s", clubID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest: %w", err)
	}

	oldKey := club.CrestKey
	if err := s.clubRepo.UpdateCrestKey(ctx, s.db, clubID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to remove previous crest",
				slog.Int("club_id", clubID), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	club.CrestKey = &result.Key
	s.populateCrestURL(club)
	return club, nil
}

func (s *clubService) populateCrestURL(club *models.Club) {
	if s.uploader == nil || club == nil || club.CrestKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*club.CrestKey); url != "" {
		club.CrestURL = &url
	}
}
