package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

const (
	broadcastBatchSize   = 20
	broadcastMaxAttempts = 3
)

// BroadcastService queues outbound email broadcasts and drains the queue in
// the background. Delivery failures are retried; an item is marked failed
// for good after broadcastMaxAttempts.
type BroadcastService interface {
	// EnqueueMatchFinalized queues a result announcement for every
	// registered user. Called from a finalize post-commit hook.
	EnqueueMatchFinalized(ctx context.Context, res *FinalizeResult) error
	Enqueue(ctx context.Context, subject, body string, recipients []string) error
	// DrainPending sends one batch of queued notifications.
	DrainPending(ctx context.Context) error
}

type broadcastService struct {
	db               *sql.DB
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	sender           EmailSender
	logger           *slog.Logger
}

func NewBroadcastService(
	db *sql.DB,
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	sender EmailSender,
	logger *slog.Logger,
) BroadcastService {
	return &broadcastService{
		db:               db,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sender:           sender,
		logger:           logger,
	}
}

func (s *broadcastService) EnqueueMatchFinalized(ctx context.Context, res *FinalizeResult) error {
	recipients, err := s.userRepo.ListEmailsByRole(ctx, s.db, models.RoleUser)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	m := res.Match
	home, away := fmt.Sprintf("club %d", m.HomeClubID), fmt.Sprintf("club %d", m.AwayClubID)
	if m.HomeClub != nil {
		home = m.HomeClub.Name
	}
	if m.AwayClub != nil {
		away = m.AwayClub.Name
	}
	score := ""
	if m.HomeScore != nil && m.AwayScore != nil {
		score = fmt.Sprintf("%d:%d", *m.HomeScore, *m.AwayScore)
	}

	subject := fmt.Sprintf("Full time: %s %s %s", home, score, away)
	body := fmt.Sprintf("<p>%s %s %s in %s.</p>", home, score, away, res.Season.Name)
	return s.Enqueue(ctx, subject, body, recipients)
}

func (s *broadcastService) Enqueue(ctx context.Context, subject, body string, recipients []string) error {
	n := &models.Notification{
		ID:         uuid.NewString(),
		Subject:    subject,
		Body:       body,
		Recipients: recipients,
		Status:     models.NotificationPending,
	}
	if err := s.notificationRepo.Enqueue(ctx, s.db, n); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

func (s *broadcastService) DrainPending(ctx context.Context) error {
	pending, err := s.notificationRepo.ListPending(ctx, s.db, broadcastBatchSize)
	if err != nil {
		return err
	}
	for _, n := range pending {
		if err := s.sender.Send(n.Recipients, n.Subject, n.Body); err != nil {
			attempts := n.Attempts + 1
			final := attempts >= broadcastMaxAttempts
			s.logger.Warn("notification delivery failed",
				slog.String("id", n.ID), slog.Int("attempts", attempts),
				slog.Bool("final", final), slog.Any("error", err))
			if markErr := s.notificationRepo.MarkFailed(ctx, s.db, n.ID, attempts, err.Error(), final); markErr != nil {
				return markErr
			}
			continue
		}
		if err := s.notificationRepo.MarkSent(ctx, s.db, n.ID); err != nil {
			return err
		}
	}
	return nil
}
