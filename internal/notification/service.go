package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/config"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Service fans reminder and system messages out to users and lets them
// acknowledge what they have seen.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) error
	ListUnread(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	n := &Notification{
		UserID:  userID,
		Message: message,
	}
	if err := s.repo.Create(n); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to create notification")
		return err
	}
	return nil
}

func (s *service) ListUnread(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.FindUnreadByUserID(userID)
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(userID)
}
