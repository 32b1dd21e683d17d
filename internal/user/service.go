package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/goal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTimezone    = errors.New("invalid timezone")
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) error
}

type service struct {
	repo  UserRepository
	goals goal.GoalRepository
}

func NewService(repo UserRepository, goals goal.GoalRepository) Service {
	return &service{repo: repo, goals: goals}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(req.Email)
	if err != nil {
		log.WithError(err).Error("Failed to look up user for login")
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByID(userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user profile")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	locked := false
	var lockedUntil *time.Time
	lockedGoals, err := s.goals.FindByUserAndStatus(userID, goal.StatusLocked)
	if err != nil {
		log.WithError(err).Error("Failed to load locked goals for profile")
		return nil, err
	}
	for _, g := range lockedGoals {
		locked = true
		if g.LockedUntil != nil && (lockedUntil == nil || g.LockedUntil.After(*lockedUntil)) {
			lockedUntil = g.LockedUntil
		}
	}

	return &ProfileResponse{
		Email:               u.Email,
		FullName:            u.FullName,
		Timezone:            u.Timezone,
		AccountabilityScore: u.AccountabilityScore,
		Locked:              locked,
		LockedUntil:         lockedUntil,
	}, nil
}

func (s *service) UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) error {
	log := config.WithContext(ctx)

	if _, err := time.LoadLocation(timezone); err != nil {
		return ErrInvalidTimezone
	}

	u, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	u.Timezone = timezone
	if err := s.repo.Save(u); err != nil {
		log.WithError(err).Error("Failed to update user timezone")
		return err
	}
	return nil
}
