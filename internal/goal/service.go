package goal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/config"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, dto CreateGoalDTO) (*GoalResponse, error)
	List(ctx context.Context, userID uuid.UUID, status *GoalStatus) ([]GoalResponse, error)
	Update(ctx context.Context, id, userID uuid.UUID, dto UpdateGoalDTO) (*GoalResponse, error)
}

type service struct {
	repo GoalRepository
}

func NewService(repo GoalRepository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, dto CreateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)

	g := Goal{
		UserID:         userID,
		Title:          dto.Title,
		ReviewTime:     dto.ReviewTime,
		FrequencyType:  dto.FrequencyType,
		CriteriaConfig: dto.CriteriaConfig,
		Status:         StatusActive,
	}
	if g.FrequencyType == "" {
		g.FrequencyType = FrequencyDaily
	}

	if err := s.repo.Create(&g); err != nil {
		log.WithError(err).Error("Failed to create goal")
		return nil, err
	}

	return s.toResponse(&g), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, status *GoalStatus) ([]GoalResponse, error) {
	var (
		goals []*Goal
		err   error
	)
	if status != nil {
		goals, err = s.repo.FindByUserAndStatus(userID, *status)
	} else {
		goals, err = s.repo.FindAllByUserID(userID)
	}
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list goals")
		return nil, err
	}

	responses := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		responses = append(responses, *s.toResponse(g))
	}
	return responses, nil
}

func (s *service) Update(ctx context.Context, id, userID uuid.UUID, dto UpdateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)

	g, err := s.repo.FindByIDAndUserID(id, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load goal for update")
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	if dto.Title != nil {
		g.Title = *dto.Title
	}
	if dto.ReviewTime != nil {
		g.ReviewTime = *dto.ReviewTime
	}
	if dto.FrequencyType != nil {
		g.FrequencyType = *dto.FrequencyType
	}
	if dto.CriteriaConfig != nil {
		g.CriteriaConfig = *dto.CriteriaConfig
	}
	if dto.Status != nil {
		if !CanTransition(g.Status, *dto.Status) {
			return nil, ErrInvalidTransition
		}
		g.Status = *dto.Status
		if g.Status != StatusLocked {
			g.LockedUntil = nil
		}
	}

	if err := s.repo.Update(g); err != nil {
		log.WithError(err).Error("Failed to update goal")
		return nil, err
	}

	return s.toResponse(g), nil
}

func (s *service) toResponse(g *Goal) *GoalResponse {
	return &GoalResponse{
		ID:             g.ID,
		Title:          g.Title,
		ReviewTime:     g.ReviewTime,
		FrequencyType:  g.FrequencyType,
		Status:         g.Status,
		CriteriaConfig: g.CriteriaConfig,
		LockedUntil:    g.LockedUntil,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}
