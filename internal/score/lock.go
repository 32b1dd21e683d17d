package score

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/goal"
	"gorm.io/gorm"
)

// LockManager applies the blast-radius policy: one user falling below
// the threshold locks every one of their active goals at once. Expiry
// of the lock is informational; nothing here ever unlocks a goal.
type LockManager interface {
	LockActiveGoals(ctx context.Context, userID uuid.UUID, now time.Time) error
	WithTx(tx *gorm.DB) LockManager
}

type lockManager struct {
	goals goal.GoalRepository
}

func NewLockManager(goals goal.GoalRepository) LockManager {
	return &lockManager{goals: goals}
}

func (m *lockManager) LockActiveGoals(ctx context.Context, userID uuid.UUID, now time.Time) error {
	log := config.WithContext(ctx)

	if !goal.CanAutoTransition(goal.StatusActive, goal.StatusLocked) {
		return goal.ErrInvalidTransition
	}

	until := now.Add(LockDuration)
	if err := m.goals.LockAllActive(userID, until); err != nil {
		log.WithError(err).Error("Failed to lock active goals")
		return err
	}

	log.WithField("user_id", userID).Warnf("Locked all active goals until %s", until.Format(time.RFC3339))
	return nil
}

func (m *lockManager) WithTx(tx *gorm.DB) LockManager {
	if tx == nil {
		return m
	}
	return &lockManager{goals: m.goals.WithTx(tx)}
}
