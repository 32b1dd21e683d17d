package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(g *Goal) error
	FindByIDAndUserID(id, userID uuid.UUID) (*Goal, error)
	FindAllByUserID(userID uuid.UUID) ([]*Goal, error)
	FindByUserAndStatus(userID uuid.UUID, status GoalStatus) ([]*Goal, error)
	Update(g *Goal) error
	LockAllActive(userID uuid.UUID, until time.Time) error
	WithTx(tx *gorm.DB) GoalRepository
}

type goalRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(g *Goal) error {
	return r.db.Create(g).Error
}

func (r *goalRepository) FindByIDAndUserID(id, userID uuid.UUID) (*Goal, error) {
	var g Goal
	if err := r.db.First(&g, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *goalRepository) FindAllByUserID(userID uuid.UUID) ([]*Goal, error) {
	var goals []*Goal
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) FindByUserAndStatus(userID uuid.UUID, status GoalStatus) ([]*Goal, error) {
	var goals []*Goal
	if err := r.db.
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Update(g *Goal) error {
	return r.db.Save(g).Error
}

// LockAllActive flips every ACTIVE goal of the user to LOCKED in one
// UPDATE so no partially locked state is ever visible.
func (r *goalRepository) LockAllActive(userID uuid.UUID, until time.Time) error {
	return r.db.Model(&Goal{}).
		Where("user_id = ? AND status = ?", userID, StatusActive).
		Updates(map[string]interface{}{
			"status":       StatusLocked,
			"locked_until": until,
		}).Error
}

func (r *goalRepository) WithTx(tx *gorm.DB) GoalRepository {
	if tx == nil {
		return r
	}
	return &goalRepository{db: tx}
}
