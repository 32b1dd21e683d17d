package notification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(n *Notification) error
	FindUnreadByUserID(userID uuid.UUID) ([]*Notification, error)
	MarkRead(id, userID uuid.UUID) (int64, error)
	MarkAllRead(userID uuid.UUID) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(n *Notification) error {
	return r.db.Create(n).Error
}

func (r *repository) FindUnreadByUserID(userID uuid.UUID) ([]*Notification, error) {
	var out []*Notification
	if err := r.db.
		Where("user_id = ? AND read = false", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) MarkRead(id, userID uuid.UUID) (int64, error) {
	res := r.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) MarkAllRead(userID uuid.UUID) error {
	return r.db.Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}
