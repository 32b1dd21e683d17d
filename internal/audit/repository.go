package audit

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrDuplicateAudit surfaces the (goal_id, audit_date) unique constraint
// to the losing side of a concurrent submission race.
var ErrDuplicateAudit = errors.New("audit already recorded for this goal and date")

type Repository interface {
	FindByGoalAndDate(goalID uuid.UUID, date datatypes.Date) (*AuditLog, error)
	Create(a *AuditLog) error
	Update(a *AuditLog) error
	WithTx(tx *gorm.DB) Repository
}

type auditRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) FindByGoalAndDate(goalID uuid.UUID, date datatypes.Date) (*AuditLog, error) {
	var a AuditLog
	if err := r.db.First(&a, "goal_id = ? AND audit_date = ?", goalID, date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *auditRepository) Create(a *AuditLog) error {
	if err := r.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAudit
		}
		return err
	}
	return nil
}

func (r *auditRepository) Update(a *AuditLog) error {
	return r.db.Save(a).Error
}

func (r *auditRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &auditRepository{db: tx}
}
