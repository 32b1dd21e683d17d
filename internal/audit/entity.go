package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_goal_audit_date" json:"goal_id"`
	AuditDate    datatypes.Date  `gorm:"not null;uniqueIndex:uq_goal_audit_date" json:"audit_date"`
	ProofURL     string          `gorm:"type:text" json:"proof_url"`
	Status       AuditStatus     `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	AgentRemarks string          `gorm:"type:text" json:"agent_remarks,omitempty"`
	ScoreImpact  decimal.Decimal `gorm:"type:numeric(4,2)" json:"score_impact"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DateOf truncates t to its calendar date in t's location. The goal's
// audit day is the owner's local day, so callers convert first.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
