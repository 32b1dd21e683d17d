package goal

import (
	"time"

	"github.com/google/uuid"
	util "github.com/ironwill-app/ironwill/internal/utils"
	"gorm.io/datatypes"
)

type Goal struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	ReviewTime     util.ClockTime `gorm:"type:time;not null" json:"review_time"`
	FrequencyType  FrequencyType  `gorm:"type:varchar(20);not null;default:DAILY" json:"frequency_type"`
	CriteriaConfig datatypes.JSON `gorm:"type:jsonb;not null" json:"criteria_config"`
	Status         GoalStatus     `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`
	LockedUntil    *time.Time     `json:"locked_until,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
