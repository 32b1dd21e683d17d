package goal

import (
	"time"

	"github.com/google/uuid"
	util "github.com/ironwill-app/ironwill/internal/utils"
	"gorm.io/datatypes"
)

type CreateGoalDTO struct {
	Title          string         `json:"title"`
	ReviewTime     util.ClockTime `json:"review_time"`
	FrequencyType  FrequencyType  `json:"frequency_type"`
	CriteriaConfig datatypes.JSON `json:"criteria_config"`
}

type UpdateGoalDTO struct {
	Title          *string         `json:"title"`
	ReviewTime     *util.ClockTime `json:"review_time"`
	FrequencyType  *FrequencyType  `json:"frequency_type"`
	CriteriaConfig *datatypes.JSON `json:"criteria_config"`
	Status         *GoalStatus     `json:"status"`
}

type GoalResponse struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	ReviewTime     util.ClockTime `json:"review_time"`
	FrequencyType  FrequencyType  `json:"frequency_type"`
	Status         GoalStatus     `json:"status"`
	CriteriaConfig datatypes.JSON `json:"criteria_config"`
	LockedUntil    *time.Time     `json:"locked_until,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
