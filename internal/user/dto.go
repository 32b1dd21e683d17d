package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type TimezoneRequest struct {
	Timezone string `json:"timezone"`
}

type ProfileResponse struct {
	Email               string          `json:"email"`
	FullName            string          `json:"full_name,omitempty"`
	Timezone            string          `json:"timezone"`
	AccountabilityScore decimal.Decimal `json:"accountability_score"`
	Locked              bool            `json:"locked"`
	LockedUntil         *time.Time      `json:"locked_until,omitempty"`
}
