package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email               string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName            string          `gorm:"type:varchar(100)" json:"full_name,omitempty"`
	Timezone            string          `gorm:"type:varchar(50);not null" json:"timezone"`
	AccountabilityScore decimal.Decimal `gorm:"type:numeric(4,2);not null;default:5.00" json:"accountability_score"`
	PasswordHash        string          `gorm:"type:varchar(255)" json:"-"`
	Role                string          `gorm:"type:varchar(20);not null;default:user" json:"role"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Location resolves the stored IANA zone, falling back to UTC when the
// stored name no longer parses.
func (u *User) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
