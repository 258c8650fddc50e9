package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BadgeKindStreak    = "streak"
	BadgeKindMilestone = "milestone"
	BadgeKindCategory  = "category"
)

// Badge is one fixed achievement definition. The set is seeded at startup and
// read-only afterwards; BadgeID is the stable public identifier.
type Badge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BadgeID     string    `gorm:"size:50;uniqueIndex;not null" json:"badge_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:20" json:"icon"`
	Kind        string    `gorm:"size:20;not null" json:"kind"`
	Requirement int       `gorm:"not null" json:"requirement"`
	// Category holds the counted action type for category badges, empty otherwise.
	Category  string    `gorm:"size:50" json:"category,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
