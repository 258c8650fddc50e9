package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action is one logged eco-action. Points and CarbonSaved are always the
// catalog values for the type, never client supplied. Records are immutable
// once created, except "Reflection" entries whose notes are upserted by the
// journal.
type Action struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_action_user_date,priority:1;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Points      float64   `gorm:"not null" json:"points"`
	CarbonSaved float64   `gorm:"not null" json:"carbon_saved"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Date        time.Time `gorm:"index:idx_action_user_date,priority:2,sort:desc;index:idx_action_date" json:"date"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
