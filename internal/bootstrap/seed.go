package bootstrap

import (
	"github.com/verdeo/ecohabit/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Badge{},
		&model.Action{},
	)
}
