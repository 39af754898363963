// Package migrations registers the schema history. Order of the Register
// calls is the run order.
package migrations

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0001_create_users",
		Up: func(db *gorm.DB) error {
			return db.Migrator().AutoMigrate(&models.User{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.User{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0002_create_categories",
		Up: func(db *gorm.DB) error {
			return db.Migrator().AutoMigrate(&models.Category{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Category{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0003_create_items",
		Up: func(db *gorm.DB) error {
			return db.Migrator().AutoMigrate(&models.Item{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Item{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0004_create_orders",
		Up: func(db *gorm.DB) error {
			return db.Migrator().AutoMigrate(&models.Order{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Order{})
		},
	})

	migration.Register(migration.Migration{
		Name: "0005_create_reviews",
		Up: func(db *gorm.DB) error {
			return db.Migrator().AutoMigrate(&models.Review{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Review{})
		},
	})
}
