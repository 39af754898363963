package seeders

import (
	"github.com/splatmarket/splatmarket/app/models"
	"gorm.io/gorm"
)

func init() {
	Register(Seeder{Name: "demo_catalog", Run: seedCatalog})
}

// seedCatalog is idempotent: it does nothing when users already exist.
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user := models.User{Email: "demo@splatmarket.dev", Password: "demo"}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{Name: "furniture"},
		{Name: "figures"},
		{Name: "architecture"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	image := "https://3d-modeling-mall.s3.amazonaws.com/demo-chair.png"
	items := []models.Item{
		{
			Name:        "Scanned armchair",
			Description: "Gaussian splat capture of a mid-century armchair.",
			Price:       120,
			Image:       &image,
			CategoryID:  &categories[0].ID,
		},
		{
			Name:        "Garden gnome",
			Description: "High detail garden gnome scan.",
			Price:       35,
			CategoryID:  &categories[1].ID,
		},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	review := models.Review{
		Content: "Loads fast and looks great in the viewer.",
		Star:    5,
		UserID:  user.ID,
		ItemID:  items[0].ID,
	}
	return db.Create(&review).Error
}
