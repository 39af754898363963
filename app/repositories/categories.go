package repositories

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	base
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{base{db: db}}
}

func (r *CategoryRepository) Create(category *models.Category) error {
	return r.query().Create(category)
}

func (r *CategoryRepository) Find(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.query().Where("id = ?", id).First(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) List(p orm.Pagination) ([]models.Category, error) {
	var categories []models.Category
	if err := r.query().Model(&models.Category{}).Paginate(p).Get(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}
