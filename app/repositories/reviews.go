package repositories

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	base
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{base{db: db}}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	return r.query().Create(review)
}

func (r *ReviewRepository) List(p orm.Pagination) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.query().Model(&models.Review{}).Paginate(p).Get(&reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) ByItem(itemID uint, p orm.Pagination) ([]models.Review, error) {
	var reviews []models.Review
	err := r.query().Model(&models.Review{}).
		Where("item_id = ?", itemID).
		Paginate(p).
		Get(&reviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
