package repositories

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type OrderRepository struct {
	base
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{base{db: db}}
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.query().Create(order)
}

func (r *OrderRepository) Find(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.query().Where("id = ?", id).First(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ByUser(userID uint, p orm.Pagination) ([]models.Order, error) {
	var orders []models.Order
	err := r.query().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Paginate(p).
		Get(&orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ByItem(itemID uint, p orm.Pagination) ([]models.Order, error) {
	var orders []models.Order
	err := r.query().Model(&models.Order{}).
		Where("item_id = ?", itemID).
		Paginate(p).
		Get(&orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkPaid flips pay to true. Idempotent: marking an already paid order is
// not an error. A missing order returns gorm.ErrRecordNotFound.
func (r *OrderRepository) MarkPaid(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.query().Where("id = ?", id).First(&order); err != nil {
		return nil, err
	}

	if order.Pay {
		return &order, nil
	}

	order.Pay = true
	if err := r.query().Save(&order); err != nil {
		return nil, err
	}
	return &order, nil
}
