package services

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/pkg/orm"
)

type OrderService struct {
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
	items  *repositories.ItemRepository
}

func NewOrderService(
	orders *repositories.OrderRepository,
	users *repositories.UserRepository,
	items *repositories.ItemRepository,
) *OrderService {
	return &OrderService{orders: orders, users: users, items: items}
}

// Place creates an order. Both the user and item must exist. The stored
// price is the item's current per-unit price; any client-supplied price is
// ignored and the item record itself is never modified.
func (s *OrderService) Place(userID, itemID uint, count int, pay bool) (*models.Order, error) {
	if _, err := s.users.Find(userID); err != nil {
		return nil, notFound(err)
	}

	item, err := s.items.Find(itemID)
	if err != nil {
		return nil, notFound(err)
	}

	order := &models.Order{
		UserID: userID,
		ItemID: itemID,
		Price:  item.Price,
		Count:  count,
		Pay:    pay,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ByUser lists a user's orders, 404ing when the user does not exist.
func (s *OrderService) ByUser(userID uint, p orm.Pagination) ([]models.Order, error) {
	if _, err := s.users.Find(userID); err != nil {
		return nil, notFound(err)
	}
	return s.orders.ByUser(userID, p)
}

// ByItem lists an item's orders, 404ing when the item does not exist.
func (s *OrderService) ByItem(itemID uint, p orm.Pagination) ([]models.Order, error) {
	if _, err := s.items.Find(itemID); err != nil {
		return nil, notFound(err)
	}
	return s.orders.ByItem(itemID, p)
}

// MarkPaid flips pay to true, idempotently. A missing order returns
// ErrNotFound.
func (s *OrderService) MarkPaid(id uint) (*models.Order, error) {
	order, err := s.orders.MarkPaid(id)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}
