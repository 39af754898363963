package controllers

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// newOrderRequest still accepts a price field for wire compatibility, but
// the stored price always comes from the item record.
type newOrderRequest struct {
	UserID uint `json:"user_id" validate:"required"`
	ItemID uint `json:"item_id" validate:"required"`
	Price  int  `json:"price"`
	Count  int  `json:"count" validate:"required|gte:1"`
	Pay    bool `json:"pay"`
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req newOrderRequest
	if !bindJSON(w, r, &req) {
		return
	}

	order, err := c.orders.Place(req.UserID, req.ItemID, req.Count, req.Pay)
	if err != nil {
		fail(w, err, "User or item not found")
		return
	}
	response.Created(w, order)
}

func (c *OrderController) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "user_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	orders, err := c.orders.ByUser(userID, paginate(r))
	if err != nil {
		fail(w, err, "User not found")
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) ByItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	orders, err := c.orders.ByItem(itemID, paginate(r))
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, orders)
}

// Pay marks an order paid. Repeating the call is a no-op success.
func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "order_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := c.orders.MarkPaid(id)
	if err != nil {
		fail(w, err, "Order not found")
		return
	}
	response.Success(w, order)
}
