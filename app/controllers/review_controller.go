package controllers

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

type ReviewController struct {
	catalog *services.CatalogService
}

func NewReviewController(catalog *services.CatalogService) *ReviewController {
	return &ReviewController{catalog: catalog}
}

// Star is presence-checked only; the stored rating is deliberately
// unbounded.
type newReviewRequest struct {
	Content string `json:"content" validate:"required"`
	Star    int    `json:"star" validate:"required"`
	UserID  uint   `json:"user_id" validate:"required"`
}

// Create attaches a review to the item in the path.
func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req newReviewRequest
	if !bindJSON(w, r, &req) {
		return
	}

	review, err := c.catalog.CreateReview(itemID, &models.Review{
		Content: req.Content,
		Star:    req.Star,
		UserID:  req.UserID,
	})
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Created(w, review)
}

func (c *ReviewController) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.catalog.ListReviews(paginate(r))
	if err != nil {
		fail(w, err, "Review not found")
		return
	}
	response.Success(w, reviews)
}

func (c *ReviewController) ByItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	reviews, err := c.catalog.ItemReviews(itemID, paginate(r))
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, reviews)
}
