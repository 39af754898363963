package controllers

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type newCategoryRequest struct {
	Name string `json:"name" validate:"required|min:1|max:100"`
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req newCategoryRequest
	if !bindJSON(w, r, &req) {
		return
	}

	category, err := c.catalog.CreateCategory(req.Name)
	if err != nil {
		fail(w, err, "Category not found")
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.ListCategories(paginate(r))
	if err != nil {
		fail(w, err, "Category not found")
		return
	}
	response.Success(w, categories)
}
