package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

// maxUploadBytes caps multipart forms at 256 MiB; splat and video assets
// run large.
const maxUploadBytes = 256 << 20

type ItemController struct {
	catalog *services.CatalogService
}

func NewItemController(catalog *services.CatalogService) *ItemController {
	return &ItemController{catalog: catalog}
}

// Create handles the multipart listing form: name, description, price,
// optional category_id, optional image and video files.
func (c *ItemController) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		response.ValidationError(w, map[string]string{"name": "field is required"})
		return
	}

	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil {
		response.ValidationError(w, map[string]string{"price": "must be an integer"})
		return
	}

	rawCategory := r.FormValue("category_id")
	if rawCategory == "" {
		response.ValidationError(w, map[string]string{"category_id": "field is required"})
		return
	}
	categoryID, err := strconv.ParseUint(rawCategory, 10, 32)
	if err != nil {
		response.ValidationError(w, map[string]string{"category_id": "must be an integer"})
		return
	}
	cid := uint(categoryID)

	in := services.NewItemInput{
		Name:        name,
		Description: r.FormValue("description"),
		Price:       price,
		CategoryID:  &cid,
		Image:       formFile(r, "image"),
		Video:       formFile(r, "video"),
	}

	item, err := c.catalog.CreateItem(r.Context(), in)
	if err != nil {
		fail(w, err, "Item not found")
		return
	}

	response.Created(w, item)
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if files := r.MultipartForm.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

func (c *ItemController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.catalog.ListItems(paginate(r))
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, items)
}

func (c *ItemController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	item, err := c.catalog.GetItem(id)
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, item)
}

func (c *ItemController) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "category_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	items, err := c.catalog.ItemsByCategory(id, paginate(r))
	if err != nil {
		fail(w, err, "Category not found")
		return
	}
	response.Success(w, items)
}

func (c *ItemController) Search(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "item_name")
	items, err := c.catalog.SearchItems(name, paginate(r))
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, items)
}

// Media returns the {image_path, video_path, splat_path} triple.
func (c *ItemController) Media(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	media, err := c.catalog.GetItemMedia(id)
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, media)
}

// Image streams the item's stored image bytes.
func (c *ItemController) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	rc, err := c.catalog.FetchItemImage(r.Context(), id)
	if err != nil {
		fail(w, err, "Image not found")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, rc) //nolint:errcheck
}

// UpdateSplat replaces the item's splat asset from a multipart upload.
func (c *ItemController) UpdateSplat(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	fh := formFile(r, "splat")
	if fh == nil {
		fh = formFile(r, "file")
	}
	if fh == nil {
		response.ValidationError(w, map[string]string{"splat": "field is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".splat") {
		response.ValidationError(w, map[string]string{"splat": "must be a .splat file"})
		return
	}

	item, err := c.catalog.UpdateSplat(r.Context(), id, fh)
	if err != nil {
		fail(w, err, "Item not found")
		return
	}
	response.Success(w, item)
}

// DetachCategory nulls the item's category foreign key.
func (c *ItemController) DetachCategory(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "item_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	categoryID, err := uintParam(r, "category_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	item, err := c.catalog.DetachCategory(itemID, categoryID)
	if err != nil {
		fail(w, err, "Item or category not found")
		return
	}
	response.Success(w, item)
}
