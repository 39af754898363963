package repositories

import (
	"time"

	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/cache"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

// itemListCacheKey caches the first default page of the item listing, the
// hottest read in the API.
const (
	itemListCacheKey = "items:list:default"
	itemListCacheTTL = 30 * time.Second
)

type ItemRepository struct {
	base
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{base{db: db}}
}

func (r *ItemRepository) Create(item *models.Item) error {
	if err := r.query().Create(item); err != nil {
		return err
	}
	cache.Forget(itemListCacheKey) //nolint:errcheck
	return nil
}

func (r *ItemRepository) Find(id uint) (*models.Item, error) {
	var item models.Item
	if err := r.query().Where("id = ?", id).First(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List serves the default window through the read-through cache; custom
// windows hit the database directly.
func (r *ItemRepository) List(p orm.Pagination) ([]models.Item, error) {
	var items []models.Item

	if p.Offset == 0 && p.Limit == orm.DefaultLimit {
		q := r.query().Model(&models.Item{}).Paginate(p)
		if err := q.Cache(itemListCacheKey, itemListCacheTTL, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	if err := r.query().Model(&models.Item{}).Paginate(p).Get(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) ByCategory(categoryID uint, p orm.Pagination) ([]models.Item, error) {
	var items []models.Item
	err := r.query().Model(&models.Item{}).
		Where("category_id = ?", categoryID).
		Paginate(p).
		Get(&items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SearchByName matches case-insensitively on a substring of the name.
func (r *ItemRepository) SearchByName(name string, p orm.Pagination) ([]models.Item, error) {
	var items []models.Item
	err := r.query().Model(&models.Item{}).
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Paginate(p).
		Get(&items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSplat overwrites the item's splat URL.
func (r *ItemRepository) UpdateSplat(item *models.Item, url string) error {
	item.Splat = &url
	if err := r.query().Save(item); err != nil {
		return err
	}
	cache.Forget(itemListCacheKey) //nolint:errcheck
	return nil
}

// ClearCategory detaches categoryID from the item by nulling the foreign
// key. Both records must exist; either missing returns
// gorm.ErrRecordNotFound.
func (r *ItemRepository) ClearCategory(itemID, categoryID uint) (*models.Item, error) {
	var category models.Category
	if err := r.query().Where("id = ?", categoryID).First(&category); err != nil {
		return nil, err
	}

	var item models.Item
	if err := r.query().Where("id = ?", itemID).First(&item); err != nil {
		return nil, err
	}

	if item.CategoryID == nil || *item.CategoryID != categoryID {
		// Not attached; nothing to detach.
		return &item, nil
	}

	item.CategoryID = nil
	if err := r.query().Save(&item); err != nil {
		return nil, err
	}
	cache.Forget(itemListCacheKey) //nolint:errcheck
	return &item, nil
}
