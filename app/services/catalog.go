package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/pkg/orm"
)

// CatalogService covers items, categories and reviews.
type CatalogService struct {
	items      *repositories.ItemRepository
	categories *repositories.CategoryRepository
	reviews    *repositories.ReviewRepository
	media      *MediaService
}

func NewCatalogService(
	items *repositories.ItemRepository,
	categories *repositories.CategoryRepository,
	reviews *repositories.ReviewRepository,
	media *MediaService,
) *CatalogService {
	return &CatalogService{
		items:      items,
		categories: categories,
		reviews:    reviews,
		media:      media,
	}
}

// NewItemInput carries the multipart listing form. Image and Video are
// optional.
type NewItemInput struct {
	Name        string
	Description string
	Price       int
	CategoryID  *uint
	Image       *multipart.FileHeader
	Video       *multipart.FileHeader
}

// CreateItem stores the optional media first, then persists the listing
// with the resolved URLs.
func (s *CatalogService) CreateItem(ctx context.Context, in NewItemInput) (*models.Item, error) {
	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}

	if in.Image != nil {
		url, err := s.storeUpload(ctx, KindImage, in.Image)
		if err != nil {
			return nil, err
		}
		item.Image = &url
	}

	if in.Video != nil {
		url, err := s.storeUpload(ctx, KindVideo, in.Video)
		if err != nil {
			return nil, err
		}
		item.Video = &url
	}

	if err := s.items.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) storeUpload(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.media.Store(ctx, kind, fh.Filename, f)
}

func (s *CatalogService) GetItem(id uint) (*models.Item, error) {
	item, err := s.items.Find(id)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *CatalogService) ListItems(p orm.Pagination) ([]models.Item, error) {
	return s.items.List(p)
}

func (s *CatalogService) ItemsByCategory(categoryID uint, p orm.Pagination) ([]models.Item, error) {
	return s.items.ByCategory(categoryID, p)
}

func (s *CatalogService) SearchItems(name string, p orm.Pagination) ([]models.Item, error) {
	return s.items.SearchByName(name, p)
}

// ItemMedia is the media triple returned by the multi endpoint.
type ItemMedia struct {
	ImagePath *string `json:"image_path"`
	VideoPath *string `json:"video_path"`
	SplatPath *string `json:"splat_path"`
}

func (s *CatalogService) GetItemMedia(id uint) (*ItemMedia, error) {
	item, err := s.items.Find(id)
	if err != nil {
		return nil, notFound(err)
	}
	return &ItemMedia{ImagePath: item.Image, VideoPath: item.Video, SplatPath: item.Splat}, nil
}

// FetchItemImage streams the stored image blob for an item.
func (s *CatalogService) FetchItemImage(ctx context.Context, id uint) (io.ReadCloser, error) {
	item, err := s.items.Find(id)
	if err != nil {
		return nil, notFound(err)
	}
	if item.Image == nil {
		return nil, ErrNotFound
	}
	return s.media.Fetch(ctx, *item.Image)
}

// UpdateSplat uploads a new splat asset and overwrites the item's splat URL.
func (s *CatalogService) UpdateSplat(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.Item, error) {
	item, err := s.items.Find(id)
	if err != nil {
		return nil, notFound(err)
	}

	url, err := s.storeUpload(ctx, KindSplat, fh)
	if err != nil {
		return nil, err
	}

	if err := s.items.UpdateSplat(item, url); err != nil {
		return nil, err
	}
	return item, nil
}

// DetachCategory nulls the item's category foreign key. Either record
// missing returns ErrNotFound.
func (s *CatalogService) DetachCategory(itemID, categoryID uint) (*models.Item, error) {
	item, err := s.items.ClearCategory(itemID, categoryID)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *CatalogService) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(p orm.Pagination) ([]models.Category, error) {
	return s.categories.List(p)
}

// CreateReview attaches a review to an existing item.
func (s *CatalogService) CreateReview(itemID uint, review *models.Review) (*models.Review, error) {
	if _, err := s.items.Find(itemID); err != nil {
		return nil, notFound(err)
	}

	review.ItemID = itemID
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *CatalogService) ListReviews(p orm.Pagination) ([]models.Review, error) {
	return s.reviews.List(p)
}

func (s *CatalogService) ItemReviews(itemID uint, p orm.Pagination) ([]models.Review, error) {
	if _, err := s.items.Find(itemID); err != nil {
		return nil, notFound(err)
	}
	return s.reviews.ByItem(itemID, p)
}
