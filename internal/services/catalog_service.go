package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"secondspin/internal/apperr"
	"secondspin/internal/domain"
	"secondspin/internal/media"
	"secondspin/internal/repos"
	"secondspin/internal/validate"
)

// createdAtLayout keeps timestamps fixed-width so lexicographic DESC order
// matches chronological newest-first.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

type CatalogService struct {
	Listings *repos.ListingRepo
	Media    media.Uploader
}

func NewCatalogService(listings *repos.ListingRepo, uploader media.Uploader) *CatalogService {
	return &CatalogService{Listings: listings, Media: uploader}
}

// CreateFields carries the raw multipart form values for listing creation.
// Empty string means the field was absent.
type CreateFields struct {
	Name        string
	Description string
	Category    string
	SubCategory string
	Condition   string
	Price       string
	Sizes       string
	Bestseller  string
	Stock       string
}

// UpdateFields uses presence, not truthiness: a nil pointer leaves the prior
// value alone, a non-nil pointer applies even when it carries "" or "0".
type UpdateFields struct {
	Name        *string
	Description *string
	Category    *string
	SubCategory *string
	Condition   *string
	Price       *string
	Sizes       *string
	Bestseller  *string
	Status      *string
	Stock       *string
}

// Create persists a new listing owned by requesterID. The seller identity
// always comes from the verified requester, never from the payload.
func (s *CatalogService) Create(ctx context.Context, requesterID string, f CreateFields, files []media.File) (domain.Listing, error) {
	if len(files) == 0 {
		return domain.Listing{}, apperr.Validation("At least one image is required")
	}
	if f.Name == "" || f.Description == "" || f.Category == "" || f.SubCategory == "" {
		return domain.Listing{}, apperr.Validation("Missing required product fields")
	}

	price, ok := validate.Price(f.Price)
	if !ok {
		return domain.Listing{}, apperr.Validation("Price must be a non-negative number")
	}

	condition := f.Condition
	if condition == "" {
		condition = domain.ConditionGood
	}
	if !domain.ValidCondition(condition) {
		return domain.Listing{}, apperr.Validation("Invalid condition")
	}

	sizes := []string{}
	if f.Sizes != "" {
		sizes, ok = validate.Sizes(f.Sizes)
		if !ok {
			return domain.Listing{}, apperr.Validation("Sizes must be a list of labels")
		}
	}

	stock := 1
	if f.Stock != "" {
		stock, ok = validate.Stock(f.Stock)
		if !ok {
			return domain.Listing{}, apperr.Validation("Stock must be a non-negative integer")
		}
	}

	images, err := s.uploadAll(ctx, files)
	if err != nil {
		return domain.Listing{}, apperr.Internal("Image upload failed", err)
	}

	l := domain.Listing{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		SubCategory: f.SubCategory,
		Condition:   condition,
		Price:       price,
		Bestseller:  validate.Bool(f.Bestseller),
		Stock:       stock,
		Sizes:       sizes,
		Images:      images,
		Seller:      domain.SellerProfile{ID: requesterID},
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC().Format(createdAtLayout),
	}
	if err := s.Listings.Insert(l); err != nil {
		return domain.Listing{}, apperr.Internal("Could not save product", err)
	}
	return l, nil
}

// List returns the public catalog: active listings, newest-first, seller
// profiles resolved.
func (s *CatalogService) List() ([]domain.Listing, error) {
	out, err := s.Listings.ListActive()
	if err != nil {
		return nil, apperr.Internal("Could not load products", err)
	}
	return out, nil
}

// ListByOwner returns every listing the requester owns, inactive included.
func (s *CatalogService) ListByOwner(requesterID string) ([]domain.Listing, error) {
	out, err := s.Listings.ListBySeller(requesterID)
	if err != nil {
		return nil, apperr.Internal("Could not load your products", err)
	}
	return out, nil
}

func (s *CatalogService) ListByCategory(category string) ([]domain.Listing, error) {
	out, err := s.Listings.ListByCategory(category)
	if err != nil {
		return nil, apperr.Internal("Could not load products", err)
	}
	return out, nil
}

func (s *CatalogService) Search(query string) ([]domain.Listing, error) {
	out, err := s.Listings.Search(query)
	if err != nil {
		return nil, apperr.Internal("Could not load results", err)
	}
	return out, nil
}

// GetById fetches a listing with no status or ownership restriction; anyone
// holding the id may fetch it, inactive ones included.
func (s *CatalogService) GetById(id string) (domain.Listing, error) {
	l, err := s.Listings.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, apperr.NotFound("Product not found")
		}
		return domain.Listing{}, apperr.Internal("Could not load product", err)
	}
	return l, nil
}

// Update applies only the fields present in f, owner-only. New images, when
// supplied, replace the existing list wholesale.
func (s *CatalogService) Update(ctx context.Context, requesterID, id string, f UpdateFields, newFiles []media.File) (domain.Listing, error) {
	l, err := s.GetById(id)
	if err != nil {
		return domain.Listing{}, err
	}
	if l.Seller.ID != requesterID {
		return domain.Listing{}, apperr.Forbidden("You can only update your own products")
	}

	if f.Name != nil {
		if *f.Name == "" {
			return domain.Listing{}, apperr.Validation("Name cannot be empty")
		}
		l.Name = *f.Name
	}
	if f.Description != nil {
		if *f.Description == "" {
			return domain.Listing{}, apperr.Validation("Description cannot be empty")
		}
		l.Description = *f.Description
	}
	if f.Category != nil {
		l.Category = *f.Category
	}
	if f.SubCategory != nil {
		l.SubCategory = *f.SubCategory
	}
	if f.Condition != nil {
		if !domain.ValidCondition(*f.Condition) {
			return domain.Listing{}, apperr.Validation("Invalid condition")
		}
		l.Condition = *f.Condition
	}
	if f.Price != nil {
		price, ok := validate.Price(*f.Price)
		if !ok {
			return domain.Listing{}, apperr.Validation("Price must be a non-negative number")
		}
		l.Price = price
	}
	if f.Sizes != nil {
		sizes, ok := validate.Sizes(*f.Sizes)
		if !ok {
			return domain.Listing{}, apperr.Validation("Sizes must be a list of labels")
		}
		l.Sizes = sizes
	}
	if f.Bestseller != nil {
		l.Bestseller = validate.Bool(*f.Bestseller)
	}
	if f.Status != nil {
		if !domain.ValidStatus(*f.Status) {
			return domain.Listing{}, apperr.Validation("Invalid status")
		}
		l.Status = *f.Status
	}
	if f.Stock != nil {
		stock, ok := validate.Stock(*f.Stock)
		if !ok {
			return domain.Listing{}, apperr.Validation("Stock must be a non-negative integer")
		}
		l.Stock = stock
	}

	if len(newFiles) > 0 {
		images, err := s.uploadAll(ctx, newFiles)
		if err != nil {
			return domain.Listing{}, apperr.Internal("Image upload failed", err)
		}
		l.Images = images
	}

	if err := s.Listings.Update(l); err != nil {
		return domain.Listing{}, apperr.Internal("Could not update product", err)
	}
	return l, nil
}

// Delete permanently removes a listing, owner-only. Hard delete, no
// tombstone.
func (s *CatalogService) Delete(requesterID, id string) error {
	l, err := s.GetById(id)
	if err != nil {
		return err
	}
	if l.Seller.ID != requesterID {
		return apperr.Forbidden("You can only delete your own products")
	}
	if err := s.Listings.Delete(id); err != nil {
		return apperr.Internal("Could not remove product", err)
	}
	return nil
}

// uploadAll pushes every file through the media gateway concurrently. All
// uploads must succeed; the first failure aborts the whole operation so no
// partial image set is ever persisted.
func (s *CatalogService) uploadAll(ctx context.Context, files []media.File) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f media.File) {
			defer wg.Done()
			urls[i], errs[i] = s.Media.Upload(ctx, f)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}
