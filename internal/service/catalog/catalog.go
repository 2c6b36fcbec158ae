package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/pkg/errs"
	"github.com/Skotchmaster/tossplace/pkg/logging"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func New(r *repo.GormRepo) *CatalogService {
	return &CatalogService{Repo: r}
}

func validate(p *models.Product) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", errs.ErrValidation)
	}
	if p.OriginalPrice.IsNegative() {
		return fmt.Errorf("%w: original price must not be negative", errs.ErrValidation)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", errs.ErrValidation)
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", errs.ErrValidation)
	}
	if p.Condition == "" {
		p.Condition = models.ConditionUsed
	}
	if !models.ValidCondition(p.Condition) {
		return fmt.Errorf("%w: unknown condition %q", errs.ErrValidation, p.Condition)
	}
	for _, u := range p.Images {
		if strings.Contains(u, ",") {
			return fmt.Errorf("%w: image url must not contain a comma", errs.ErrValidation)
		}
	}
	if p.Images == nil {
		p.Images = models.ImageList{}
	}
	return nil
}

// Create stores p and returns the stored copy with id and timestamps.
// A product is available when it has stock.
func (s *CatalogService) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create", "title", p.Title)

	p = p.Clone()
	if err := validate(&p); err != nil {
		l.Warnw("create_product_error", "reason", err.Error())
		return nil, err
	}
	if err := s.checkSeller(ctx, p.SellerID); err != nil {
		l.Warnw("create_product_error", "reason", err.Error())
		return nil, err
	}

	now := time.Now().UTC()
	p.ID = 0
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Available = p.Quantity > 0

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		l.Errorw("create_product_error", "error", err)
		return nil, err
	}

	l.Infow("create_product_success", "product_id", p.ID)
	out := p.Clone()
	return &out, nil
}

func (s *CatalogService) checkSeller(ctx context.Context, sellerID *int64) error {
	if sellerID == nil {
		return nil
	}
	if _, err := s.Repo.GetUserByID(ctx, *sellerID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: seller %d", errs.ErrNotFound, *sellerID)
		}
		return err
	}
	return nil
}

// Update replaces every field of the stored product with p. Counters and
// the creation time are kept from the stored row.
func (s *CatalogService) Update(ctx context.Context, p models.Product) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", p.ID)

	p = p.Clone()
	if err := validate(&p); err != nil {
		l.Warnw("update_product_error", "reason", err.Error())
		return nil, err
	}

	stored, err := s.Repo.GetProduct(ctx, p.ID)
	if err != nil {
		l.Warnw("update_product_error", "reason", "not found")
		return nil, err
	}
	if err := s.checkSeller(ctx, p.SellerID); err != nil {
		return nil, err
	}

	p.CreatedAt = stored.CreatedAt
	p.ViewCount = stored.ViewCount
	p.LikeCount = stored.LikeCount
	p.UpdatedAt = time.Now().UTC()
	if p.Quantity == 0 {
		p.Available = false
	}

	if err := s.Repo.ReplaceProduct(ctx, &p); err != nil {
		l.Errorw("update_product_error", "error", err)
		return nil, err
	}

	l.Infow("update_product_success")
	return s.GetByID(ctx, p.ID)
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warnw("delete_product_error", "svc", "catalog.delete", "product_id", id, "error", err)
		return err
	}
	return nil
}

// MarkSold hides the product without touching its quantity.
func (s *CatalogService) MarkSold(ctx context.Context, id int64) error {
	return s.Repo.SetProductAvailable(ctx, id, false)
}

func (s *CatalogService) AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error) {
	p, err := s.Repo.AdjustStock(ctx, id, delta)
	if err != nil {
		logging.FromContext(ctx).Warnw("adjust_stock_error", "svc", "catalog.adjust_stock", "product_id", id, "delta", delta, "error", err)
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{OnlyAvailable: true})
}

func (s *CatalogService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{OnlyAvailable: true, Category: category})
}

func (s *CatalogService) GetByRegion(ctx context.Context, region string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{OnlyAvailable: true, Region: region})
}

func (s *CatalogService) FilterByCondition(ctx context.Context, condition string) ([]models.Product, error) {
	if !models.ValidCondition(condition) {
		return nil, fmt.Errorf("%w: unknown condition %q", errs.ErrValidation, condition)
	}
	return s.Repo.ListProducts(ctx, repo.ProductFilter{OnlyAvailable: true, Condition: condition})
}

// GetSellerProducts lists a seller's products including sold ones.
func (s *CatalogService) GetSellerProducts(ctx context.Context, sellerID int64) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{SellerID: &sellerID})
}

// Search matches title or description, ignoring case. An empty query
// returns every available product.
func (s *CatalogService) Search(ctx context.Context, text string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{OnlyAvailable: true, Text: strings.TrimSpace(text)})
}

// FilterByPriceRange returns available products priced within [min, max],
// cheapest first.
func (s *CatalogService) FilterByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error) {
	if min.GreaterThan(max) {
		return nil, fmt.Errorf("%w: min price %s is greater than max price %s", errs.ErrValidation, min, max)
	}
	return s.Repo.ListProducts(ctx, repo.ProductFilter{
		OnlyAvailable: true,
		MinPrice:      &min,
		MaxPrice:      &max,
		OrderByPrice:  true,
	})
}

// GetCategories lists distinct non-empty categories.
func (s *CatalogService) GetCategories(ctx context.Context) ([]string, error) {
	return s.Repo.Categories(ctx)
}

func (s *CatalogService) RecordView(ctx context.Context, id int64) (int, error) {
	return s.Repo.IncrementCounter(ctx, id, "view_count")
}

func (s *CatalogService) Like(ctx context.Context, id int64) (int, error) {
	return s.Repo.IncrementCounter(ctx, id, "like_count")
}
