package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

// ProductFilter narrows ListProducts. Zero fields do not filter.
type ProductFilter struct {
	Category      string
	Region        string
	Condition     string
	SellerID      *int64
	Text          string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	OnlyAvailable bool
	OrderByPrice  bool
}

// searchText folds title and description in Go: SQLite's LOWER only
// handles ASCII. The separator keeps matches from spanning both fields.
func searchText(p *models.Product) string {
	return strings.ToLower(p.Title) + "\x1f" + strings.ToLower(p.Description)
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}
	p.SearchText = searchText(p)
	return translate(conn.Create(p).Error, "product")
}

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := conn.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	q := conn.Model(&models.Product{})
	if f.OnlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Text != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Text)) + "%"
		q = q.Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	if f.OrderByPrice {
		q = q.Order("price ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}

	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err, "products")
	}
	return items, nil
}

// ReplaceProduct overwrites the editable columns of the row with p.
// View and like counts only change through IncrementCounter.
func (r *GormRepo) ReplaceProduct(ctx context.Context, p *models.Product) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
		"seller_id":           p.SellerID,
		"title":               p.Title,
		"description":         p.Description,
		"category":            p.Category,
		"price":               p.Price,
		"original_price":      p.OriginalPrice,
		"discount_percent":    p.DiscountPercent,
		"thumbnail_image_url": p.ThumbnailImageURL,
		"images_urls":         p.Images,
		"condition":           p.Condition,
		"quantity":            p.Quantity,
		"region":              p.Region,
		"location_latitude":   p.Latitude,
		"location_longitude":  p.Longitude,
		"is_available":        p.Available,
		"search_text":         searchText(p),
		"updated_at":          p.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", errs.ErrNotFound, p.ID)
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int64) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	return nil
}

func (r *GormRepo) SetProductAvailable(ctx context.Context, id int64, available bool) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"is_available": available,
		"updated_at":   time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	return nil
}

var errNegativeStock = errors.New("stock would become negative")

// AdjustStock applies delta and derives availability from the result:
// zero stock hides the product, a restock above zero shows it again.
func (r *GormRepo) AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error) {
	var p models.Product
	err := r.Store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}

		qty := p.Quantity + delta
		if qty < 0 {
			return errNegativeStock
		}

		available := p.Available
		switch {
		case qty == 0:
			available = false
		case delta > 0:
			available = true
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
			"quantity":     qty,
			"is_available": available,
			"updated_at":   now,
		}).Error; err != nil {
			return err
		}

		p.Quantity = qty
		p.Available = available
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, errNegativeStock) {
			return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		return nil, translate(err, "product")
	}
	return &p, nil
}

// IncrementCounter bumps view_count or like_count by one.
func (r *GormRepo) IncrementCounter(ctx context.Context, id int64, column string) (int, error) {
	if column != "view_count" && column != "like_count" {
		return 0, fmt.Errorf("unknown counter %q", column)
	}

	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	res := conn.Model(&models.Product{}).Where("id = ?", id).Update(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return 0, translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}

	var n int
	if err := conn.Raw("SELECT "+column+" FROM products WHERE id = ?", id).Scan(&n).Error; err != nil {
		return 0, translate(err, "product")
	}
	return n, nil
}

// Categories lists the distinct non-empty categories. Products saved
// without a category are uncategorized and are not listed.
func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0)
	if err := conn.Model(&models.Product{}).
		Where("category <> ''").
		Distinct().
		Pluck("category", &categories).Error; err != nil {
		return nil, translate(err, "categories")
	}
	return categories, nil
}
