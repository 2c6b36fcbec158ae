package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ConditionNew     = "new"
	ConditionUsed    = "used"
	ConditionLikeNew = "like-new"
)

func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionLikeNew:
		return true
	}
	return false
}

// ImageList is an ordered list of image URLs kept in one comma-joined
// column. URLs must not contain commas.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *ImageList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("images: unsupported column type %T", src)
	}

	if s == "" {
		*l = ImageList{}
		return nil
	}
	*l = strings.Split(s, ",")
	return nil
}

type Product struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SellerID          *int64          `gorm:"column:seller_id"                   json:"seller_id,omitempty"`
	Title             string          `gorm:"column:title"                       json:"title"`
	Description       string          `gorm:"column:description"                 json:"description"`
	Category          string          `gorm:"column:category"                    json:"category"`
	Price             decimal.Decimal `gorm:"column:price"                       json:"price"`
	OriginalPrice     decimal.Decimal `gorm:"column:original_price"              json:"original_price"`
	DiscountPercent   int             `gorm:"column:discount_percent"            json:"discount_percent"`
	ThumbnailImageURL string          `gorm:"column:thumbnail_image_url"         json:"thumbnail_image_url"`
	Images            ImageList       `gorm:"column:images_urls"                 json:"images"`
	Condition         string          `gorm:"column:condition"                   json:"condition"`
	Quantity          int             `gorm:"column:quantity"                    json:"quantity"`
	ViewCount         int             `gorm:"column:view_count"                  json:"view_count"`
	LikeCount         int             `gorm:"column:like_count"                  json:"like_count"`
	Region            string          `gorm:"column:region"                      json:"region"`
	Latitude          float64         `gorm:"column:location_latitude"           json:"latitude"`
	Longitude         float64         `gorm:"column:location_longitude"          json:"longitude"`
	Available         bool            `gorm:"column:is_available"                json:"available"`
	SearchText        string          `gorm:"column:search_text"                 json:"-"`
	CreatedAt         time.Time       `gorm:"column:created_at"                  json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"                  json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Clone copies the product including its image list.
func (p Product) Clone() Product {
	if p.Images != nil {
		p.Images = append(ImageList{}, p.Images...)
	}
	if p.SellerID != nil {
		id := *p.SellerID
		p.SellerID = &id
	}
	return p
}
