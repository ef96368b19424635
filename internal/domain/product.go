package domain

import (
	"context"
	"time"
)

const DefaultCategory = "General"

// Product is a catalog item owned by a single user. Deleting flips
// IsDelete; rows are never removed, and a deleted product is terminal.
type Product struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:191;not null;index" json:"name"`
	Desc     string    `gorm:"column:description;not null" json:"desc"`
	Price    float64   `gorm:"not null;index" json:"price"`
	Discount float64   `gorm:"not null;default:0" json:"discount"`
	Category string    `gorm:"size:64;not null;default:General" json:"category"`
	Image    *string   `gorm:"size:191" json:"image"`
	UserID   uint      `gorm:"not null;index" json:"-"`
	IsDelete bool      `gorm:"not null;default:false;index" json:"-"`
	Date     time.Time `gorm:"autoCreateTime" json:"date"`
}

func (Product) TableName() string { return "products" }

// Sort keys accepted by the listing query. Anything else sorts newest first.
const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortName      = "name"
)

// ProductQuery is the composer input. All conditions combine with AND;
// UserID is mandatory, the rest are optional refinements.
type ProductQuery struct {
	UserID   uint
	Search   string
	Category string
	PriceMin *float64
	PriceMax *float64
	SortBy   string
	Page     int // 1-based
}

type ProductPage struct {
	Items []Product
	Page  int
	Total int64
	Pages int
}

type ProductUpdate struct {
	Name     string
	Desc     string
	Price    float64
	Discount float64
	Category string
	Image    *string // nil keeps the current image
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	// Update writes the given fields on the product owned by userID.
	// Returns false when no live product matches.
	Update(ctx context.Context, id, userID uint, u ProductUpdate) (bool, error)
	// SoftDelete transitions active -> deleted with a conditional update,
	// so a repeated delete reports false instead of succeeding twice.
	SoftDelete(ctx context.Context, id, userID uint) (bool, error)
}
