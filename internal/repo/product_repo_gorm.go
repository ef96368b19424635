package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-product-catalog/internal/domain"
)

// PageSize is the fixed listing page size.
const PageSize = 6

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// List builds the single filtered/sorted/paginated query for "my products".
// Every condition is conjunctive on top of the mandatory owner and
// not-deleted filters.
func (r *ProductRepo) List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	tx := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("is_delete = ? AND user_id = ?", false, q.UserID)

	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.PriceMin != nil {
		tx = tx.Where("price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		tx = tx.Where("price <= ?", *q.PriceMax)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	switch q.SortBy {
	case domain.SortPriceLow:
		tx = tx.Order("price ASC, id ASC")
	case domain.SortPriceHigh:
		tx = tx.Order("price DESC, id ASC")
	case domain.SortName:
		tx = tx.Order("name ASC, id ASC")
	default:
		tx = tx.Order("date DESC, id DESC") // newest first
	}

	items := make([]domain.Product, 0, PageSize)
	err := tx.Select("id", "name", "description", "price", "discount", "image", "category", "date").
		Offset(PageSize * (page - 1)).
		Limit(PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Items: items,
		Page:  page,
		Total: total,
		Pages: int((total + PageSize - 1) / PageSize),
	}, nil
}

func (r *ProductRepo) Update(ctx context.Context, id, userID uint, u domain.ProductUpdate) (bool, error) {
	fields := map[string]any{
		"name":        u.Name,
		"description": u.Desc,
		"price":       u.Price,
		"discount":    u.Discount,
		"category":    u.Category,
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND user_id = ? AND is_delete = ?", id, userID, false).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id, userID uint) (bool, error) {
	// conditional transition: only an active row may flip, which makes a
	// concurrent or repeated delete a no-op rather than a second success
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND user_id = ? AND is_delete = ?", id, userID, false).
		Update("is_delete", true)
	return res.RowsAffected > 0, res.Error
}
