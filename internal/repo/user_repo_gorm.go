package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-product-catalog/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uint, p domain.ProfileUpdate) (*domain.User, error) {
	fields := map[string]any{"name": p.Name, "username": p.Username}
	if p.Image != nil {
		fields["profile_image"] = *p.Image
	}
	u, err := r.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(u).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	return res.RowsAffected > 0, res.Error
}
