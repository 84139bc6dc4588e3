package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"techzon-blog/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) FindByResetTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if hash == "" {
		return nil, nil
	}
	return r.first(ctx, "reset_token_hash = ?", hash)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := likePattern(s)
		tx = tx.Where("LOWER(email) LIKE ? ESCAPE '!' OR LOWER(name) LIKE ? ESCAPE '!'", like, like)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("joined_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"reset_token_hash": hash, "reset_expires_at": expiresAt}).Error
}

func (r *UserRepo) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	if tokenHash == "" {
		return false, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("reset_token_hash = ? AND reset_expires_at > ?", tokenHash, now).
		Updates(map[string]any{
			"password_hash":    passwordHash,
			"reset_token_hash": "",
			"reset_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepo) SetRole(ctx context.Context, id, role string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role).Error
}
