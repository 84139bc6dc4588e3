package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"techzon-blog/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) List(ctx context.Context, query string) ([]domain.Post, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Post{})
	if s := strings.TrimSpace(query); s != "" {
		like := likePattern(s)
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!'", like, like)
	}
	posts := []domain.Post{}
	if err := tx.Order("timestamp desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Post, error) {
	posts := []domain.Post{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").Find(&posts).Error
	return posts, err
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":    p.Title,
			"author":   p.Author,
			"category": p.Category,
			"image":    p.Image,
			"content":  p.Content,
			"excerpt":  p.Excerpt,
			"date":     p.Date,
		}).Error
}

func (r *PostRepo) DeleteCascade(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
