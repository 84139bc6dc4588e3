package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"techzon-blog/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) List(ctx context.Context, postID string) ([]domain.Comment, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Comment{})
	if postID != "" {
		tx = tx.Where("post_id = ?", postID)
	}
	out := []domain.Comment{}
	if err := tx.Order("timestamp desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	return res.RowsAffected > 0, res.Error
}
