package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"techzon-blog/internal/domain"
)

type SubscriberRepo struct{ db *gorm.DB }

func NewSubscriberRepo(db *gorm.DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

func (r *SubscriberRepo) Create(ctx context.Context, s *domain.Subscriber) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SubscriberRepo) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriberRepo) List(ctx context.Context, offset, limit int) ([]domain.Subscriber, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Subscriber{})
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []domain.Subscriber{}
	if err := tx.Order("subscribed_at desc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MessageRepo stores contact form submissions.
type MessageRepo struct{ db *gorm.DB }

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}
