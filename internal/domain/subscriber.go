package domain

import (
	"context"
	"time"
)

type Subscriber struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	SubscribedAt time.Time `gorm:"not null" json:"subscribedAt"`
}

func (Subscriber) TableName() string { return "subscribers" }

type SubscriberRepository interface {
	Create(ctx context.Context, s *Subscriber) error
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	List(ctx context.Context, offset, limit int) ([]Subscriber, int64, error)
}
