package domain

import "context"

// ContactMessage is write-once.
type ContactMessage struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Email     string `gorm:"size:191;not null" json:"email"`
	Subject   string `gorm:"size:255;not null" json:"subject"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Date      string `gorm:"size:32" json:"date"`
	Timestamp int64  `gorm:"not null" json:"timestamp"`
}

func (ContactMessage) TableName() string { return "messages" }

type MessageRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
}

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Subscriber{}, &ContactMessage{}}
}
