package domain

import "context"

type Comment struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	PostID    string `gorm:"size:36;index;not null" json:"postId"`
	Author    string `gorm:"size:64;not null" json:"author"`
	UserID    string `gorm:"size:36;index" json:"userId"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Date      string `gorm:"size:32" json:"date"`
	Timestamp int64  `gorm:"index;not null" json:"timestamp"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	// List returns comments newest first; an empty postID lists every comment.
	List(ctx context.Context, postID string) ([]Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}
