package domain

import (
	"context"
	"unicode/utf8"
)

const (
	ExcerptRunes      = 150
	PostDateLayout    = "January 2, 2006"
	CommentDateLayout = "Jan 2, 2006"
)

type Post struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Author    string `gorm:"size:64;not null" json:"author"`
	UserID    string `gorm:"size:36;index" json:"userId"`
	Category  string `gorm:"size:64;not null" json:"category"`
	Image     string `gorm:"size:512" json:"image,omitempty"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Excerpt   string `gorm:"type:text" json:"excerpt"`
	Date      string `gorm:"size:32" json:"date"`
	Timestamp int64  `gorm:"index;not null" json:"timestamp"`
}

func (Post) TableName() string { return "posts" }

// Excerpt returns the first ExcerptRunes runes of content, marked with "..." when cut.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptRunes {
		return content
	}
	r := []rune(content)
	return string(r[:ExcerptRunes]) + "..."
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	// List returns posts newest first; a non-empty query filters title/content case-insensitively.
	List(ctx context.Context, query string) ([]Post, error)
	ListByOwner(ctx context.Context, userID string) ([]Post, error)
	Update(ctx context.Context, p *Post) error
	// DeleteCascade removes the post and its comments; false when the post did not exist.
	DeleteCascade(ctx context.Context, id string) (bool, error)
}
