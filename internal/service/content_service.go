package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/core/cache"
	"techzon-blog/internal/domain"
	"techzon-blog/pkg/utils"
)

const (
	msgPostNotFound    = "Post not found"
	msgCommentNotFound = "Comment not found"
)

type PostInput struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author"`
	Category string `json:"category" validate:"required"`
	Image    string `json:"image"`
	Content  string `json:"content" validate:"notblank"`
	Date     string `json:"date"`
}

var postRules = rules{
	{"required", "Title, category and content are required"},
	{"notblank", "Title, category and content are required"},
}

type CommentInput struct {
	PostID  string `json:"postId" validate:"required"`
	Content string `json:"content" validate:"required"`
	Date    string `json:"date"`
}

var commentRules = rules{{"required", "Post and comment content are required"}}

// ImageRemover deletes an uploaded image once no post references it.
type ImageRemover interface {
	RemoveImage(ctx context.Context, ownerID, imageURL string) error
}

type ContentService struct {
	posts    domain.PostRepository
	comments domain.CommentRepository
	images   ImageRemover
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewContentService accepts a nil cache.
func NewContentService(posts domain.PostRepository, comments domain.CommentRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *ContentService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContentService{posts: posts, comments: comments, cache: c, cacheTTL: ttl, log: l, now: time.Now}
}

// UseImages makes post deletes and image replacements clean up uploads.
func (s *ContentService) UseImages(r ImageRemover) { s.images = r }

func postKey(id string) string { return "post:" + id }

func (s *ContentService) ListPosts(ctx context.Context, query string) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx, query)
	if err != nil {
		return nil, apperr.Internal("Failed to load posts", err)
	}
	return posts, nil
}

func (s *ContentService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	if !utils.ValidID(id) {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, postKey(id), s.cacheTTL, func(ctx context.Context) (*domain.Post, error) {
		p, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return nil, apperr.Internal("Failed to load post", err)
		}
		if p == nil {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return p, nil
	})
}

func (s *ContentService) ListUserPosts(ctx context.Context, u domain.SessionUser) ([]domain.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to load posts", err)
	}
	return posts, nil
}

// SavePost updates the post named by in.ID, or creates one when it is empty.
// created reports which of the two happened.
func (s *ContentService) SavePost(ctx context.Context, in PostInput, u domain.SessionUser) (post *domain.Post, created bool, err error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Author = strings.TrimSpace(in.Author)
	in.Date = strings.TrimSpace(in.Date)
	in.Image = strings.TrimSpace(in.Image)
	if err := check(in, postRules); err != nil {
		return nil, false, err
	}
	if in.Author == "" {
		in.Author = u.Name
	}
	if in.ID != "" {
		p, err := s.updatePost(ctx, in, u)
		return p, false, err
	}
	now := s.now()
	p := &domain.Post{
		ID:        utils.NewID(),
		Title:     in.Title,
		Author:    in.Author,
		UserID:    u.ID,
		Category:  in.Category,
		Image:     in.Image,
		Content:   in.Content,
		Excerpt:   domain.Excerpt(in.Content),
		Date:      in.Date,
		Timestamp: now.UnixMilli(),
	}
	if p.Date == "" {
		p.Date = now.Format(domain.PostDateLayout)
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, false, apperr.Internal("Failed to save post", err)
	}
	return p, true, nil
}

func (s *ContentService) updatePost(ctx context.Context, in PostInput, u domain.SessionUser) (*domain.Post, error) {
	p, err := s.ownedPost(ctx, in.ID, u, "You can only edit your own posts.")
	if err != nil {
		return nil, err
	}
	oldImage := p.Image
	p.Title = in.Title
	p.Author = in.Author
	p.Category = in.Category
	p.Image = in.Image
	p.Content = in.Content
	p.Excerpt = domain.Excerpt(in.Content)
	if in.Date != "" {
		p.Date = in.Date
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, apperr.Internal("Failed to save post", err)
	}
	s.invalidate(ctx, p.ID)
	if oldImage != p.Image {
		s.dropImage(ctx, p.UserID, oldImage)
	}
	return p, nil
}

func (s *ContentService) DeletePost(ctx context.Context, id string, u domain.SessionUser) error {
	p, err := s.ownedPost(ctx, id, u, "You can only delete your own posts.")
	if err != nil {
		return err
	}
	return s.deletePost(ctx, p)
}

// RemovePost deletes a post and its comments without an ownership check.
func (s *ContentService) RemovePost(ctx context.Context, id string) error {
	if !utils.ValidID(id) {
		return apperr.NotFound(msgPostNotFound)
	}
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to load post", err)
	}
	if p == nil {
		return apperr.NotFound(msgPostNotFound)
	}
	return s.deletePost(ctx, p)
}

func (s *ContentService) deletePost(ctx context.Context, p *domain.Post) error {
	found, err := s.posts.DeleteCascade(ctx, p.ID)
	if err != nil {
		return apperr.Internal("Failed to delete post", err)
	}
	if !found {
		return apperr.NotFound(msgPostNotFound)
	}
	s.invalidate(ctx, p.ID)
	s.dropImage(ctx, p.UserID, p.Image)
	return nil
}

// dropImage is best effort: the post change has already been committed.
func (s *ContentService) dropImage(ctx context.Context, ownerID, image string) {
	if s.images == nil || image == "" {
		return
	}
	if err := s.images.RemoveImage(ctx, ownerID, image); err != nil {
		s.log.Warn("image cleanup failed", zap.String("user_id", ownerID), zap.String("image", image), zap.Error(err))
	}
}

// ownedPost loads a post from the database, bypassing the cache, and checks
// that u owns it.
func (s *ContentService) ownedPost(ctx context.Context, id string, u domain.SessionUser, denied string) (*domain.Post, error) {
	if !utils.ValidID(id) {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to load post", err)
	}
	if p == nil {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	if p.UserID == "" || p.UserID != u.ID {
		return nil, apperr.Forbidden(denied)
	}
	return p, nil
}

func (s *ContentService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, postKey(id)); err != nil {
		s.log.Warn("post cache invalidation failed", zap.String("post_id", id), zap.Error(err))
	}
}

func (s *ContentService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	out, err := s.comments.List(ctx, strings.TrimSpace(postID))
	if err != nil {
		return nil, apperr.Internal("Failed to load comments", err)
	}
	return out, nil
}

func (s *ContentService) CreateComment(ctx context.Context, in CommentInput, u domain.SessionUser) (*domain.Comment, error) {
	in.PostID = strings.TrimSpace(in.PostID)
	in.Content = strings.TrimSpace(in.Content)
	if err := check(in, commentRules); err != nil {
		return nil, err
	}
	if !utils.ValidID(in.PostID) {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	p, err := s.posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, apperr.Internal("Failed to load post", err)
	}
	if p == nil {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	now := s.now()
	c := &domain.Comment{
		ID:        utils.NewID(),
		PostID:    p.ID,
		Author:    u.Name,
		UserID:    u.ID,
		Content:   in.Content,
		Date:      strings.TrimSpace(in.Date),
		Timestamp: now.UnixMilli(),
	}
	if c.Date == "" {
		c.Date = now.Format(domain.CommentDateLayout)
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, apperr.Internal("Failed to save comment", err)
	}
	return c, nil
}

// DeleteComment is allowed for the comment's author and the owner of the post it belongs to.
func (s *ContentService) DeleteComment(ctx context.Context, id string, u domain.SessionUser) error {
	if !utils.ValidID(id) {
		return apperr.NotFound(msgCommentNotFound)
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to load comment", err)
	}
	if c == nil {
		return apperr.NotFound(msgCommentNotFound)
	}
	if c.UserID != u.ID {
		p, err := s.posts.FindByID(ctx, c.PostID)
		if err != nil {
			return apperr.Internal("Failed to load post", err)
		}
		if p == nil || p.UserID == "" || p.UserID != u.ID {
			return apperr.Forbidden("You can only delete your own comments.")
		}
	}
	found, err := s.comments.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete comment", err)
	}
	if !found {
		return apperr.NotFound(msgCommentNotFound)
	}
	return nil
}
