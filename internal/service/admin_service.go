package service

import (
	"context"
	"strings"
	"time"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/core/auth"
	"techzon-blog/internal/domain"
)

type AdminService struct {
	auth        *AuthService
	content     *ContentService
	users       domain.UserRepository
	subscribers domain.SubscriberRepository
	jwter       *auth.JWTer
}

func NewAdminService(a *AuthService, c *ContentService, users domain.UserRepository, subs domain.SubscriberRepository, j *auth.JWTer) *AdminService {
	return &AdminService{auth: a, content: c, users: users, subscribers: subs, jwter: j}
}

// IssueToken exchanges admin credentials for a bearer token.
func (s *AdminService) IssueToken(ctx context.Context, email, password string) (string, time.Duration, error) {
	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return "", 0, err
	}
	if u.Role != domain.RoleAdmin {
		return "", 0, apperr.Forbidden("Admin role required")
	}
	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return "", 0, apperr.Internal("Failed to issue token", err)
	}
	return tok, s.jwter.TTL, nil
}

// Promote grants the admin role to an existing account. It is an operator
// action run from the admin binary, never reachable over HTTP.
func (s *AdminService) Promote(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("No account found with that email address.")
	}
	if u.Role != domain.RoleAdmin {
		if err := s.users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
			return nil, apperr.Internal("Failed to update role", err)
		}
		u.Role = domain.RoleAdmin
	}
	return u, nil
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

func (s *AdminService) ListUsers(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	offset, limit = clampPage(offset, limit)
	users, total, err := s.users.List(ctx, strings.TrimSpace(q), offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("Failed to list users", err)
	}
	return users, total, nil
}

func (s *AdminService) ListSubscribers(ctx context.Context, offset, limit int) ([]domain.Subscriber, int64, error) {
	offset, limit = clampPage(offset, limit)
	subs, total, err := s.subscribers.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("Failed to list subscribers", err)
	}
	return subs, total, nil
}

// RemovePost is moderation: it ignores ownership.
func (s *AdminService) RemovePost(ctx context.Context, id string) error {
	return s.content.RemovePost(ctx, id)
}
