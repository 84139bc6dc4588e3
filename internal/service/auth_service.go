package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/repo"
	"techzon-blog/pkg/utils"
)

const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgInvalidResetToken  = "Password reset token is invalid or has expired."
)

type AuthOptions struct {
	PublicURL string
	ResetTTL  time.Duration
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var registerRules = rules{
	{"required", "All fields are required"},
	{"email", "Please enter a valid email address"},
	{"min", msgPasswordTooShort},
}

type ResetInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"min=6"`
}

var resetRules = rules{
	{"Token.required", MsgInvalidResetToken},
	{"Password.min", msgPasswordTooShort},
}

type AuthService struct {
	users     domain.UserRepository
	mailer    Mailer
	log       *zap.Logger
	publicURL string
	resetTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users domain.UserRepository, mailer Mailer, l *zap.Logger, o AuthOptions) *AuthService {
	if o.ResetTTL <= 0 {
		o.ResetTTL = time.Hour
	}
	return &AuthService{
		users:     users,
		mailer:    mailer,
		log:       l,
		publicURL: strings.TrimRight(o.PublicURL, "/"),
		resetTTL:  o.ResetTTL,
		now:       time.Now,
	}
}

// Register creates a plain user account. Admin rights are never granted
// here; see AdminService.Promote.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := check(in, registerRules); err != nil {
		return nil, err
	}
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal("Server error during registration", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("An account with this email already exists.")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Server error during registration", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		JoinedAt:     s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("An account with this email already exists.")
		}
		return nil, apperr.Internal("Server error during registration", err)
	}
	return u, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Server error during login", err)
	}
	if u == nil {
		// spend the same bcrypt cost as a real comparison
		_, _ = utils.CheckPassword(password, dummyHash())
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}
	ok, err := utils.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return nil, apperr.Internal("Server error during login", err)
	}
	if !ok {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}
	return u, nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("techzon-placeholder")
	return h
})

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if u == nil {
		return apperr.NotFound("No account found with that email address.")
	}
	token, err := utils.NewToken(32)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	expires := s.now().Add(s.resetTTL).UTC()
	if err := s.users.SetResetToken(ctx, u.ID, utils.HashToken(token), expires); err != nil {
		return apperr.Internal("Server error", err)
	}
	link := s.publicURL + "/reset-password.html?token=" + url.QueryEscape(token)
	if err := s.mailer.PasswordReset(ctx, u, link, s.resetTTL); err != nil {
		s.log.Error("password reset mail failed", zap.String("user_id", u.ID), zap.Error(err))
		return apperr.Internal("Failed to send password reset email.", err)
	}
	return nil
}

// ResetPassword sets a new password through a pending reset token. The token
// is consumed by the same conditional update that stores the password, so
// concurrent uses of one token succeed at most once.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := check(in, resetRules); err != nil {
		return err
	}
	tokenHash := utils.HashToken(in.Token)
	now := s.now()
	u, err := s.users.FindByResetTokenHash(ctx, tokenHash)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if u == nil || u.ResetExpiresAt == nil || !now.Before(*u.ResetExpiresAt) {
		return apperr.Validation(MsgInvalidResetToken)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	ok, err := s.users.ConsumeResetToken(ctx, tokenHash, hash, now.UTC())
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if !ok {
		return apperr.Validation(MsgInvalidResetToken)
	}
	return nil
}
