// Package service holds the business operations behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/domain"
)

const msgPasswordTooShort = "Password must be at least 6 characters"

// Mailer is the outbound email surface the services depend on.
type Mailer interface {
	ContactReceived(ctx context.Context, m *domain.ContactMessage) error
	NewsletterWelcome(ctx context.Context, email string) error
	PasswordReset(ctx context.Context, u *domain.User, link string, ttl time.Duration) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// rules maps a failed tag ("min") or field tag ("Token.required") to the
// message the client sees. Earlier rules win over later ones.
type rules [][2]string

// check validates in against its `validate` tags.
func check(in any, r rules) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) {
		return apperr.Internal("Server error", err)
	}
	for _, rule := range r {
		for _, fe := range fails {
			if rule[0] == fe.Tag() || rule[0] == fe.Field()+"."+fe.Tag() {
				return apperr.Validation(rule[1])
			}
		}
	}
	return apperr.Validation(fails[0].Error())
}

func normalizeEmail(raw string) string { return strings.ToLower(strings.TrimSpace(raw)) }
