package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/repo"
	"techzon-blog/pkg/utils"
)

const contactDateLayout = "1/2/2006"

type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

var contactRules = rules{
	{"required", "Please fill in all required fields"},
	{"email", "Please enter a valid email address"},
}

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email"`
}

var subscribeRules = rules{
	{"required", "Email is required"},
	{"email", "Please enter a valid email address"},
}

type ContactService struct {
	messages    domain.MessageRepository
	subscribers domain.SubscriberRepository
	mailer      Mailer
	log         *zap.Logger
	now         func() time.Time
}

func NewContactService(messages domain.MessageRepository, subscribers domain.SubscriberRepository, mailer Mailer, l *zap.Logger) *ContactService {
	return &ContactService{messages: messages, subscribers: subscribers, mailer: mailer, log: l, now: time.Now}
}

// Submit stores a contact message and relays it to the site admin.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := check(in, contactRules); err != nil {
		return err
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = "No Subject"
	}
	now := s.now()
	m := &domain.ContactMessage{
		ID:        utils.NewID(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   subject,
		Message:   in.Message,
		Date:      now.Format(contactDateLayout),
		Timestamp: now.UnixMilli(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return apperr.Internal("Failed to send message due to a server error.", err)
	}
	if err := s.mailer.ContactReceived(ctx, m); err != nil {
		s.log.Error("contact relay failed", zap.String("message_id", m.ID), zap.Error(err))
		return apperr.Internal("Failed to send message due to a server error.", err)
	}
	return nil
}

// Subscribe adds an address to the newsletter list and sends a welcome mail.
// Two racing calls for one address leave one record: the loser hits the
// unique index and gets the same 409.
func (s *ContactService) Subscribe(ctx context.Context, in SubscribeInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := check(in, subscribeRules); err != nil {
		return err
	}
	email := in.Email
	existing, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if existing != nil {
		return apperr.Conflict("This email is already subscribed.")
	}
	sub := &domain.Subscriber{ID: utils.NewID(), Email: email, SubscribedAt: s.now().UTC()}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return apperr.Conflict("This email is already subscribed.")
		}
		return apperr.Internal("Server error", err)
	}
	if err := s.mailer.NewsletterWelcome(ctx, email); err != nil {
		s.log.Warn("newsletter welcome mail failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}
