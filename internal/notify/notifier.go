package notify

import (
	"context"
	"time"

	"techzon-blog/internal/domain"
)

// Notifier composes the site's emails and hands them to a Sender.
type Notifier struct {
	sender     Sender
	site       string
	adminEmail string
}

func NewNotifier(s Sender, site, adminEmail string) *Notifier {
	if site == "" {
		site = "TechZon"
	}
	return &Notifier{sender: s, site: site, adminEmail: adminEmail}
}

// ContactReceived relays a contact form submission to the site admin.
func (n *Notifier) ContactReceived(ctx context.Context, m *domain.ContactMessage) error {
	text, html, err := contactTpl.render(struct {
		Site, Name, Email, Subject, Message string
	}{n.site, m.Name, m.Email, m.Subject, m.Message})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:       n.adminEmail,
		ReplyTo:  m.Email,
		FromName: m.Name,
		Subject:  "New Contact Form Message: " + m.Subject,
		Text:     text,
		HTML:     html,
	})
}

func (n *Notifier) NewsletterWelcome(ctx context.Context, email string) error {
	text, html, err := welcomeTpl.render(struct{ Site string }{n.site})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:       email,
		FromName: n.site,
		Subject:  "Welcome to " + n.site + " Newsletter!",
		Text:     text,
		HTML:     html,
	})
}

func (n *Notifier) PasswordReset(ctx context.Context, u *domain.User, link string, ttl time.Duration) error {
	text, html, err := resetTpl.render(struct {
		Site, Name, Link, TTL string
	}{n.site, u.Name, link, ttl.String()})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:       u.Email,
		FromName: n.site,
		Subject:  n.site + " password reset",
		Text:     text,
		HTML:     html,
	})
}
