// Package notify delivers transactional email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	To       string
	ReplyTo  string
	FromName string
	Subject  string
	Text     string
	HTML     string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
	Timeout  time.Duration
}

// SMTPSender opens one connection per message.
type SMTPSender struct {
	opts SMTPOptions
}

func NewSMTPSender(o SMTPOptions) (*SMTPSender, error) {
	if o.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if o.From == "" {
		return nil, errors.New("smtp from address is required")
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return &SMTPSender{opts: o}, nil
}

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithTimeout(s.opts.Timeout)}
	if s.opts.Port > 0 {
		opts = append(opts, mail.WithPort(s.opts.Port))
	}
	if s.opts.SSL {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	if s.opts.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.opts.Username),
			mail.WithPassword(s.opts.Password),
		)
	}
	return mail.NewClient(s.opts.Host, opts...)
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	var err error
	if m.FromName != "" {
		err = msg.FromFormat(m.FromName, s.opts.From)
	} else {
		err = msg.From(s.opts.From)
	}
	if err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	}

	c, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	l *zap.Logger
}

func NewLogSender(l *zap.Logger) *LogSender { return &LogSender{l: l} }

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.l.Info("mail (log only)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("body", m.Text),
	)
	return nil
}
