package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/core/database"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/repo"
)

type sentReset struct {
	user *domain.User
	link string
}

type fakeMailer struct {
	mu       sync.Mutex
	contacts []*domain.ContactMessage
	welcomes []string
	resets   []sentReset
	fail     error
}

func (m *fakeMailer) ContactReceived(_ context.Context, msg *domain.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, msg)
	return m.fail
}

func (m *fakeMailer) NewsletterWelcome(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, email)
	return m.fail
}

func (m *fakeMailer) PasswordReset(_ context.Context, u *domain.User, link string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sentReset{user: u, link: link})
	return m.fail
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "service.db") + "?_busy_timeout=5000&_journal_mode=WAL",
		LogLevel: "silent",
	}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	mailer  *fakeMailer
	auth    *AuthService
	content *ContentService
	contact *ContactService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	m := &fakeMailer{}
	l := zap.NewNop()
	users := repo.NewUserRepo(db)
	return &fixture{
		db:      db,
		mailer:  m,
		auth:    NewAuthService(users, m, l, AuthOptions{PublicURL: "http://blog.local/"}),
		content: NewContentService(repo.NewPostRepo(db), repo.NewCommentRepo(db), nil, time.Minute, l),
		contact: NewContactService(repo.NewMessageRepo(db), repo.NewSubscriberRepo(db), m, l),
	}
}

func (f *fixture) register(t *testing.T, name, email string) domain.SessionUser {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u.Public()
}

func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error with code %d, got %v", code, err)
	}
	if ae.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, ae.Code, ae.Msg)
	}
}
