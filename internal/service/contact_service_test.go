package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/domain"
)

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wantCode(t, f.contact.Submit(ctx, ContactInput{Name: "Eve", Email: "eve@x.com"}), http.StatusBadRequest)
	wantCode(t, f.contact.Submit(ctx, ContactInput{Name: "Eve", Email: "nope", Message: "m"}), http.StatusBadRequest)

	if err := f.contact.Submit(ctx, ContactInput{Name: "Eve", Email: "Eve@X.com", Message: "hello"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.mailer.contacts) != 1 {
		t.Fatalf("expected relay")
	}
	m := f.mailer.contacts[0]
	if m.Subject != "No Subject" || m.Email != "eve@x.com" || m.Timestamp == 0 {
		t.Fatalf("unexpected message %+v", m)
	}
	var n int64
	f.db.Model(&domain.ContactMessage{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected stored message, got %d", n)
	}
}

func TestSubmitContactRelayFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = errors.New("smtp down")
	err := f.contact.Submit(context.Background(), ContactInput{Name: "Eve", Email: "eve@x.com", Subject: "s", Message: "m"})
	wantCode(t, err, http.StatusInternalServerError)
	if err.Error() == "smtp down" {
		t.Fatalf("collaborator error leaked into message")
	}
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wantCode(t, f.contact.Subscribe(ctx, SubscribeInput{Email: ""}), http.StatusBadRequest)
	wantCode(t, f.contact.Subscribe(ctx, SubscribeInput{Email: "bad@"}), http.StatusBadRequest)

	if err := f.contact.Subscribe(ctx, SubscribeInput{Email: "sub@x.com"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(f.mailer.welcomes) != 1 {
		t.Fatalf("expected welcome mail")
	}
	wantCode(t, f.contact.Subscribe(ctx, SubscribeInput{Email: "SUB@x.com"}), http.StatusConflict)
	if n := countSubscribers(t, f, "sub@x.com"); n != 1 {
		t.Fatalf("expected one subscriber record, got %d", n)
	}
}

func countSubscribers(t *testing.T, f *fixture, email string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&domain.Subscriber{}).Where("email = ?", email).Count(&n).Error; err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	return n
}

func TestConcurrentSubscribeKeepsOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.contact.Subscribe(ctx, SubscribeInput{Email: "race@x.com"})
			mu.Lock()
			defer mu.Unlock()
			var ae *apperr.Error
			switch {
			case err == nil:
				ok++
			case errors.As(err, &ae) && ae.Code == http.StatusConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != workers-1 {
		t.Fatalf("expected one subscription and %d conflicts, got %d and %d", workers-1, ok, conflicts)
	}
	if n := countSubscribers(t, f, "race@x.com"); n != 1 {
		t.Fatalf("expected one subscriber record, got %d", n)
	}
	if len(f.mailer.welcomes) != 1 {
		t.Fatalf("expected one welcome mail, got %d", len(f.mailer.welcomes))
	}
}

func TestSubscribeWelcomeFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = errors.New("smtp down")
	if err := f.contact.Subscribe(context.Background(), SubscribeInput{Email: "sub@x.com"}); err != nil {
		t.Fatalf("welcome failure must not fail the subscription: %v", err)
	}
	wantCode(t, f.contact.Subscribe(context.Background(), SubscribeInput{Email: "sub@x.com"}), http.StatusConflict)
}
