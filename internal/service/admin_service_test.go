package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"techzon-blog/internal/core/auth"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/repo"
)

func newAdmin(f *fixture) (*AdminService, *auth.JWTer) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "techzon-test", TTL: time.Hour}
	return NewAdminService(f.auth, f.content, repo.NewUserRepo(f.db), repo.NewSubscriberRepo(f.db), j), j
}

func TestIssueTokenRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ann", "ann@x.com")
	f.register(t, "Boss", "boss@techzon.dev")
	admin, j := newAdmin(f)
	if _, err := admin.Promote(ctx, "Boss@TechZon.dev"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	_, _, err := admin.IssueToken(ctx, "ann@x.com", "secret1")
	wantCode(t, err, http.StatusForbidden)
	_, _, err = admin.IssueToken(ctx, "boss@techzon.dev", "wrong")
	wantCode(t, err, http.StatusUnauthorized)

	tok, ttl, err := admin.IssueToken(ctx, "boss@techzon.dev", "secret1")
	if err != nil || ttl != time.Hour {
		t.Fatalf("issue: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil || claims.Role != "admin" {
		t.Fatalf("parse: %+v %v", claims, err)
	}
}

func TestAdminListingsAndModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.register(t, "Ann", "ann@x.com")
	f.register(t, "Bob", "bob@x.com")
	_ = f.contact.Subscribe(ctx, SubscribeInput{Email: "sub@x.com"})
	admin, _ := newAdmin(f)

	users, total, err := admin.ListUsers(ctx, "ann", 0, 0)
	if err != nil || total != 1 || users[0].ID != ann.ID {
		t.Fatalf("list users: %d %v", total, err)
	}
	subs, total, err := admin.ListSubscribers(ctx, -5, 1000)
	if err != nil || total != 1 || subs[0].Email != "sub@x.com" {
		t.Fatalf("list subscribers: %d %v", total, err)
	}

	p, _, _ := f.content.SavePost(ctx, samplePost(), ann)
	if err := admin.RemovePost(ctx, p.ID); err != nil {
		t.Fatalf("moderate: %v", err)
	}
	wantCode(t, admin.RemovePost(ctx, p.ID), http.StatusNotFound)
}

func TestPromote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ann", "ann@x.com")
	admin, _ := newAdmin(f)

	_, err := admin.Promote(ctx, "ghost@x.com")
	wantCode(t, err, http.StatusNotFound)

	u, err := admin.Promote(ctx, " ANN@x.com ")
	if err != nil || u.Role != "admin" {
		t.Fatalf("promote: %+v %v", u, err)
	}
	if u, err = admin.Promote(ctx, "ann@x.com"); err != nil || u.Role != "admin" {
		t.Fatalf("promote twice: %+v %v", u, err)
	}
	if _, _, err := admin.IssueToken(ctx, "ann@x.com", "secret1"); err != nil {
		t.Fatalf("promoted account must get a token: %v", err)
	}
}

type memStore struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, ct string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key], m.types[key] = b, ct
	return nil
}

func (m *memStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.local/bucket/" + key + "?sig=1", nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestImageUpload(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewImageService(store, "", 0)
	ctx := context.Background()
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	u := samplePostOwner()

	img, err := svc.Upload(ctx, u, bytes.NewReader(png), int64(len(png)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(img.Key, "posts/u1/") || !strings.HasSuffix(img.Key, ".png") {
		t.Fatalf("unexpected key %q", img.Key)
	}
	if !bytes.Equal(store.objects[img.Key], png) || store.types[img.Key] != "image/png" {
		t.Fatalf("stored object differs")
	}
	if !strings.HasPrefix(img.URL, "https://s3.local/bucket/posts/") {
		t.Fatalf("unexpected url %q", img.URL)
	}

	text := []byte("just some text")
	_, err = svc.Upload(ctx, u, bytes.NewReader(text), int64(len(text)))
	wantCode(t, err, http.StatusBadRequest)
	_, err = svc.Upload(ctx, u, bytes.NewReader(png), MaxImageBytes+1)
	wantCode(t, err, http.StatusBadRequest)

	public := NewImageService(store, "https://cdn.local/", 0)
	img, err = public.Upload(ctx, u, bytes.NewReader(png), int64(len(png)))
	if err != nil || img.URL != "https://cdn.local/"+img.Key {
		t.Fatalf("public url: %+v %v", img, err)
	}
}

func TestPostImagesAreRemovedWithTheirPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := &memStore{objects: map[string][]byte{}, types: map[string]string{}}
	images := NewImageService(store, "", 0)
	f.content.UseImages(images)
	owner := f.register(t, "Ann", "ann@x.com")
	other := f.register(t, "Bob", "bob@x.com")
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	upload := func(u domain.SessionUser) *UploadedImage {
		t.Helper()
		img, err := images.Upload(ctx, u, bytes.NewReader(png), int64(len(png)))
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		return img
	}

	first := upload(owner)
	in := samplePost()
	in.Image = first.URL
	p, _, err := f.content.SavePost(ctx, in, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second := upload(owner)
	in.ID, in.Image = p.ID, second.URL
	if _, _, err := f.content.SavePost(ctx, in, owner); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := store.objects[first.Key]; ok {
		t.Fatalf("replaced image %q was kept", first.Key)
	}
	if _, ok := store.objects[second.Key]; !ok {
		t.Fatalf("current image %q was removed", second.Key)
	}

	if err := f.content.DeletePost(ctx, p.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.objects[second.Key]; ok {
		t.Fatalf("image %q outlived its post", second.Key)
	}

	foreign := upload(other)
	in.ID, in.Image = "", foreign.URL
	p, _, err = f.content.SavePost(ctx, in, owner)
	if err != nil {
		t.Fatalf("create with foreign image: %v", err)
	}
	if err := f.content.RemovePost(ctx, p.ID); err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if _, ok := store.objects[foreign.Key]; !ok {
		t.Fatalf("another user's upload %q was deleted", foreign.Key)
	}
}

func TestOwnedKey(t *testing.T) {
	cases := []struct {
		owner, url, key string
		ok              bool
	}{
		{"u1", "https://s3.local/bucket/posts/u1/a.png?sig=1", "posts/u1/a.png", true},
		{"u1", "https://cdn.local/posts/u1/a.png", "posts/u1/a.png", true},
		{"u1", "posts/u1/a.png", "posts/u1/a.png", true},
		{"u1", "https://cdn.local/posts/u2/a.png", "", false},
		{"u1", "https://cdn.local/posts/u1/", "", false},
		{"u1", "https://cdn.local/posts/u1/x/a.png", "", false},
		{"u1", "https://elsewhere.local/cat.jpg", "", false},
		{"", "https://cdn.local/posts//a.png", "", false},
	}
	for _, c := range cases {
		key, ok := ownedKey(c.owner, c.url)
		if key != c.key || ok != c.ok {
			t.Errorf("ownedKey(%q, %q) = %q, %v", c.owner, c.url, key, ok)
		}
	}
}
