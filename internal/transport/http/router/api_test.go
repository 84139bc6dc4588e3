package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"techzon-blog/internal/core/auth"
	"techzon-blog/internal/core/database"
	"techzon-blog/internal/core/session"
	"techzon-blog/internal/notify"
	"techzon-blog/internal/ratelimit"
	"techzon-blog/internal/repo"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/handler"
)

type stack struct {
	api    *httptest.Server
	admin  *httptest.Server
	admins *service.AdminService
}

func newStack(t *testing.T, perIP ratelimit.Limiter) *stack {
	t.Helper()
	log := zap.NewNop()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "api.db"),
		LogLevel: "silent",
	}, log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repo.NewUserRepo(db)
	subs := repo.NewSubscriberRepo(db)
	mailer := notify.NewNotifier(notify.NewLogSender(log), "TechZon", "admin@techzon.test")

	authSvc := service.NewAuthService(users, mailer, log, service.AuthOptions{PublicURL: "http://localhost:8080"})
	content := service.NewContentService(repo.NewPostRepo(db), repo.NewCommentRepo(db), nil, 0, log)
	contact := service.NewContactService(repo.NewMessageRepo(db), subs, mailer, log)
	jwter, err := auth.NewJWTer("router-test-secret-0123456789", "techzon-test", time.Minute)
	if err != nil {
		t.Fatalf("jwter: %v", err)
	}
	adminSvc := service.NewAdminService(authSvc, content, users, subs, jwter)

	sm := session.NewManager(session.Options{CookieName: "techzon_sid"})
	api := NewAPIEngine(APIDeps{
		Log:      log,
		Sessions: sm,
		PerIP:    perIP,
		Modules: NewRegistry(
			handler.NewAuthHandler(authSvc, sm),
			handler.NewPostHandler(content),
			handler.NewCommentHandler(content),
			handler.NewContactHandler(contact),
		),
	})
	admin := NewAdminEngine(AdminDeps{
		Log:     log,
		JWT:     jwter,
		Modules: NewRegistry(handler.NewAdminHandler(adminSvc)),
	})

	s := &stack{api: httptest.NewServer(api), admin: httptest.NewServer(admin), admins: adminSvc}
	t.Cleanup(s.api.Close)
	t.Cleanup(s.admin.Close)
	return s
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func call(t *testing.T, c *http.Client, method, url string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	res, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestSessionLifecycle(t *testing.T) {
	s := newStack(t, nil)
	c := newClient(t)
	base := s.api.URL + "/api/auth"

	code, body := call(t, c, http.MethodPost, base+"/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "secret1",
	})
	if code != http.StatusCreated {
		t.Fatalf("register = %d %v", code, body)
	}

	code, body = call(t, c, http.MethodPost, base+"/login", map[string]string{
		"email": "ann@x.com", "password": "secret1",
	})
	if code != http.StatusOK {
		t.Fatalf("login = %d %v", code, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ann@x.com" || user["name"] != "Ann" {
		t.Fatalf("login user = %v", user)
	}
	for _, k := range []string{"password", "passwordHash", "PasswordHash"} {
		if _, ok := user[k]; ok {
			t.Fatalf("login leaked %q", k)
		}
	}

	code, body = call(t, c, http.MethodGet, base+"/me", nil)
	if code != http.StatusOK {
		t.Fatalf("me = %d %v", code, body)
	}
	if me, _ := body["user"].(map[string]any); me["id"] != user["id"] {
		t.Fatalf("me = %v, want id %v", me, user["id"])
	}

	if code, body = call(t, c, http.MethodPost, base+"/logout", nil); code != http.StatusOK {
		t.Fatalf("logout = %d %v", code, body)
	}
	code, body = call(t, c, http.MethodGet, base+"/me", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d, want 401", code)
	}
	if body["message"] != "Not authenticated" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	s := newStack(t, nil)
	c := newClient(t)
	base := s.api.URL + "/api/auth"
	call(t, c, http.MethodPost, base+"/register", map[string]string{"name": "Ann", "email": "ann@x.com", "password": "secret1"})

	code, body := call(t, c, http.MethodPost, base+"/register", map[string]string{"name": "Ann", "email": "ann@x.com", "password": "secret1"})
	if code != http.StatusConflict {
		t.Fatalf("second register = %d %v", code, body)
	}

	_, wrong := call(t, c, http.MethodPost, base+"/login", map[string]string{"email": "ann@x.com", "password": "nope-nope"})
	code, unknown := call(t, c, http.MethodPost, base+"/login", map[string]string{"email": "who@x.com", "password": "secret1"})
	if code != http.StatusUnauthorized {
		t.Fatalf("unknown login = %d", code)
	}
	if wrong["message"] != unknown["message"] || wrong["message"] != service.MsgInvalidCredentials {
		t.Fatalf("messages differ: %v / %v", wrong["message"], unknown["message"])
	}
}

func TestPostLifecycle(t *testing.T) {
	s := newStack(t, nil)
	ann := newClient(t)
	anon := newClient(t)
	base := s.api.URL + "/api"

	call(t, ann, http.MethodPost, base+"/auth/register", map[string]string{"name": "Ann", "email": "ann@x.com", "password": "secret1"})
	if code, _ := call(t, ann, http.MethodPost, base+"/auth/login", map[string]string{"email": "ann@x.com", "password": "secret1"}); code != http.StatusOK {
		t.Fatalf("login = %d", code)
	}

	code, body := call(t, ann, http.MethodPost, base+"/posts", map[string]string{
		"title": "T", "author": "Ann", "category": "Tech", "content": "Hello world",
	})
	if code != http.StatusCreated || body["success"] != true {
		t.Fatalf("create = %d %v", code, body)
	}
	post, _ := body["post"].(map[string]any)
	id, _ := post["id"].(string)
	if id == "" || post["timestamp"] == nil {
		t.Fatalf("created post = %v", post)
	}

	code, got := call(t, anon, http.MethodGet, base+"/posts/"+id, nil)
	if code != http.StatusOK || got["title"] != "T" || got["content"] != "Hello world" {
		t.Fatalf("get = %d %v", code, got)
	}

	code, body = call(t, ann, http.MethodPost, base+"/comments", map[string]string{"postId": id, "content": "first"})
	if code != http.StatusCreated || body["author"] != "Ann" {
		t.Fatalf("comment = %d %v", code, body)
	}

	if code, _ = call(t, anon, http.MethodDelete, base+"/posts/"+id, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous delete = %d, want 401", code)
	}
	if code, body = call(t, ann, http.MethodDelete, base+"/posts/"+id, nil); code != http.StatusOK || body["success"] != true {
		t.Fatalf("delete = %d %v", code, body)
	}
	if code, _ = call(t, anon, http.MethodGet, base+"/posts/"+id, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", code)
	}

	res, err := anon.Get(base + "/comments?postId=" + id)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var comments []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&comments); err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments after cascade = %v", comments)
	}
}

func TestUpdateRequiresOwner(t *testing.T) {
	s := newStack(t, nil)
	ann, bob := newClient(t), newClient(t)
	base := s.api.URL + "/api"
	for _, u := range []struct {
		c           *http.Client
		name, email string
	}{{ann, "Ann", "ann@x.com"}, {bob, "Bob", "bob@x.com"}} {
		call(t, u.c, http.MethodPost, base+"/auth/register", map[string]string{"name": u.name, "email": u.email, "password": "secret1"})
		call(t, u.c, http.MethodPost, base+"/auth/login", map[string]string{"email": u.email, "password": "secret1"})
	}

	_, body := call(t, ann, http.MethodPost, base+"/posts", map[string]string{"title": "T", "category": "Tech", "content": "v1"})
	id := body["post"].(map[string]any)["id"].(string)

	code, _ := call(t, bob, http.MethodPut, base+"/posts/"+id, map[string]string{"title": "X", "category": "Tech", "content": "hijack"})
	if code != http.StatusForbidden {
		t.Fatalf("foreign update = %d, want 403", code)
	}
	code, body = call(t, ann, http.MethodPut, base+"/posts/"+id, map[string]string{"title": "T2", "category": "Tech", "content": "v2"})
	if code != http.StatusOK || body["post"].(map[string]any)["title"] != "T2" {
		t.Fatalf("owner update = %d %v", code, body)
	}
}

func TestPerIPLimitOnNewsletter(t *testing.T) {
	s := newStack(t, ratelimit.NewMemory(1, time.Minute))
	c := newClient(t)
	url := s.api.URL + "/api/newsletter"

	if code, body := call(t, c, http.MethodPost, url, map[string]string{"email": "a@x.com"}); code != http.StatusOK {
		t.Fatalf("first = %d %v", code, body)
	}
	if code, _ := call(t, c, http.MethodPost, url, map[string]string{"email": "b@x.com"}); code != http.StatusTooManyRequests {
		t.Fatalf("second = %d, want 429", code)
	}
	// read-only routes are not throttled
	if code, _ := call(t, c, http.MethodGet, s.api.URL+"/api/posts", nil); code != http.StatusOK {
		t.Fatalf("posts = %d", code)
	}
}

func TestHealth(t *testing.T) {
	s := newStack(t, nil)
	res, err := http.Get(s.api.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health = %d", res.StatusCode)
	}
}

func TestAdminAPI(t *testing.T) {
	s := newStack(t, nil)
	c := newClient(t)
	call(t, c, http.MethodPost, s.api.URL+"/api/auth/register", map[string]string{"name": "Boss", "email": "boss@x.com", "password": "secret1"})
	call(t, c, http.MethodPost, s.api.URL+"/api/auth/register", map[string]string{"name": "Ann", "email": "ann@x.com", "password": "secret1"})
	base := s.admin.URL + "/admin/v1"

	if code, _ := call(t, c, http.MethodPost, base+"/auth/token", map[string]string{"email": "boss@x.com", "password": "secret1"}); code != http.StatusForbidden {
		t.Fatalf("self-registered token = %d, want 403", code)
	}
	if _, err := s.admins.Promote(context.Background(), "boss@x.com"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	if code, _ := call(t, c, http.MethodGet, base+"/users", nil); code != http.StatusUnauthorized {
		t.Fatalf("users without token = %d", code)
	}
	if code, _ := call(t, c, http.MethodPost, base+"/auth/token", map[string]string{"email": "ann@x.com", "password": "secret1"}); code != http.StatusForbidden {
		t.Fatalf("non-admin token = %d, want 403", code)
	}

	code, body := call(t, c, http.MethodPost, base+"/auth/token", map[string]string{"email": "boss@x.com", "password": "secret1"})
	if code != http.StatusOK {
		t.Fatalf("token = %d %v", code, body)
	}
	tok, _ := body["token"].(string)

	code, body = call(t, c, http.MethodGet, base+"/users?limit=10", nil, "Authorization", "Bearer "+tok)
	if code != http.StatusOK || body["total"] != float64(2) {
		t.Fatalf("users = %d %v", code, body)
	}
	items, _ := body["items"].([]any)
	for _, it := range items {
		if _, ok := it.(map[string]any)["passwordHash"]; ok {
			t.Fatal("user listing leaked password hash")
		}
	}

	news := s.api.URL + "/api/newsletter"
	if code, body := call(t, c, http.MethodPost, news, map[string]string{"email": "sub@x.com"}); code != http.StatusOK {
		t.Fatalf("subscribe = %d %v", code, body)
	}
	if code, _ := call(t, c, http.MethodPost, news, map[string]string{"email": "Sub@X.com"}); code != http.StatusConflict {
		t.Fatalf("second subscribe = %d, want 409", code)
	}
	code, body = call(t, c, http.MethodGet, base+"/subscribers", nil, "Authorization", "Bearer "+tok)
	if code != http.StatusOK || body["total"] != float64(1) {
		t.Fatalf("subscribers = %d %v", code, body)
	}
}
