package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/http/handlers"
	"github.com/ayres-originals/originals-api/internal/http/router"
	"github.com/ayres-originals/originals-api/internal/mail"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/repo"
	"github.com/ayres-originals/originals-api/internal/storage"
	"github.com/ayres-originals/originals-api/internal/verify"
)

const authenticReply = `{"confidence": 92, "authentic": true, "analysis": "Hallmarks match", "details": ["stitching", "serial font"]}`

type fakeGateway struct {
	mu      sync.Mutex
	content string
	err     error
	calls   int
}

func (g *fakeGateway) Complete(_ context.Context, _ verify.ChatRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.content, g.err
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

type testEnv struct {
	router        http.Handler
	gateway       *fakeGateway
	mailer        *captureMailer
	images        *storage.InMemoryImageStore
	products      *repo.InMemoryProductRepository
	profiles      *repo.InMemoryProfileRepository
	users         *repo.InMemoryUserRepository
	verifications *repo.InMemoryVerificationRepository
}

// setupEnv swaps fresh in-memory collaborators into the handlers package.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:       &fakeGateway{content: authenticReply},
		mailer:        &captureMailer{},
		images:        storage.NewInMemoryImageStore("http://images.test"),
		products:      repo.NewInMemoryProductRepository(),
		profiles:      repo.NewInMemoryProfileRepository(),
		users:         repo.NewInMemoryUserRepository(),
		verifications: repo.NewInMemoryVerificationRepository(),
	}

	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(env.products, env.verifications)

	handlers.SetProductRepo(env.products)
	handlers.SetProfileRepo(env.profiles)
	handlers.SetUserRepo(env.users)
	handlers.SetVerificationRepo(env.verifications)
	handlers.SetMetricsRepo(metrics)
	handlers.SetVerifier(verify.NewVerifier(env.gateway, "test-model"))
	handlers.SetImageStore(env.images)
	handlers.SetTokenStore(auth.NewInMemoryTokenStore())
	handlers.SetMailer(env.mailer)

	env.router = router.NewRouter(router.Options{})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers a collector and returns its id and access token.
func (e *testEnv) signup(t *testing.T, username string) (string, string) {
	t.Helper()

	email := username + "@example.com"
	w := e.do(t, http.MethodPost, "/signup", handlers.SignupRequest{Email: email, Password: "secret123", Username: username}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}

	var res handlers.SignupResult
	decode(t, w, &res)

	user, err := e.users.GetByEmail(email)
	if err != nil {
		t.Fatalf("signed up user not stored: %v", err)
	}
	return user.ID, res.AccessToken
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	admin, err := e.users.CreateUser(models.User{Email: "admin@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	token, err := auth.GenerateToken(admin, "admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func (e *testEnv) createProduct(t *testing.T, token string, req handlers.ProductRequest) models.Product {
	t.Helper()

	w := e.do(t, http.MethodPost, "/products", req, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p models.Product
	decode(t, w, &p)
	return p
}

func (e *testEnv) seedProduct(t *testing.T, p models.Product) models.Product {
	t.Helper()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
	}
	created, err := e.products.Create(p)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return created
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
}

func watchRequest() handlers.ProductRequest {
	return handlers.ProductRequest{
		Name:         "Submariner Date",
		Brand:        "Rolex",
		SerialNumber: "RLX-126610",
		ImageURL:     "https://img.example/sub.jpg",
		Provenance:   "Bought at the Geneva boutique",
	}
}
