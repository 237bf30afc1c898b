package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/ayres-originals/originals-api/internal/http/handlers"
	"github.com/ayres-originals/originals-api/internal/models"
)

func TestGetProfileHandler(t *testing.T) {
	env := setupEnv(t)
	id, _ := env.signup(t, "ana")

	w := env.do(t, http.MethodGet, "/profiles/"+id, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p models.Profile
	decode(t, w, &p)
	if p.ID != id || p.Username != "ana" {
		t.Errorf("unexpected profile: %+v", p)
	}

	w = env.do(t, http.MethodGet, "/profiles/does-not-exist", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateMyProfileHandler(t *testing.T) {
	env := setupEnv(t)
	id, token := env.signup(t, "ana")

	req := handlers.UpdateProfileRequest{DisplayName: "  Ana Collector ", Bio: "Vintage watches", AvatarURL: "https://img.example/ana.png"}
	w := env.do(t, http.MethodPut, "/profiles/me", req, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stored, _ := env.profiles.GetByID(id)
	if stored.DisplayName != "Ana Collector" || stored.Bio != "Vintage watches" {
		t.Errorf("profile not updated: %+v", stored)
	}
	if stored.Username != "ana" {
		t.Errorf("username must not change, got %q", stored.Username)
	}

	w = env.do(t, http.MethodPut, "/profiles/me", handlers.UpdateProfileRequest{AvatarURL: "not a url"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid avatar: expected 400, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/profiles/me", req, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous update: expected 401, got %d", w.Code)
	}
}

func TestSearchProfilesHandler(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "watchfan")
	env.signup(t, "bagfan")
	env.signup(t, "sneakerhead")

	w := env.do(t, http.MethodGet, "/profiles/search?q=FAN", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res handlers.ProfilesSearchResult
	decode(t, w, &res)
	if res.Meta.TotalCount != 2 || len(res.Data) != 2 {
		t.Fatalf("expected 2 matches, got %+v", res)
	}
	if res.Data[0].Username != "bagfan" {
		t.Errorf("expected results ordered by username, got %s first", res.Data[0].Username)
	}

	w = env.do(t, http.MethodGet, "/profiles/search?q=fan&limit=1&offset=1", nil, "")
	decode(t, w, &res)
	if res.Meta.TotalCount != 2 || len(res.Data) != 1 || res.Data[0].Username != "watchfan" {
		t.Errorf("unexpected page: %+v", res)
	}

	w = env.do(t, http.MethodGet, "/profiles/search?limit=abc", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetProfileProductsHandler(t *testing.T) {
	env := setupEnv(t)
	id, _ := env.signup(t, "ana")
	otherID, _ := env.signup(t, "ben")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.seedProduct(t, models.Product{UserID: id, Name: "Old", Brand: "Cartier", SerialNumber: "C1", ImageURL: "u", CreatedAt: base})
	env.seedProduct(t, models.Product{UserID: id, Name: "New", Brand: "Cartier", SerialNumber: "C2", ImageURL: "u", CreatedAt: base.Add(time.Hour)})
	env.seedProduct(t, models.Product{UserID: otherID, Name: "Theirs", Brand: "Gucci", SerialNumber: "G1", ImageURL: "u", CreatedAt: base})

	w := env.do(t, http.MethodGet, "/profiles/"+id+"/products", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var products []models.Product
	decode(t, w, &products)
	if len(products) != 2 || products[0].Name != "New" {
		t.Errorf("expected own products newest first, got %+v", products)
	}

	w = env.do(t, http.MethodGet, "/profiles/nobody/products", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
