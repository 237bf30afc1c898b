package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/http/middleware"
	"github.com/ayres-originals/originals-api/internal/repo"
	"github.com/go-chi/chi/v5"
)

// GetProfileHandler godoc
// @Summary Get a public profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 404 {string} string "Not found"
// @Router /profiles/{id} [get]
func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := profileRepo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch profile", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, profile)
}

// GetProfileProductsHandler godoc
// @Summary List the collection of a profile, newest first
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {array} models.Product
// @Failure 404 {string} string "Not found"
// @Router /profiles/{id}/products [get]
func GetProfileProductsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := profileRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch profile", http.StatusInternalServerError)
		return
	}

	products, err := productRepo.GetByOwner(id)
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, products)
}

// SearchProfilesHandler godoc
// @Summary Search profiles by username or display name
// @Tags profiles
// @Produce json
// @Param q query string false "Substring to match"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProfilesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Router /profiles/search [get]
func SearchProfilesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := parsePagination(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profiles, total, err := profileRepo.Search(strings.TrimSpace(q.Get("q")), offset, limit)
	if err != nil {
		http.Error(w, "could not search profiles", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, ProfilesSearchResult{Data: profiles, Meta: Meta{TotalCount: total}})
}

// UpdateMyProfileHandler godoc
// @Summary Update the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {array} ValidationError
// @Router /profiles/me [put]
func UpdateMyProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	profile, err := profileRepo.GetByID(middleware.GetUserID(r))
	if err != nil {
		if errors.Is(err, repo.ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch profile", http.StatusInternalServerError)
		return
	}

	profile.DisplayName = strings.TrimSpace(req.DisplayName)
	profile.Bio = req.Bio
	profile.AvatarURL = req.AvatarURL
	profile.UpdatedAt = time.Now().UTC()

	updated, err := profileRepo.Update(profile)
	if err != nil {
		log.Printf("could not update profile %s: %v", profile.ID, err)
		http.Error(w, "could not update profile", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, updated)
}
