package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/ayres-originals/originals-api/internal/auth"
)

const accessPassTTL = 24 * time.Hour

// NewAccessHandler godoc
// @Summary Unlock the app with the shared access password
// @Description Convenience gate for previews. It is not a security boundary.
// @Tags access
// @Accept json
// @Produce json
// @Param request body AccessRequest true "access password"
// @Success 200 {object} AccessResult
// @Failure 401 {object} AccessResult
// @Router /access [post]
func NewAccessHandler(password string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if password == "" {
			_ = writeJSON(w, http.StatusOK, AccessResult{Granted: true})
			return
		}

		var req AccessRequest
		if err := readJSON(w, r, &req); err != nil {
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}

		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) != 1 {
			_ = writeJSON(w, http.StatusUnauthorized, AccessResult{Granted: false})
			return
		}

		pass, err := auth.GenerateAccessPass(accessPassTTL)
		if err != nil {
			http.Error(w, "could not grant access", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.AccessCookieName,
			Value:    pass,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
			Expires:  time.Now().Add(accessPassTTL),
		})
		_ = writeJSON(w, http.StatusOK, AccessResult{Granted: true})
	}
}
