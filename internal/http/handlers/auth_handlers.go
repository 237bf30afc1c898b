package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/mail"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/repo"
)

func issueTokens(ctx context.Context, user models.User, username string) (TokenPair, error) {
	access, err := auth.GenerateToken(user, username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.NewOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := tokenStore.Save(ctx, auth.KindRefresh, refresh, user.ID, refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func usernameOf(userID string) string {
	profile, err := profileRepo.GetByID(userID)
	if err != nil {
		return ""
	}
	return profile.Username
}

// SignupHandler godoc
// @Summary Create an account and its public profile
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body SignupRequest true "email, password and username"
// @Success 201 {object} SignupResult
// @Failure 400 {array} ValidationError
// @Failure 409 {string} string "Email or username taken"
// @Router /signup [post]
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	if _, err := profileRepo.GetByUsername(req.Username); err == nil {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user, err := userRepo.CreateUser(models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	_, err = profileRepo.Create(models.Profile{
		ID:          user.ID,
		Username:    req.Username,
		DisplayName: req.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if delErr := userRepo.Delete(user.ID); delErr != nil {
			log.Printf("failed to roll back user %s: %v", user.ID, delErr)
		}
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already taken", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create profile", http.StatusInternalServerError)
		return
	}

	tokens, err := issueTokens(r.Context(), user, req.Username)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusCreated, SignupResult{Message: "user registered", TokenPair: tokens}); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// LoginHandler godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} TokenPair
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	tokens, err := issueTokens(r.Context(), user, usernameOf(user.ID))
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, tokens); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "refresh token"
// @Success 200 {object} TokenPair
// @Failure 401 {string} string "Unauthorized"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	userID, err := tokenStore.Consume(r.Context(), auth.KindRefresh, req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	tokens, err := issueTokens(r.Context(), user, usernameOf(user.ID))
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, tokens)
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body RefreshRequest true "refresh token"
// @Success 204 "Logged out"
// @Failure 400 {string} string "Invalid input"
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := tokenStore.Delete(r.Context(), auth.KindRefresh, req.RefreshToken); err != nil {
		log.Printf("failed to revoke refresh token: %v", err)
		http.Error(w, "could not revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PasswordResetHandler godoc
// @Summary Request a password reset link
// @Description Always answers 202 so the endpoint does not reveal which emails are registered.
// @Tags auth
// @Accept json
// @Param request body PasswordResetRequest true "account email"
// @Success 202 "Accepted"
// @Failure 400 {array} ValidationError
// @Router /password/reset [post]
func PasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	user, err := userRepo.GetByEmail(req.Email)
	if err != nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	token, err := auth.NewOpaqueToken()
	if err == nil {
		err = tokenStore.Save(r.Context(), auth.KindReset, token, user.ID, resetTTL)
	}
	if err != nil {
		log.Printf("failed to create reset token for %s: %v", user.ID, err)
		http.Error(w, "could not start password reset", http.StatusInternalServerError)
		return
	}

	msg := mail.Message{
		To:      []string{user.Email},
		Subject: "Reset your Ayres Originals password",
		Body: fmt.Sprintf("Use the link below within %d minutes to choose a new password.\n\n%s?token=%s",
			int(resetTTL.Minutes()), resetLinkURL, token),
	}
	if err := mailer.Send(r.Context(), msg); err != nil {
		log.Printf("failed to send reset mail to %s: %v", user.ID, err)
	}
	w.WriteHeader(http.StatusAccepted)
}

// PasswordResetConfirmHandler godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Param request body PasswordResetConfirmRequest true "reset token and new password"
// @Success 204 "Password changed"
// @Failure 400 {string} string "Invalid or expired token"
// @Router /password/reset/confirm [post]
func PasswordResetConfirmHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirmRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	userID, err := tokenStore.Consume(r.Context(), auth.KindReset, req.Token)
	if err != nil {
		http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := userRepo.UpdatePassword(userID, hashed); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
			return
		}
		http.Error(w, "could not update password", http.StatusInternalServerError)
		return
	}
	if err := tokenStore.RevokeUser(r.Context(), auth.KindRefresh, userID); err != nil {
		log.Printf("failed to revoke sessions of user %s: %v", userID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}
