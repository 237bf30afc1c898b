package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/http/handlers"
)

func TestSignupHandler(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/signup", handlers.SignupRequest{Email: "ana@example.com", Password: "secret123", Username: "ana"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res handlers.SignupResult
	decode(t, w, &res)
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", res)
	}

	_, claims, err := auth.TokenClaims("Bearer " + res.AccessToken)
	if err != nil {
		t.Fatalf("access token does not validate: %v", err)
	}
	if claims["username"] != "ana" || claims["role"] != "user" {
		t.Errorf("unexpected claims: %v", claims)
	}

	profile, err := env.profiles.GetByID(claims["sub"].(string))
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Username != "ana" || profile.DisplayName != "ana" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestSignupHandler_Conflicts(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")

	tests := []struct {
		name string
		req  handlers.SignupRequest
	}{
		{"same email", handlers.SignupRequest{Email: "ANA@example.com", Password: "secret123", Username: "other"}},
		{"same username", handlers.SignupRequest{Email: "new@example.com", Password: "secret123", Username: "Ana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/signup", tt.req, "")
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", w.Code)
			}
		})
	}

	if _, err := env.users.GetByEmail("new@example.com"); err == nil {
		t.Error("user must not survive a failed signup")
	}
}

func TestSignupHandler_Validation(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name  string
		req   handlers.SignupRequest
		field string
	}{
		{"short password", handlers.SignupRequest{Email: "a@example.com", Password: "123", Username: "abc"}, "password"},
		{"bad email", handlers.SignupRequest{Email: "nope", Password: "secret123", Username: "abc"}, "email"},
		{"blank username", handlers.SignupRequest{Email: "a@example.com", Password: "secret123", Username: "   "}, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/signup", tt.req, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}

			var errs []handlers.ValidationError
			decode(t, w, &errs)
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error for %s, got %+v", tt.field, errs)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")

	w := env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: "ana@example.com", Password: "secret123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var tokens handlers.TokenPair
	decode(t, w, &tokens)
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Errorf("expected tokens, got %+v", tokens)
	}

	for _, req := range []handlers.LoginRequest{
		{Email: "ana@example.com", Password: "wrong-password"},
		{Email: "ghost@example.com", Password: "secret123"},
	} {
		w := env.do(t, http.MethodPost, "/login", req, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login %s: expected 401, got %d", req.Email, w.Code)
		}
	}
}

func TestRefreshHandler_RotatesToken(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")

	w := env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: "ana@example.com", Password: "secret123"}, "")
	var first handlers.TokenPair
	decode(t, w, &first)

	w = env.do(t, http.MethodPost, "/refresh", handlers.RefreshRequest{RefreshToken: first.RefreshToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var second handlers.TokenPair
	decode(t, w, &second)
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token must rotate")
	}

	w = env.do(t, http.MethodPost, "/refresh", handlers.RefreshRequest{RefreshToken: first.RefreshToken}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh token: expected 401, got %d", w.Code)
	}
}

func TestLogoutHandler(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")

	w := env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: "ana@example.com", Password: "secret123"}, "")
	var tokens handlers.TokenPair
	decode(t, w, &tokens)

	w = env.do(t, http.MethodPost, "/logout", handlers.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/refresh", handlers.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/logout", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty logout: expected 400, got %d", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")

	w := env.do(t, http.MethodPost, "/password/reset", handlers.PasswordResetRequest{Email: "ana@example.com"}, "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	msgs := env.mailer.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(msgs))
	}
	if msgs[0].To[0] != "ana@example.com" {
		t.Errorf("mail sent to %v", msgs[0].To)
	}
	_, token, ok := strings.Cut(msgs[0].Body, "token=")
	if !ok || len(token) != 64 {
		t.Fatalf("reset link missing token: %q", msgs[0].Body)
	}

	confirm := handlers.PasswordResetConfirmRequest{Token: token, Password: "brand-new-pass"}
	w = env.do(t, http.MethodPost, "/password/reset/confirm", confirm, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: "ana@example.com", Password: "brand-new-pass"}, "")
	if w.Code != http.StatusOK {
		t.Errorf("login with new password: expected 200, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: "ana@example.com", Password: "secret123"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with old password: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/password/reset/confirm", confirm, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("reused reset token: expected 400, got %d", w.Code)
	}
}

func TestPasswordResetConfirm_RevokesSessions(t *testing.T) {
	env := setupEnv(t)
	env.signup(t, "ana")
	env.signup(t, "ben")

	login := func(email string) handlers.TokenPair {
		w := env.do(t, http.MethodPost, "/login", handlers.LoginRequest{Email: email, Password: "secret123"}, "")
		var tokens handlers.TokenPair
		decode(t, w, &tokens)
		return tokens
	}
	laptop, phone, other := login("ana@example.com"), login("ana@example.com"), login("ben@example.com")

	env.do(t, http.MethodPost, "/password/reset", handlers.PasswordResetRequest{Email: "ana@example.com"}, "")
	_, token, _ := strings.Cut(env.mailer.Messages()[0].Body, "token=")
	w := env.do(t, http.MethodPost, "/password/reset/confirm", handlers.PasswordResetConfirmRequest{Token: token, Password: "brand-new-pass"}, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	for _, session := range []handlers.TokenPair{laptop, phone} {
		w = env.do(t, http.MethodPost, "/refresh", handlers.RefreshRequest{RefreshToken: session.RefreshToken}, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("session from before the reset: expected 401, got %d", w.Code)
		}
	}
	w = env.do(t, http.MethodPost, "/refresh", handlers.RefreshRequest{RefreshToken: other.RefreshToken}, "")
	if w.Code != http.StatusOK {
		t.Errorf("other users keep their sessions, got %d", w.Code)
	}
}

func TestPasswordResetHandler_UnknownEmail(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/password/reset", handlers.PasswordResetRequest{Email: "ghost@example.com"}, "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if n := len(env.mailer.Messages()); n != 0 {
		t.Errorf("expected no mail, got %d", n)
	}
}
