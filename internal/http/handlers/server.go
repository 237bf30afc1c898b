package handlers

import (
	"context"
	"time"

	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/mail"
	repo "github.com/ayres-originals/originals-api/internal/repo"
	"github.com/ayres-originals/originals-api/internal/storage"
	"github.com/ayres-originals/originals-api/internal/verify"
)

// Verifier runs one AI verification.
type Verifier interface {
	Verify(ctx context.Context, req verify.Request) (*verify.Outcome, error)
}

var (
	productRepo      repo.ProductRepository
	profileRepo      repo.ProfileRepository
	userRepo         repo.UserRepository
	verificationRepo repo.VerificationRepository
	metricsRepo      repo.MetricsRepository

	verifier   Verifier
	imageStore storage.ImageStore
	tokenStore auth.TokenStore = auth.NewInMemoryTokenStore()
	mailer     mail.Mailer     = mail.LogMailer{}

	refreshTTL   = 7 * 24 * time.Hour
	resetTTL     = 30 * time.Minute
	resetLinkURL = "http://localhost:5173/reset-password"
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetProfileRepo(r repo.ProfileRepository) {
	profileRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetVerificationRepo(r repo.VerificationRepository) {
	verificationRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetVerifier(v Verifier) {
	verifier = v
}

func SetImageStore(s storage.ImageStore) {
	imageStore = s
}

func SetTokenStore(s auth.TokenStore) {
	tokenStore = s
}

func SetMailer(m mail.Mailer) {
	mailer = m
}

// SetRefreshTTL changes the lifetime of newly issued refresh tokens.
func SetRefreshTTL(d time.Duration) {
	if d > 0 {
		refreshTTL = d
	}
}

// SetResetLinkURL sets the web page that receives password reset tokens.
func SetResetLinkURL(u string) {
	if u != "" {
		resetLinkURL = u
	}
}
