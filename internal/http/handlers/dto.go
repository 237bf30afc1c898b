package handlers

import (
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/verify"
)

type RelayResponse struct {
	Success bool `json:"success"`
	verify.Outcome
}

type RelayErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"notblank,min=3,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignupResult struct {
	Message string `json:"message"`
	TokenPair
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AccessRequest struct {
	Password string `json:"password"`
}

type AccessResult struct {
	Granted bool `json:"granted"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"max=80"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

type ProductRequest struct {
	Name         string `json:"name" validate:"notblank"`
	Brand        string `json:"brand" validate:"notblank"`
	SerialNumber string `json:"serial_number" validate:"notblank"`
	ImageURL     string `json:"image_url" validate:"notblank"`
	Provenance   string `json:"provenance"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta"`
}

type ProfilesSearchResult struct {
	Data []models.Profile `json:"data"`
	Meta Meta             `json:"meta"`
}

type VerificationsSearchResult struct {
	Data []models.Verification `json:"data"`
	Meta Meta                  `json:"meta"`
}

type ProductVerificationResult struct {
	Product models.Product `json:"product"`
	verify.Outcome
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

type ImageUploadResult struct {
	ImageURL string `json:"image_url"`
	Key      string `json:"key"`
}
