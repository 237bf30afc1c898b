package repo

import (
	"github.com/ayres-originals/originals-api/internal/models"
)

// VerificationRepository keeps the verification history of products, newest first.
type VerificationRepository interface {
	Log(v models.Verification) (models.Verification, error)
	GetByProductID(productID string, vf VerificationFilter) ([]models.Verification, int, error)
}
