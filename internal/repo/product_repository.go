package repo

import (
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
)

// ProductRepository defines the interface for product data operations.
// Listing methods return products newest first.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id string) (models.Product, error)
	GetByOwner(userID string) ([]models.Product, error)
	GetByOwnerAndSerial(userID, serialNumber string) (models.Product, error)
	Update(product models.Product) (models.Product, error)
	Delete(id string) error
	Filter(pf ProductFilter) ([]models.Product, int, error)
	RecordVerification(id, status string, digitalTwin []byte, hash string, at time.Time) (models.Product, error)
}
