package repo

import (
	"sort"
	"sync"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/google/uuid"
)

type InMemoryVerificationRepository struct {
	mu            sync.RWMutex
	verifications []models.Verification
}

func NewInMemoryVerificationRepository() *InMemoryVerificationRepository {
	return &InMemoryVerificationRepository{
		verifications: []models.Verification{},
	}
}

// Log inserts a new verification entry
func (r *InMemoryVerificationRepository) Log(v models.Verification) (models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.verifications = append(r.verifications, v)
	return v, nil
}

// GetByProductID returns the verifications of a product, optionally filtered by date range and paginated
func (r *InMemoryVerificationRepository) GetByProductID(productID string, vf VerificationFilter) ([]models.Verification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Verification{}
	for _, v := range r.verifications {
		if v.ProductID != productID {
			continue
		}
		if (vf.Since != nil && v.CreatedAt.Before(*vf.Since)) ||
			(vf.Until != nil && v.CreatedAt.After(*vf.Until)) {
			continue
		}
		filtered = append(filtered, v)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return page(filtered, vf.Offset, vf.Limit), len(filtered), nil
}
