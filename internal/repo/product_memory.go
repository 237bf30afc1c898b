package repo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/google/uuid"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.UserID != "" && p.UserID != pf.UserID {
		return false
	}
	if pf.Brand != "" && !strings.EqualFold(p.Brand, pf.Brand) {
		return false
	}
	if pf.Status != "" && p.VerificationStatus != pf.Status {
		return false
	}
	if pf.Query != "" {
		q := strings.ToLower(pf.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.SerialNumber), q) {
			return false
		}
	}
	return true
}

// newestFirst returns a sorted copy so callers never alias the backing slice.
func newestFirst(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *InMemoryProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.Product
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}
	filtered = newestFirst(filtered)

	return page(filtered, pf.Offset, cappedLimit(pf.Limit)), len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.VerificationStatus == "" {
		product.VerificationStatus = models.StatusPending
	}
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.products), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByOwner(userID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := []models.Product{}
	for _, p := range r.products {
		if p.UserID == userID {
			owned = append(owned, p)
		}
	}
	return newestFirst(owned), nil
}

func (r *InMemoryProductRepository) GetByOwnerAndSerial(userID, serialNumber string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.UserID == userID && p.SerialNumber == serialNumber {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryProductRepository) RecordVerification(id, status string, digitalTwin []byte, hash string, at time.Time) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			p.VerificationStatus = status
			p.DigitalTwin = append([]byte(nil), digitalTwin...)
			p.BlockchainHash = hash
			p.UpdatedAt = at
			r.products[i] = p
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}
