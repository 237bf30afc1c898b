package repo

import (
	"sort"
	"strings"
	"sync"

	"github.com/ayres-originals/originals-api/internal/models"
)

type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles []models.Profile
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: []models.Profile{},
	}
}

func (r *InMemoryProfileRepository) Create(p models.Profile) (models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.profiles {
		if existing.ID == p.ID || strings.EqualFold(existing.Username, p.Username) {
			return models.Profile{}, ErrDuplicatedValueUnique
		}
	}
	r.profiles = append(r.profiles, p)
	return p, nil
}

func (r *InMemoryProfileRepository) GetByID(id string) (models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Profile{}, ErrProfileNotFound
}

func (r *InMemoryProfileRepository) GetByUsername(username string) (models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if strings.EqualFold(p.Username, username) {
			return p, nil
		}
	}
	return models.Profile{}, ErrProfileNotFound
}

func (r *InMemoryProfileRepository) Update(p models.Profile) (models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.profiles {
		if existing.ID == p.ID {
			r.profiles[i] = p
			return p, nil
		}
	}
	return models.Profile{}, ErrProfileNotFound
}

func (r *InMemoryProfileRepository) Search(query string, offset, limit *int) ([]models.Profile, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	matched := []models.Profile{}
	for _, p := range r.profiles {
		if strings.Contains(strings.ToLower(p.Username), q) || strings.Contains(strings.ToLower(p.DisplayName), q) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return strings.ToLower(matched[i].Username) < strings.ToLower(matched[j].Username)
	})

	return page(matched, offset, cappedLimit(limit)), len(matched), nil
}
