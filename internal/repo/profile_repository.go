package repo

import "github.com/ayres-originals/originals-api/internal/models"

type ProfileRepository interface {
	Create(p models.Profile) (models.Profile, error)
	GetByID(id string) (models.Profile, error)
	GetByUsername(username string) (models.Profile, error)
	Update(p models.Profile) (models.Profile, error)
	Search(query string, offset, limit *int) ([]models.Profile, int, error)
}
