package repo

import "github.com/ayres-originals/originals-api/internal/models"

type UserRepository interface {
	GetByEmail(email string) (models.User, error)
	GetByID(id string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}
