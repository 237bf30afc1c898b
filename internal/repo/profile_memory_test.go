package repo

import (
	"testing"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProfileRepository(t *testing.T) {
	r := NewInMemoryProfileRepository()

	_, err := r.Create(models.Profile{ID: "1", Username: "Collector", DisplayName: "Vintage Hunter"})
	require.NoError(t, err)
	_, err = r.Create(models.Profile{ID: "2", Username: "reseller", DisplayName: "Bag Lady"})
	require.NoError(t, err)

	_, err = r.Create(models.Profile{ID: "3", Username: "collector"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
	_, err = r.Create(models.Profile{ID: "1", Username: "fresh"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	p, err := r.GetByUsername("COLLECTOR")
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)

	p.Bio = "Watches since 1998"
	_, err = r.Update(p)
	require.NoError(t, err)
	stored, _ := r.GetByID("1")
	assert.Equal(t, "Watches since 1998", stored.Bio)

	_, err = r.GetByID("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = r.Update(models.Profile{ID: "missing"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestInMemoryProfileRepository_Search(t *testing.T) {
	r := NewInMemoryProfileRepository()
	for _, p := range []models.Profile{
		{ID: "1", Username: "zoe", DisplayName: "Watch Nerd"},
		{ID: "2", Username: "adam", DisplayName: "watch dealer"},
		{ID: "3", Username: "bea", DisplayName: "Sneakers"},
	} {
		_, err := r.Create(p)
		require.NoError(t, err)
	}

	found, total, err := r.Search("WATCH", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, found, 2)
	assert.Equal(t, "adam", found[0].Username)

	one := 1
	found, total, err = r.Search("", &one, &one)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, found, 1)
	assert.Equal(t, "bea", found[0].Username)
}
