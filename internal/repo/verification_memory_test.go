package repo

import (
	"testing"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryVerificationRepository(t *testing.T) {
	r := NewInMemoryVerificationRepository()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		v, err := r.Log(models.Verification{ProductID: "p1", Confidence: float64(i * 10), CreatedAt: base.AddDate(0, 0, i)})
		require.NoError(t, err)
		assert.NotEmpty(t, v.ID)
	}
	_, err := r.Log(models.Verification{ProductID: "p2", CreatedAt: base})
	require.NoError(t, err)

	all, total, err := r.GetByProductID("p1", VerificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, float64(30), all[0].Confidence)

	since := base.AddDate(0, 0, 1)
	until := base.AddDate(0, 0, 2)
	ranged, total, err := r.GetByProductID("p1", VerificationFilter{Since: &since, Until: &until})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, ranged, 2)

	offset, limit := 3, 5
	tail, total, err := r.GetByProductID("p1", VerificationFilter{Offset: &offset, Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, tail, 1)
	assert.Equal(t, float64(0), tail[0].Confidence)

	none, total, err := r.GetByProductID("p3", VerificationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, none)
}

func TestInMemoryVerificationRepository_UnpaginatedReturnsFullHistory(t *testing.T) {
	r := NewInMemoryVerificationRepository()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		_, err := r.Log(models.Verification{ProductID: "p1", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	all, total, err := r.GetByProductID("p1", VerificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 150, total)
	assert.Len(t, all, 150)
}
