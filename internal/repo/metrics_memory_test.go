package repo

import (
	"testing"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetricsRepository(t *testing.T) {
	products := NewInMemoryProductRepository()
	verifications := NewInMemoryVerificationRepository()
	metrics := NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, verifications)

	empty, err := metrics.GetDashboardMetrics()
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, empty)

	for _, p := range []models.Product{
		{Brand: "Rolex", VerificationStatus: models.StatusVerified},
		{Brand: "Omega"},
		{Brand: "Omega", VerificationStatus: models.StatusVerified},
		{Brand: "Rolex"},
	} {
		created, err := products.Create(p)
		require.NoError(t, err)
		for _, c := range []float64{70, 75} {
			_, err := verifications.Log(models.Verification{ProductID: created.ID, Confidence: c})
			require.NoError(t, err)
		}
	}

	m, err := metrics.GetDashboardMetrics()
	require.NoError(t, err)
	assert.Equal(t, 4, m.TotalProducts)
	assert.Equal(t, 2, m.VerifiedProducts)
	assert.Equal(t, 8, m.TotalVerifications)
	assert.Equal(t, 72.5, m.AverageConfidence)
	assert.Equal(t, TopBrand{Name: "Omega", ProductCount: 2}, m.TopBrand, "ties resolve alphabetically")
}
