package repo

import (
	"math"

	"github.com/ayres-originals/originals-api/internal/models"
)

type InMemoryMetricsRepository struct {
	productRepo      ProductRepository
	verificationRepo VerificationRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	brandCounts := make(map[string]int)
	var confidenceSum float64
	for _, product := range products {
		if product.VerificationStatus == models.StatusVerified {
			m.VerifiedProducts++
		}
		brandCounts[product.Brand]++

		verifications, count, err := i.verificationRepo.GetByProductID(product.ID, VerificationFilter{})
		if err != nil {
			return m, err
		}
		m.TotalVerifications += count
		for _, v := range verifications {
			confidenceSum += v.Confidence
		}
	}

	if m.TotalVerifications > 0 {
		m.AverageConfidence = math.Round(confidenceSum/float64(m.TotalVerifications)*100) / 100
	}

	for brand, count := range brandCounts {
		// ties resolve alphabetically so the result is stable
		if count > m.TopBrand.ProductCount || (count == m.TopBrand.ProductCount && brand < m.TopBrand.Name) {
			m.TopBrand = TopBrand{Name: brand, ProductCount: count}
		}
	}

	return m, nil
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	verificationRepo VerificationRepository,
) {
	i.productRepo = productRepo
	i.verificationRepo = verificationRepo
}
