package repo

type TopBrand struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

type Metrics struct {
	TotalProducts      int      `json:"total_products"`
	VerifiedProducts   int      `json:"verified_products"`
	TotalVerifications int      `json:"total_verifications"`
	AverageConfidence  float64  `json:"average_confidence"`
	TopBrand           TopBrand `json:"top_brand"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
