package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE verification_status = 'verified')
		FROM products
	`).Scan(&m.TotalProducts, &m.VerifiedProducts)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(ROUND(AVG(confidence)::numeric, 2), 0)::float8
		FROM verifications
	`).Scan(&m.TotalVerifications, &m.AverageConfidence)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT brand, COUNT(*) AS cnt
		FROM products
		GROUP BY brand
		ORDER BY cnt DESC, brand
		LIMIT 1
	`).Scan(&m.TopBrand.Name, &m.TopBrand.ProductCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, err
	}

	return m, nil
}
