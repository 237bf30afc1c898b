package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/google/uuid"
)

type PostgresVerificationRepository struct {
	db *sql.DB
}

func NewPostgresVerificationRepository(db *sql.DB) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{db: db}
}

// Log inserts a new verification entry
func (r *PostgresVerificationRepository) Log(v models.Verification) (models.Verification, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `INSERT INTO verifications (id, product_id, confidence, authentic, analysis, blockchain_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, v.ID, v.ProductID, v.Confidence, v.Authentic, v.Analysis, v.BlockchainHash, v.CreatedAt)
	if err != nil {
		return models.Verification{}, fmt.Errorf("failed to insert verification: %w", err)
	}
	return v, nil
}

// GetByProductID returns the verifications of a product
func (r *PostgresVerificationRepository) GetByProductID(productID string, vf VerificationFilter) ([]models.Verification, int, error) {
	whereClause, args := r.buildWhereClause(productID, vf)

	if vf.Offset != nil && *vf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if vf.Offset != nil && *vf.Offset >= total {
		return []models.Verification{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, vf)
	verifications, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return verifications, total, nil
}

// buildWhereClause constructs the WHERE clause and returns arguments
func (r *PostgresVerificationRepository) buildWhereClause(productID string, vf VerificationFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if vf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *vf.Since)
		argIndex++
	}

	if vf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *vf.Until)
	}

	return whereClause, args
}

// buildMainQuery constructs the main SELECT query with optional pagination
func (r *PostgresVerificationRepository) buildMainQuery(whereClause string, baseArgs []any, vf VerificationFilter) (string, []any) {
	query := fmt.Sprintf(`SELECT id, product_id, confidence, authentic, analysis, blockchain_hash, created_at
		FROM verifications %s ORDER BY created_at DESC`, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	// Without a limit the whole history is returned, which exports rely on.
	if vf.Limit != nil && *vf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *vf.Limit)
		argIndex++
	}

	if vf.Offset != nil && *vf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *vf.Offset)
	}

	return query, args
}

func (r *PostgresVerificationRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM verifications %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresVerificationRepository) executeQuery(query string, args []any) ([]models.Verification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	verifications := []models.Verification{}
	for rows.Next() {
		var v models.Verification
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Confidence, &v.Authentic, &v.Analysis, &v.BlockchainHash, &v.CreatedAt); err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return verifications, nil
}
