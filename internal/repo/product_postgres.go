package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/google/uuid"
)

const productColumns = `id, user_id, name, brand, serial_number, image_url, COALESCE(provenance, ''),
	verification_status, digital_twin, COALESCE(blockchain_hash, ''), created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var twin []byte
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Brand, &p.SerialNumber, &p.ImageURL, &p.Provenance,
		&p.VerificationStatus, &twin, &p.BlockchainHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if len(twin) > 0 {
		p.DigitalTwin = twin
	}
	return p, nil
}

// nullableJSON keeps an empty twin as SQL NULL instead of an invalid jsonb literal.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.VerificationStatus == "" {
		p.VerificationStatus = models.StatusPending
	}
	query := `INSERT INTO products (id, user_id, name, brand, serial_number, image_url, provenance,
		verification_status, digital_twin, blockchain_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, p.Brand, p.SerialNumber, p.ImageURL, p.Provenance,
		p.VerificationStatus, nullableJSON(p.DigitalTwin), p.BlockchainHash, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", translatePgError(err))
	}
	return p, nil
}

func (r *PostgresProductRepository) list(query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`)
}

func (r *PostgresProductRepository) GetByOwner(userID string) ([]models.Product, error) {
	return r.list(`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresProductRepository) getOne(query string, args ...any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetByID(id string) (models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Product{}, ErrProductNotFound
	}
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *PostgresProductRepository) GetByOwnerAndSerial(userID, serialNumber string) (models.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE user_id = $1 AND serial_number = $2
		ORDER BY created_at LIMIT 1`, userID, serialNumber)
}

func (r *PostgresProductRepository) Update(p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, brand = $2, serial_number = $3, image_url = $4, provenance = $5,
		updated_at = $6 WHERE id = $7`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Brand, p.SerialNumber, p.ImageURL, p.Provenance, p.UpdatedAt, p.ID)
	if err != nil {
		return models.Product{}, translatePgError(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrProductNotFound
	}
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) RecordVerification(id, status string, digitalTwin []byte, hash string, at time.Time) (models.Product, error) {
	query := `UPDATE products SET verification_status = $1, digital_twin = $2, blockchain_hash = $3, updated_at = $4
		WHERE id = $5 RETURNING ` + productColumns
	return r.getOne(query, status, nullableJSON(digitalTwin), hash, at, id)
}

func (r *PostgresProductRepository) Filter(pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + " ORDER BY created_at DESC"

	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, pageLimit(pf.Limit))
	argIdx++

	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	products, err := r.list(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, totalCount, nil
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Query != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR brand ILIKE $%d OR serial_number ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, containsPattern(pf.Query))
		argIdx++
	}
	if pf.Brand != "" {
		query += fmt.Sprintf(" AND lower(brand) = lower($%d)", argIdx)
		args = append(args, pf.Brand)
		argIdx++
	}
	if pf.Status != "" {
		query += fmt.Sprintf(" AND verification_status = $%d", argIdx)
		args = append(args, pf.Status)
		argIdx++
	}
	if pf.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, pf.UserID)
		argIdx++
	}

	return query, args, argIdx
}
