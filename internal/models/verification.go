package models

import "time"

// Verification is one entry of a product's verification history.
type Verification struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Confidence     float64   `json:"confidence"`
	Authentic      bool      `json:"authentic"`
	Analysis       string    `json:"analysis"`
	BlockchainHash string    `json:"blockchain_hash"`
	CreatedAt      time.Time `json:"created_at"`
}
