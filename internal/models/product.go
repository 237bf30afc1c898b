package models

import (
	"encoding/json"
	"time"
)

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// Product represents an item in a user's collection.
//
// DigitalTwin is stored as opaque JSON and BlockchainHash is a random hex
// reference; neither is anchored to a ledger.
type Product struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	SerialNumber       string          `json:"serial_number"`
	ImageURL           string          `json:"image_url"`
	Provenance         string          `json:"provenance"`
	VerificationStatus string          `json:"verification_status"`
	DigitalTwin        json.RawMessage `json:"digital_twin,omitempty"`
	BlockchainHash     string          `json:"blockchain_hash,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
