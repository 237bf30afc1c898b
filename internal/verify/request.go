// Package verify relays a product photo and its metadata to a hosted
// multimodal model and normalises the reply into a fixed result shape.
//
// The hash and digital twin it produces are presentational records. The
// hash is random bytes; nothing ties it to a ledger.
package verify

import "strings"

// Request is the body accepted by the relay. JSON keys follow the web client.
type Request struct {
	ImageURL     string `json:"imageUrl"`
	SerialNumber string `json:"serialNumber"`
	Brand        string `json:"brand"`
	Name         string `json:"name"`
}

// MissingFields lists the JSON names of required fields that are empty or blank.
func (r Request) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.ImageURL) == "" {
		missing = append(missing, "imageUrl")
	}
	if strings.TrimSpace(r.SerialNumber) == "" {
		missing = append(missing, "serialNumber")
	}
	if strings.TrimSpace(r.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	return missing
}

// Result is the normalised model verdict.
type Result struct {
	Confidence float64  `json:"confidence"`
	Authentic  bool     `json:"authentic"`
	Analysis   string   `json:"analysis"`
	Details    []string `json:"details"`
}

// Outcome is everything one verification produces.
type Outcome struct {
	Verification   Result      `json:"verification"`
	BlockchainHash string      `json:"blockchain_hash"`
	DigitalTwin    DigitalTwin `json:"digital_twin"`
}
