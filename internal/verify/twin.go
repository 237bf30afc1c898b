package verify

import (
	"fmt"
	"time"
)

const (
	verificationMethod = "AI + Blockchain"
	attributeMethod    = "AI-Powered Image Analysis"
)

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

type TwinMetadata struct {
	Brand              string `json:"brand"`
	Name               string `json:"name"`
	SerialNumber       string `json:"serial_number"`
	Verified           bool   `json:"verified"`
	VerificationMethod string `json:"verification_method"`
	ImageURL           string `json:"image_url"`
}

// DigitalTwin is an application-defined record bundling the verification inputs and verdict.
type DigitalTwin struct {
	NFTID                 string       `json:"nft_id"`
	CreatedAt             string       `json:"created_at"`
	VerificationTimestamp string       `json:"verification_timestamp"`
	AIConfidence          float64      `json:"ai_confidence"`
	BlockchainHash        string       `json:"blockchain_hash"`
	Metadata              TwinMetadata `json:"metadata"`
	Attributes            []Attribute  `json:"attributes"`
}

func BuildDigitalTwin(req Request, res Result, hash string, now time.Time) DigitalTwin {
	now = now.UTC()
	stamp := now.Format(time.RFC3339Nano)

	return DigitalTwin{
		NFTID:                 fmt.Sprintf("AO-NFT-%d", now.UnixMilli()),
		CreatedAt:             stamp,
		VerificationTimestamp: stamp,
		AIConfidence:          res.Confidence,
		BlockchainHash:        hash,
		Metadata: TwinMetadata{
			Brand:              req.Brand,
			Name:               req.Name,
			SerialNumber:       req.SerialNumber,
			Verified:           res.Authentic,
			VerificationMethod: verificationMethod,
			ImageURL:           req.ImageURL,
		},
		Attributes: []Attribute{
			{TraitType: "Authenticity Score", Value: res.Confidence},
			{TraitType: "Verification Method", Value: attributeMethod},
			{TraitType: "Brand", Value: req.Brand},
			{TraitType: "Verified On", Value: now.Format("1/2/2006")},
		},
	}
}
