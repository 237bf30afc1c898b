package verify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrMissingField = errors.New("missing required field")

type Verifier struct {
	gateway Gateway
	model   string
	now     func() time.Time
	hash    func() (string, error)
}

func NewVerifier(gateway Gateway, model string) *Verifier {
	return &Verifier{
		gateway: gateway,
		model:   model,
		now:     time.Now,
		hash:    NewRandomHash,
	}
}

// WithClock replaces the time source used for the digital twin.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify checks the request fields, asks the gateway once and assembles the outcome.
// Field problems are reported before any network traffic happens.
func (v *Verifier) Verify(ctx context.Context, req Request) (*Outcome, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	content, err := v.gateway.Complete(ctx, BuildPrompt(v.model, req))
	if err != nil {
		log.Printf("AI verification failed for %s %s: %v", req.Brand, req.Name, err)
		return nil, fmt.Errorf("AI verification failed: %w", err)
	}

	result := ExtractResult(content)

	hash, err := v.hash()
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Verification:   result,
		BlockchainHash: hash,
		DigitalTwin:    BuildDigitalTwin(req, result, hash, v.now()),
	}, nil
}
