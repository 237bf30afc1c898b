package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ayres-originals/originals-api/internal/verify"
)

// VerifyHandler godoc
// @Summary Verify a product photo with the AI gateway
// @Description Sends the image and product details to the model and returns the verdict,
// @Description a random reference hash and a digital twin record. Nothing is persisted.
// @Tags verification
// @Accept json
// @Produce json
// @Param request body verify.Request true "Product to verify"
// @Success 200 {object} RelayResponse
// @Failure 400 {object} RelayErrorResponse
// @Failure 500 {object} RelayErrorResponse
// @Router /verify [post]
func VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req verify.Request
	if err := readJSON(w, r, &req); err != nil {
		_ = writeJSON(w, http.StatusBadRequest, RelayErrorResponse{Error: "invalid JSON body"})
		return
	}

	outcome, status, errResp := runVerification(r, req)
	if errResp != nil {
		_ = writeJSON(w, status, errResp)
		return
	}

	if err := writeJSON(w, http.StatusOK, RelayResponse{Success: true, Outcome: *outcome}); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// runVerification maps verifier failures to the relay error body.
func runVerification(r *http.Request, req verify.Request) (*verify.Outcome, int, *RelayErrorResponse) {
	if verifier == nil {
		return nil, http.StatusInternalServerError, &RelayErrorResponse{Error: verify.ErrGatewayNotConfigured.Error()}
	}

	outcome, err := verifier.Verify(r.Context(), req)
	if err == nil {
		return outcome, http.StatusOK, nil
	}

	if errors.Is(err, verify.ErrMissingField) {
		return nil, http.StatusBadRequest, &RelayErrorResponse{Error: err.Error()}
	}

	resp := &RelayErrorResponse{Error: err.Error()}
	var upstream *verify.UpstreamError
	if errors.As(err, &upstream) {
		resp.Details = upstream.Body
	}
	return nil, http.StatusInternalServerError, resp
}
