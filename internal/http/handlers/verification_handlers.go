package handlers

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ayres-originals/originals-api/internal/repo"
	"github.com/go-chi/chi/v5"
)

// maxPageSize bounds list responses. Exports are not paginated and return the whole history.
const maxPageSize = 100

func parseVerificationFilter(w http.ResponseWriter, r *http.Request, paginate bool) (repo.VerificationFilter, bool) {
	q := r.URL.Query()
	var vf repo.VerificationFilter
	var err error

	if vf.Since, err = parseTimeParam(q, "since"); err != nil {
		log.Printf("could not parse since date %s: %v", q.Get("since"), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return vf, false
	}
	if vf.Until, err = parseTimeParam(q, "until"); err != nil {
		log.Printf("could not parse until date %s: %v", q.Get("until"), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return vf, false
	}
	if paginate {
		if vf.Offset, vf.Limit, err = parsePagination(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return vf, false
		}
		if vf.Limit == nil || *vf.Limit > maxPageSize {
			limit := maxPageSize
			vf.Limit = &limit
		}
	}
	return vf, true
}

// GetVerificationsHandler godoc
// @Summary Verification history of a product, newest first
// @Tags verification
// @Produce json
// @Param id path string true "Product ID"
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} VerificationsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/verifications [get]
func GetVerificationsHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := fetchProduct(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	vf, ok := parseVerificationFilter(w, r, true)
	if !ok {
		return
	}

	verifications, total, err := verificationRepo.GetByProductID(product.ID, vf)
	if err != nil {
		log.Printf("could not retrieve verifications for product %s: %v", product.ID, err)
		http.Error(w, "could not retrieve verifications", http.StatusInternalServerError)
		return
	}

	_ = writeJSON(w, http.StatusOK, VerificationsSearchResult{Data: verifications, Meta: Meta{TotalCount: total}})
}

// ExportVerificationsHandler godoc
// @Summary Export the verification history of a product
// @Tags verification
// @Produce text/csv, application/json
// @Param id path string true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/verifications/export [get]
func ExportVerificationsHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	product, ok := fetchProduct(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	vf, ok := parseVerificationFilter(w, r, false)
	if !ok {
		return
	}

	verifications, _, err := verificationRepo.GetByProductID(product.ID, vf)
	if err != nil {
		http.Error(w, "could not retrieve verifications", http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="verifications.json"`)
		if err := json.NewEncoder(w).Encode(verifications); err != nil {
			log.Printf("failed to encode export: %v", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="verifications.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "confidence", "authentic", "analysis", "blockchain_hash", "created_at"})
		for _, v := range verifications {
			_ = csvWriter.Write([]string{
				v.ID,
				v.ProductID,
				strconv.FormatFloat(v.Confidence, 'f', -1, 64),
				strconv.FormatBool(v.Authentic),
				v.Analysis,
				v.BlockchainHash,
				v.CreatedAt.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
