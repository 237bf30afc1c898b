package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/http/middleware"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/repo"
	"github.com/ayres-originals/originals-api/internal/storage"
	"github.com/ayres-originals/originals-api/internal/verify"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func trimProductRequest(req *ProductRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Brand = strings.TrimSpace(req.Brand)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Provenance = strings.TrimSpace(req.Provenance)
}

func fetchProduct(w http.ResponseWriter, id string) (models.Product, bool) {
	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return models.Product{}, false
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return models.Product{}, false
	}
	return product, true
}

// fetchOwnedProduct loads the {id} product and writes 403 unless the caller owns it.
func fetchOwnedProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	product, ok := fetchProduct(w, chi.URLParam(r, "id"))
	if !ok {
		return models.Product{}, false
	}
	if product.UserID != middleware.GetUserID(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return models.Product{}, false
	}
	return product, true
}

// CreateProductHandler godoc
// @Summary Add a product to the caller's collection
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {array} ValidationError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	trimProductRequest(&req)

	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	now := time.Now().UTC()
	created, err := productRepo.Create(models.Product{
		UserID:             middleware.GetUserID(r),
		Name:               req.Name,
		Brand:              req.Brand,
		SerialNumber:       req.SerialNumber,
		ImageURL:           req.ImageURL,
		Provenance:         req.Provenance,
		VerificationStatus: models.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		log.Printf("could not create product: %v", err)
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	_ = writeJSON(w, http.StatusCreated, created)
}

// GetProductsHandler godoc
// @Summary Feed of all products, newest first
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, products)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := fetchProduct(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update a product the caller owns
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} models.Product
// @Failure 400 {array} ValidationError
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [put]
// @Security BearerAuth
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	trimProductRequest(&req)

	if validationErrors := validateStruct(req); len(validationErrors) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	product, ok := fetchOwnedProduct(w, r)
	if !ok {
		return
	}

	product.Name = req.Name
	product.Brand = req.Brand
	product.SerialNumber = req.SerialNumber
	product.ImageURL = req.ImageURL
	product.Provenance = req.Provenance
	product.UpdatedAt = time.Now().UTC()

	updated, err := productRepo.Update(product)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update product", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product the caller owns
// @Tags products
// @Param id path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
// @Security BearerAuth
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := fetchOwnedProduct(w, r)
	if !ok {
		return
	}

	if err := productRepo.Delete(product.ID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete product", http.StatusInternalServerError)
		return
	}
	log.Printf("product %s deleted by %s", product.ID, middleware.GetUsername(r))

	if key, ok := storage.KeyFromURL(product.UserID, product.ImageURL); ok && imageStore != nil {
		if err := imageStore.Delete(r.Context(), key); err != nil {
			log.Printf("failed to delete image %s of product %s: %v", key, product.ID, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param q query string false "Matches name, brand or serial number"
// @Param brand query string false "Exact brand, case insensitive"
// @Param status query string false "pending, verified or failed"
// @Param user_id query string false "Owner UUID"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /products/search [get]
func FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, limit, err := parsePagination(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := q.Get("status")
	switch status {
	case "", models.StatusPending, models.StatusVerified, models.StatusFailed:
	default:
		http.Error(w, "status must be pending, verified or failed", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(q.Get("user_id"))
	if userID != "" {
		if _, err := uuid.Parse(userID); err != nil {
			http.Error(w, "user_id must be a UUID", http.StatusBadRequest)
			return
		}
	}

	filter := repo.ProductFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Brand:  strings.TrimSpace(q.Get("brand")),
		Status: status,
		UserID: userID,
		Offset: offset,
		Limit:  limit,
	}

	products, total, err := productRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter products", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, ProductsSearchResult{Data: products, Meta: Meta{TotalCount: total}}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// VerifyProductHandler godoc
// @Summary Run AI verification on a product the caller owns
// @Description Stores the verdict on the product (verified or failed), keeps the digital twin
// @Description and reference hash, and appends an entry to the verification history.
// @Tags verification
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductVerificationResult
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 500 {object} RelayErrorResponse
// @Router /products/{id}/verify [post]
func VerifyProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := fetchOwnedProduct(w, r)
	if !ok {
		return
	}

	outcome, status, errResp := runVerification(r, verify.Request{
		ImageURL:     product.ImageURL,
		SerialNumber: product.SerialNumber,
		Brand:        product.Brand,
		Name:         product.Name,
	})
	if errResp != nil {
		_ = writeJSON(w, status, errResp)
		return
	}

	twin, err := json.Marshal(outcome.DigitalTwin)
	if err != nil {
		http.Error(w, "could not encode digital twin", http.StatusInternalServerError)
		return
	}

	newStatus := models.StatusFailed
	if outcome.Verification.Authentic {
		newStatus = models.StatusVerified
	}

	now := time.Now().UTC()
	updated, err := productRepo.RecordVerification(product.ID, newStatus, twin, outcome.BlockchainHash, now)
	if err != nil {
		log.Printf("could not store verification for product %s: %v", product.ID, err)
		http.Error(w, "could not store verification", http.StatusInternalServerError)
		return
	}

	_, err = verificationRepo.Log(models.Verification{
		ProductID:      product.ID,
		Confidence:     outcome.Verification.Confidence,
		Authentic:      outcome.Verification.Authentic,
		Analysis:       outcome.Verification.Analysis,
		BlockchainHash: outcome.BlockchainHash,
		CreatedAt:      now,
	})
	if err != nil {
		log.Printf("could not log verification for product %s: %v", product.ID, err)
	}

	_ = writeJSON(w, http.StatusOK, ProductVerificationResult{Product: updated, Outcome: *outcome})
}
