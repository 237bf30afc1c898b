package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/http/middleware"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/repo"
)

var requiredImportColumns = []string{"name", "brand", "serial_number", "image_url"}

type csvRow struct {
	Name         string
	Brand        string
	SerialNumber string
	ImageURL     string
	Provenance   string
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	reader.FieldsPerRecord = -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:         field(record, "name"),
			Brand:        field(record, "brand"),
			SerialNumber: field(record, "serial_number"),
			ImageURL:     field(record, "image_url"),
			Provenance:   field(record, "provenance"),
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	switch {
	case r.Name == "":
		return errors.New("missing name")
	case r.Brand == "":
		return errors.New("missing brand")
	case r.SerialNumber == "":
		return errors.New("missing serial number")
	case r.ImageURL == "":
		return errors.New("missing image url")
	}
	return nil
}

// ImportProductsHandler godoc
// @Summary Import products into the caller's collection via CSV
// @Description Header: name,brand,serial_number,image_url,provenance. Rows are matched on serial number.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}
	userID := middleware.GetUserID(r)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	errorsList := []ValidationError{}
	rowError := func(rowNum int, format string, args ...any) {
		errorsList = append(errorsList, ValidationError{
			Field:       fmt.Sprintf("row %d", rowNum),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1
		now := time.Now().UTC()

		if err := validateRow(rec); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}

		existing, err := productRepo.GetByOwnerAndSerial(userID, rec.SerialNumber)
		if err == nil {
			if mode == "skip" {
				rowError(rowNum, "product with serial '%s' already exists", rec.SerialNumber)
				continue
			}
			existing.Name = rec.Name
			existing.Brand = rec.Brand
			existing.ImageURL = rec.ImageURL
			existing.Provenance = rec.Provenance
			existing.UpdatedAt = now
			if _, err := productRepo.Update(existing); err != nil {
				rowError(rowNum, "failed to update '%s'", rec.SerialNumber)
				continue
			}
			imported++
			continue
		}
		if !errors.Is(err, repo.ErrProductNotFound) {
			rowError(rowNum, "%v", err)
			continue
		}

		_, err = productRepo.Create(models.Product{
			UserID:             userID,
			Name:               rec.Name,
			Brand:              rec.Brand,
			SerialNumber:       rec.SerialNumber,
			ImageURL:           rec.ImageURL,
			Provenance:         rec.Provenance,
			VerificationStatus: models.StatusPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if err != nil {
			rowError(rowNum, "%v", err)
			continue
		}
		imported++
	}

	err = writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})

	if err != nil {
		http.Error(w, "", http.StatusInternalServerError)
	}
}
