package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ayres-originals/originals-api/internal/http/middleware"
	"github.com/ayres-originals/originals-api/internal/storage"
)

const maxImageSize = 10 << 20

// UploadImageHandler godoc
// @Summary Upload a product photo
// @Description Stores the image under the caller's prefix and returns a URL valid for seven days.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (max 10 MiB)"
// @Success 201 {object} ImageUploadResult
// @Failure 400 {string} string "Invalid file"
// @Failure 413 {string} string "File too large"
// @Failure 503 {string} string "Storage not configured"
// @Router /images [post]
func UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if imageStore == nil {
		http.Error(w, "image storage is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "file must be an image", http.StatusBadRequest)
		return
	}

	key := storage.ImageKey(middleware.GetUserID(r), header.Filename)
	body := io.MultiReader(bytes.NewReader(head), file)

	imageURL, err := imageStore.Upload(r.Context(), key, body, header.Size, contentType)
	if err != nil {
		log.Printf("image upload failed: %v", err)
		http.Error(w, "could not store image", http.StatusInternalServerError)
		return
	}

	_ = writeJSON(w, http.StatusCreated, ImageUploadResult{ImageURL: imageURL, Key: key})
}
