package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/middleware"
	"github.com/hamroaawaz/complaint-server/internal/services"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// ComplaintHandler handles complaint-related HTTP endpoints
type ComplaintHandler struct {
	complaints *services.ComplaintService
	blobs      *storage.BlobStore
	logger     *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaints *services.ComplaintService, blobs *storage.BlobStore, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, blobs: blobs, logger: logger}
}

// Create handles POST /complaints
// Accepts a multipart form with title, content, and an optional image.
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: title, content")
		return
	}

	imageURL, err := storeFormImage(r, h.blobs, "complaints")
	if err != nil {
		h.logger.Errorw("Failed to store complaint image", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	complaint, err := h.complaints.Create(claims.UserID, claims.Phone, title, content, imageURL)
	if err != nil {
		h.logger.Errorw("Failed to create complaint", "error", err)
		respondServiceError(w, err)
		return
	}

	h.logger.Infow("Complaint submitted",
		"id", complaint.ID,
		"municipality", complaint.Municipality,
		"has_image", imageURL != "",
	)

	respondJSON(w, http.StatusCreated, complaint)
}

// List handles GET /complaints
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaints.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list complaints")
		return
	}
	respondJSON(w, http.StatusOK, complaints)
}

// Upvote handles POST /complaints/{complaintID}/upvote
func (h *ComplaintHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "complaintID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	upvotes, err := h.complaints.Upvote(id, claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Upvoted successfully",
		"upvotes": upvotes,
	})
}

// Unvote handles POST /complaints/{complaintID}/unvote
func (h *ComplaintHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "complaintID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	upvotes, err := h.complaints.Unvote(id, claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Unvoted successfully",
		"upvotes": upvotes,
	})
}

// storeFormImage saves the optional "image" field of a parsed multipart form
// into the blob store. Returns the blob reference, or "" when the field is
// absent.
func storeFormImage(r *http.Request, blobs *storage.BlobStore, subdir string) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	return blobs.Store(subdir, filepath.Ext(header.Filename), content)
}
