package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/middleware"
	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/services"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

// MunicipalityHandler handles municipality feed and staff action endpoints.
type MunicipalityHandler struct {
	munis      *services.MunicipalityService
	complaints *services.ComplaintService
	users      *services.UserService
	blobs      *storage.BlobStore
	logger     *zap.SugaredLogger
}

// NewMunicipalityHandler creates a new municipality handler
func NewMunicipalityHandler(
	munis *services.MunicipalityService,
	complaints *services.ComplaintService,
	users *services.UserService,
	blobs *storage.BlobStore,
	logger *zap.SugaredLogger,
) *MunicipalityHandler {
	return &MunicipalityHandler{munis: munis, complaints: complaints, users: users, blobs: blobs, logger: logger}
}

// List handles GET /municipality
func (h *MunicipalityHandler) List(w http.ResponseWriter, r *http.Request) {
	munis, err := h.munis.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list municipalities")
		return
	}
	respondJSON(w, http.StatusOK, munis)
}

// Activities handles GET /municipality/activities — the flattened feed,
// newest first.
func (h *MunicipalityHandler) Activities(w http.ResponseWriter, r *http.Request) {
	feed, err := h.munis.AllActivities()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch activities")
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

// Leaderboard handles GET /municipality/leaderboard
func (h *MunicipalityHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.munis.Leaderboard()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute leaderboard")
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

// PostAction handles POST /municipality/post-action (staff only).
// Appends a free-form activity to the staff member's own municipality feed.
func (h *MunicipalityHandler) PostAction(w http.ResponseWriter, r *http.Request) {
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
	action := r.FormValue("action")
	if title == "" || action == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: title, action")
		return
	}

	staff, err := h.users.GetByID(claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	imageURL, err := storeFormImage(r, h.blobs, "municipality")
	if err != nil {
		h.logger.Errorw("Failed to store action image", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	activity := models.Activity{
		ComplaintID: nil,
		Title:       title,
		Action:      action,
		Statement:   r.FormValue("statement"),
		Timestamp:   time.Now(),
		By:          claims.UserID,
		ImageURL:    imageURL,
	}

	if err := h.munis.Record(staff.Municipality, activity); err != nil {
		h.logger.Errorw("Failed to record activity", "municipality", staff.Municipality, "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Post added to municipality feed",
		"post":    activity,
	})
}

// UpdateComplaintStatus handles POST /municipality/update-complaint-status
// (staff only). Sets the complaint's status and appends the matching
// activity to the staff member's municipality feed. The two collections have
// no cross-collection transaction: the status change persists even if the
// activity append is then rejected.
func (h *MunicipalityHandler) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	complaintID, err := strconv.Atoi(r.FormValue("complaint_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}
	status := models.Status(r.FormValue("status"))

	complaint, err := h.complaints.SetStatus(complaintID, status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	staff, err := h.users.GetByID(claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	imageURL, err := storeFormImage(r, h.blobs, "municipality")
	if err != nil {
		h.logger.Errorw("Failed to store status image", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	activity := models.Activity{
		ComplaintID: &complaint.ID,
		Title:       complaint.Title,
		Action:      services.ActionForStatus(status),
		Statement:   r.FormValue("statement"),
		Timestamp:   time.Now(),
		By:          claims.UserID,
		ImageURL:    imageURL,
	}

	if err := h.munis.Record(staff.Municipality, activity); err != nil {
		h.logger.Errorw("Failed to record status activity", "municipality", staff.Municipality, "error", err)
		respondServiceError(w, err)
		return
	}

	h.logger.Infow("Complaint status updated",
		"complaint_id", complaint.ID,
		"status", status,
		"municipality", staff.Municipality,
	)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Complaint status updated",
		"activity": activity,
	})
}
