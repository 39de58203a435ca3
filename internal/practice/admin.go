package practice

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/eigo-practice/backend/internal/models"
)

// adminAuthorized checks the X-Admin-Token header against the
// bcrypt-hashed token in ADMIN_TOKEN_HASH. With no hash configured the
// admin surface is disabled entirely.
func adminAuthorized(r *http.Request) bool {
	hash := os.Getenv("ADMIN_TOKEN_HASH")
	if hash == "" {
		return false
	}
	token := r.Header.Get("X-Admin-Token")
	if token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// GetQuota handles GET /admin/quota/{key}.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Message: "Admin token required"})
		return
	}

	key := mux.Vars(r)["key"]
	status, err := h.service.QuotaStatus(key)
	if err != nil {
		log.Printf("[handler] GetQuota error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to read quota"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ResetQuota handles POST /admin/quota/{key}/reset. Support tooling
// only; not part of the learner flow.
func (h *Handler) ResetQuota(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Message: "Admin token required"})
		return
	}

	key := mux.Vars(r)["key"]
	if err := h.service.ResetQuota(key); err != nil {
		log.Printf("[handler] ResetQuota error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to reset quota"})
		return
	}

	status, err := h.service.QuotaStatus(key)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to read quota"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}
