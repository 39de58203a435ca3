package practice

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/eigo-practice/backend/internal/middleware"
	"github.com/eigo-practice/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateProblem handles POST /practice/problem.
func (h *Handler) GenerateProblem(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
		return
	}

	raw := req.RawDifficulty()
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Message: "difficultyLevel is required",
			Hint:    "accepted values: " + models.AcceptedDifficultySpellings(),
		})
		return
	}

	level, ok := models.NormalizeDifficulty(raw)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Message: "unknown difficulty level: " + raw,
			Hint:    "accepted values: " + models.AcceptedDifficultySpellings(),
		})
		return
	}

	key := middleware.IdentityKey(r)

	resp, err := h.service.GenerateProblem(r.Context(), key, level)
	if err != nil {
		var qe *QuotaExceededError
		if errors.As(err, &qe) {
			writeJSON(w, http.StatusTooManyRequests, models.QuotaExceededResponse{
				Message:           "本日の制限回数に達しました。明日またご利用ください。",
				DailyLimitReached: true,
				CurrentCount:      qe.Count,
				DailyLimit:        qe.Limit,
			})
			return
		}
		log.Printf("[handler] GenerateProblem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to generate problem"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// EvaluateTranslation handles POST /practice/evaluate. Internal
// failures degrade to fallback content inside the service; only
// malformed input produces a non-200 here.
func (h *Handler) EvaluateTranslation(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
		return
	}

	sentence := strings.TrimSpace(req.JapaneseSentence)
	translation := strings.TrimSpace(req.RawTranslation())

	if sentence == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "japaneseSentence is required"})
		return
	}
	if translation == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Message: "userTranslation is required",
			Hint:    "the translation may also be sent as userAnswer or answer",
		})
		return
	}

	level, ok := models.NormalizeDifficulty(req.RawDifficulty())
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Message: "unknown difficulty level: " + req.RawDifficulty(),
			Hint:    "accepted values: " + models.AcceptedDifficultySpellings(),
		})
		return
	}

	result := h.service.EvaluateTranslation(r.Context(), sentence, translation, level)
	writeJSON(w, http.StatusOK, result)
}

// QuotaStatus handles GET /practice/quota.
func (h *Handler) QuotaStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.QuotaStatus(middleware.IdentityKey(r))
	if err != nil {
		log.Printf("[handler] QuotaStatus error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to read quota"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
