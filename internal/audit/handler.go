package audit

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ironwill-app/ironwill/internal/auth"
	"github.com/ironwill-app/ironwill/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goalID, err := uuid.Parse(chi.URLParam(r, "goalId"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Read one byte past the cap so the service can tell oversized from
	// exactly-at-the-limit.
	data, err := io.ReadAll(io.LimitReader(file, MaxProofBytes+1))
	if err != nil {
		log.WithError(err).Error("Failed to read proof upload")
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	proof := Proof{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}

	userID := uuid.MustParse(claims.UserID)
	response, err := h.service.Submit(r.Context(), userID, goalID, proof)
	if err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, ErrGoalLocked):
			http.Error(w, "goal locked", http.StatusLocked)
		case errors.Is(err, ErrInvalidProof):
			http.Error(w, "invalid proof file", http.StatusBadRequest)
		case errors.Is(err, ErrDuplicateAudit):
			http.Error(w, "audit already submitted", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to process audit submission")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goalID, err := uuid.Parse(chi.URLParam(r, "goalId"))
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	userID := uuid.MustParse(claims.UserID)
	rec, err := h.service.FindToday(r.Context(), userID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, ErrAuditNotFound):
			http.Error(w, "no audit for today", http.StatusNotFound)
		default:
			log.WithError(err).Error("Failed to load today's audit")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, rec)
}
