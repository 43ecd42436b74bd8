package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		respond.Error(w, r, apperr.Invalid("description", "The description field is required."))
		return
	}

	categoryID, err := h.svc.Suggest(r.Context(), request.UserID(r), desc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, suggestResponse{Description: desc, CategoryID: categoryID})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern" validate:"required,max=255"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Learn(r.Context(), request.UserID(r), req.RawPattern, request.UUID(req.CategoryID)); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Rule created successfully", nil)
}
