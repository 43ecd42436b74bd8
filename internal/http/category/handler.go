package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/category"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

const perPage = 15

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/statistics", h.statistics)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), request.UserID(r), paging.FromQuery(r.URL.Query(), perPage))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, paging.Map(page, toResponse))
}

type createRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Type        *string `json:"type" validate:"omitempty,oneof=income expense"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
	Icon        *string `json:"icon" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func categoryType(s *string) *category.Type {
	if s == nil {
		return nil
	}

	t := category.Type(*s)

	return &t
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), request.UserID(r), category.CreateParams{
		Name:        req.Name,
		Type:        categoryType(req.Type),
		Color:       req.Color,
		Icon:        req.Icon,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Category created successfully", toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), request.UserID(r), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toResponse(c))
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Type        *string `json:"type" validate:"omitempty,oneof=income expense"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
	Icon        *string `json:"icon" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), request.UserID(r), id, category.UpdateParams{
		Name:        req.Name,
		Type:        categoryType(req.Type),
		Color:       req.Color,
		Icon:        req.Icon,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Category updated successfully", toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), request.UserID(r), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Category deleted successfully", nil)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context(), request.UserID(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toStatistics(stats))
}
