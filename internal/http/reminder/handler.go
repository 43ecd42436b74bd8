package reminder

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
)

const perPage = 15

type Handler struct {
	svc *reminder.Service
	now func() time.Time
}

func NewHandler(svc *reminder.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/upcoming", h.upcoming)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/complete", h.complete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := request.NewQuery(r)

	filter := reminder.ListFilter{
		CategoryID:  q.UUID("category_id"),
		IsCompleted: q.Bool("is_completed"),
		StartDate:   q.Date("start_date"),
		EndDate:     q.Date("end_date"),
	}

	if upcoming := q.Bool("upcoming"); upcoming != nil && *upcoming {
		now := h.now()
		filter.DueFrom = &now
	}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), request.UserID(r), filter, paging.FromQuery(q.Values(), perPage))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, paging.Map(page, toResponse))
}

type createRequest struct {
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	TransactionID *string `json:"transaction_id" validate:"omitempty,uuid"`
	Title         string  `json:"title" validate:"required,max=255"`
	Description   string  `json:"description"`
	DueDate       string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rem, err := h.svc.Create(r.Context(), request.UserID(r), reminder.CreateParams{
		CategoryID:    request.UUID(req.CategoryID),
		TransactionID: request.OptionalUUID(req.TransactionID),
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       request.Date(req.DueDate),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Reminder created successfully", toResponse(rem))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rem, err := h.svc.Get(r.Context(), request.UserID(r), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toResponse(rem))
}

type updateRequest struct {
	CategoryID    *string `json:"category_id" validate:"omitempty,uuid"`
	TransactionID *string `json:"transaction_id" validate:"omitempty,uuid"`
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description"`
	DueDate       *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	IsCompleted   *bool   `json:"is_completed"`
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

	rem, err := h.svc.Update(r.Context(), request.UserID(r), id, reminder.UpdateParams{
		CategoryID:    request.OptionalUUID(req.CategoryID),
		TransactionID: request.OptionalUUID(req.TransactionID),
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       request.OptionalDate(req.DueDate),
		IsCompleted:   req.IsCompleted,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Reminder updated successfully", toResponse(rem))
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

	respond.Message(w, "Reminder deleted successfully", nil)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rem, err := h.svc.Complete(r.Context(), request.UserID(r), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Reminder marked as completed", toResponse(rem))
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	rs, err := h.svc.Upcoming(r.Context(), request.UserID(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toResponseList(rs))
}
