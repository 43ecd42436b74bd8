package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const perPage = 15

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := request.NewQuery(r)

	filter := transaction.ListFilter{
		CategoryID: q.UUID("category_id"),
		StartDate:  q.Date("start_date"),
		EndDate:    q.Date("end_date"),
	}

	if s := q.Values().Get("type"); s != "" {
		typ := transaction.Type(s)
		filter.Type = &typ
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
	CategoryID  string           `json:"category_id" validate:"required,uuid"`
	Type        string           `json:"type" validate:"required,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Description string           `json:"description" validate:"max=255"`
}

func (req createRequest) params() transaction.CreateParams {
	return transaction.CreateParams{
		CategoryID:  request.UUID(req.CategoryID),
		Type:        transaction.Type(req.Type),
		Amount:      *req.Amount,
		Date:        request.Date(req.Date),
		Description: req.Description,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), request.UserID(r), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Transaction created successfully", toResponse(tx))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), request.UserID(r), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toResponse(tx))
}

type updateRequest struct {
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Type        *string          `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	Date        *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
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

	params := transaction.UpdateParams{
		CategoryID:  request.OptionalUUID(req.CategoryID),
		Amount:      req.Amount,
		Date:        request.OptionalDate(req.Date),
		Description: req.Description,
	}

	if req.Type != nil {
		typ := transaction.Type(*req.Type)
		params.Type = &typ
	}

	tx, err := h.svc.Update(r.Context(), request.UserID(r), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Transaction updated successfully", toResponse(tx))
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

	respond.Message(w, "Transaction deleted successfully", nil)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := request.NewQuery(r)
	start := q.RequiredDate("start_date")
	end := q.RequiredDate("end_date")

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.Summarize(r.Context(), request.UserID(r), start, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toSummary(s))
}
