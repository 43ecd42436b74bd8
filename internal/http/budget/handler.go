package budget

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

const perPage = 10

type Handler struct {
	svc *budget.Service
	now func() time.Time
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := request.NewQuery(r)

	filter := budget.ListFilter{CategoryID: q.UUID("category_id")}

	if q.Has("active") {
		y, m, d := h.now().Date()
		activeOn := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		filter.ActiveOn = &activeOn
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

	respond.OK(w, paging.Map(page, toTrackedResponse))
}

type createRequest struct {
	CategoryID  string           `json:"category_id" validate:"required,uuid"`
	Period      string           `json:"period" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	StartDate   string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	Description string           `json:"description" validate:"max=255"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Create(r.Context(), request.UserID(r), budget.CreateParams{
		CategoryID:  request.UUID(req.CategoryID),
		Period:      budget.Period(req.Period),
		StartDate:   request.Date(req.StartDate),
		EndDate:     request.Date(req.EndDate),
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Budget created successfully", toResponse(b))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Show(r.Context(), request.UserID(r), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, toShowResponse(t))
}

type updateRequest struct {
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Period      *string          `json:"period" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	StartDate   *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
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

	params := budget.UpdateParams{
		CategoryID:  request.OptionalUUID(req.CategoryID),
		StartDate:   request.OptionalDate(req.StartDate),
		EndDate:     request.OptionalDate(req.EndDate),
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.Period != nil {
		period := budget.Period(*req.Period)
		params.Period = &period
	}

	b, err := h.svc.Update(r.Context(), request.UserID(r), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Budget updated successfully", toResponse(b))
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

	respond.Message(w, "Budget deleted successfully", nil)
}
