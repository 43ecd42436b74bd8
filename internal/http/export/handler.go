package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Get("/digest", h.digest)
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := request.NewQuery(r)
	start := q.RequiredDate("start_date")
	end := q.RequiredDate("end_date")

	return start, end, q.Err()
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.Collect(r.Context(), request.UserID(r), start, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// Rendered up front so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"statement_%s_%s.csv\"",
		start.Format("20060102"), end.Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

type digestResponse struct {
	Count int    `json:"count"`
	Body  string `json:"body"`
}

func (h *Handler) digest(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.Collect(r.Context(), request.UserID(r), start, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, digestResponse{Count: len(txs), Body: export.Digest(txs)})
}
