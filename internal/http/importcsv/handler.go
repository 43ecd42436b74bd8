package importcsv

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
	r.Post("/confirm", h.confirm)
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		CategoryID:  tx.CategoryID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}

// entryDTO is a transaction draft, both in conflict responses and confirm requests.
type entryDTO struct {
	CategoryID  string           `json:"category_id" validate:"required,uuid"`
	Type        string           `json:"type" validate:"required,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Description string           `json:"description" validate:"max=255"`
}

func toEntryDTO(p transaction.CreateParams) entryDTO {
	return entryDTO{
		CategoryID:  p.CategoryID.String(),
		Type:        string(p.Type),
		Amount:      &p.Amount,
		Date:        p.Date.Format(time.DateOnly),
		Description: p.Description,
	}
}

func (e entryDTO) params() transaction.CreateParams {
	return transaction.CreateParams{
		CategoryID:  request.UUID(e.CategoryID),
		Type:        transaction.Type(e.Type),
		Amount:      *e.Amount,
		Date:        request.Date(e.Date),
		Description: e.Description,
	}
}

type importedResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

func toImported(txs []*transaction.Transaction) importedResponse {
	resp := importedResponse{
		Imported:     len(txs),
		Transactions: make([]transactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, toTxResponse(tx))
	}

	return resp
}

type conflictDTO struct {
	Incoming entryDTO            `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type conflictResponse struct {
	New       []entryDTO    `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

func toConflicts(result *transaction.ImportResult) conflictResponse {
	resp := conflictResponse{
		New:       make([]entryDTO, 0, len(result.New)),
		Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
	}
	for _, p := range result.New {
		resp.New = append(resp.New, toEntryDTO(p))
	}

	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictDTO{
			Incoming: toEntryDTO(c.Incoming),
			Existing: toTxResponse(c.Existing),
		})
	}

	return resp
}

// importStatement takes a multipart upload with "file", an optional "format"
// (defaults to the file extension) and an optional fallback "category_id".
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, r, apperr.Invalid("file", "The file field must be a multipart upload."))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Invalid("file", "The file field is required."))
		return
	}
	defer file.Close()

	name := r.FormValue("format")
	if name == "" {
		name = filepath.Ext(header.Filename)
	}

	format, err := importer.ParseFormat(name)
	if err != nil {
		respond.Error(w, r, apperr.Invalid("format", "The selected format is invalid."))
		return
	}

	var fallback *uuid.UUID

	if s := r.FormValue("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, r, apperr.Invalid("category_id", "The category id field must be a valid UUID."))
			return
		}

		fallback = &id
	}

	result, err := h.svc.Import(r.Context(), request.UserID(r), format, file, fallback)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		respond.Status(w, http.StatusConflict, "Some transactions already exist", toConflicts(result))
		return
	}

	respond.Created(w, "Statement imported successfully", toImported(result.Imported))
}

type confirmRequest struct {
	Transactions []entryDTO `json:"transactions" validate:"required,min=1,dive"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Transactions))
	for _, e := range req.Transactions {
		params = append(params, e.params())
	}

	txs, err := h.svc.Confirm(r.Context(), request.UserID(r), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "Transactions imported successfully", toImported(txs))
}
