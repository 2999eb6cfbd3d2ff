// AngelaMos | 2026
// handler.go

package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
)

const (
	msgInvalidPagination = "Invalid pagination parameters"
	msgInvalidID         = "Invalid invoice ID"
	msgInvalidBody       = "Invalid request body"
	msgValidation        = "Validation error"
	msgCreated           = "Invoice created successfully"
	msgDeleted           = "Invoice deleted successfully"
	resourceInvoice      = "Invoice"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// RegisterRoutes mounts the invoice endpoints behind requireUser.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	requireUser func(http.Handler) http.Handler,
) {
	r.Route("/invoices", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/pdf", h.Export)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := ParsePage(q.Get("page"), q.Get("limit"))
	if err != nil {
		core.BadRequest(w, msgInvalidPagination)
		return
	}

	invoices, total, err := h.service.List(
		r.Context(),
		middleware.GetUserID(r.Context()),
		page,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, invoices, page.Page, page.Limit, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(
			msgValidation,
			core.FormatValidationError(err),
		))
		return
	}

	inv, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.JSONError(w, core.ValidationError(msgValidation, nil))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "invoice created",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"user_id", inv.UserID,
	)

	core.Created(w, inv, msgCreated)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	core.OK(w, inv)
}

// Export streams the plain-text rendition as an attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}

	body, err := Render(inv)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", AttachmentName(inv))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(body)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, core.Response{
		Success: true,
		Message: msgDeleted,
	})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Invoice, bool) {
	inv, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		h.writeLookupError(w, err)
		return nil, false
	}
	return inv, true
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, msgInvalidID)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resourceInvoice)
	default:
		core.InternalServerError(w, err)
	}
}
