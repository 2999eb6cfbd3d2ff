// AngelaMos | 2026
// service.go

package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/metrics"
)

const (
	tracerName = "invoice-backend/invoice"

	// numberRetries bounds regeneration after an invoice_number collision.
	numberRetries = 3
)

var ErrNumberExhausted = errors.New("could not allocate a unique invoice number")

type Service struct {
	repo    Repository
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(
	repo Repository,
	queryTimeout time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		timeout: queryTimeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Create builds an invoice owned by ownerID from an already validated
// request. Free text is sanitized, line totals and the amount are derived,
// and the status is set from the due date.
func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	req CreateInvoiceRequest,
) (*Invoice, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "invoice.Create",
		attribute.String("user.id", ownerID),
		attribute.Int("invoice.line_items", len(req.LineItems)),
	)
	defer span.End()

	dueDate, err := ParseDueDate(req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}

	now := s.now().UTC()

	items := req.lineItems()
	for i := range items {
		items[i].Description = core.SanitizeText(strings.TrimSpace(items[i].Description))
		if items[i].ID, err = core.NewID(); err != nil {
			return nil, err
		}
	}
	items = PriceLineItems(items)

	id, err := core.NewID()
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		ID:          id,
		ClientName:  core.SanitizeText(strings.TrimSpace(req.ClientName)),
		ClientEmail: core.SanitizeText(strings.ToLower(strings.TrimSpace(req.ClientEmail))),
		Amount:      ResolveAmount(req.Amount, items),
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:      DeriveStatus(dueDate, now),
		IssueDate:   now,
		DueDate:     dueDate,
		LineItems:   items,
		Notes:       sanitizeNotes(req.Notes),
		UserID:      ownerID,
	}

	for attempt := 0; ; attempt++ {
		inv.InvoiceNumber, err = GenerateNumber(now)
		if err != nil {
			return nil, err
		}

		err = s.insert(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, core.ErrDuplicateKey) {
			core.SetSpanError(ctx, err)
			return nil, err
		}
		if attempt >= numberRetries {
			core.SetSpanError(ctx, err)
			return nil, fmt.Errorf("%w: %w", ErrNumberExhausted, err)
		}

		core.AddSpanEvent(ctx, "invoice.number_collision",
			attribute.String("invoice.number", inv.InvoiceNumber),
		)
		s.logger.WarnContext(ctx, "invoice number collision",
			"invoice_number", inv.InvoiceNumber,
			"attempt", attempt+1,
		)
	}

	metrics.RecordInvoiceCreated(string(inv.Status))
	span.SetAttributes(attribute.String("invoice.number", inv.InvoiceNumber))

	return inv, nil
}

func (s *Service) insert(ctx context.Context, inv *Invoice) error {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	return s.repo.Create(ctx, inv)
}

func sanitizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	clean := core.SanitizeText(trimmed)
	return &clean
}

// Get returns the invoice only when ownerID owns it. Missing and foreign
// invoices both yield core.ErrNotFound.
func (s *Service) Get(
	ctx context.Context,
	ownerID, id string,
) (*Invoice, error) {
	if !core.IsID(id) {
		return nil, fmt.Errorf("invoice id: %w", core.ErrInvalidInput)
	}

	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	return s.repo.GetForOwner(ctx, strings.ToLower(id), ownerID)
}

func (s *Service) List(
	ctx context.Context,
	ownerID string,
	page Page,
) ([]Invoice, int, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "invoice.List",
		attribute.String("user.id", ownerID),
		attribute.Int("page", page.Page),
		attribute.Int("limit", page.Limit),
	)
	defer span.End()

	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	invoices, total, err := s.repo.ListForOwner(ctx, ownerID, page.Limit, page.Offset())
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, 0, err
	}
	return invoices, total, nil
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	ownerID, id string,
	status Status,
) (*Invoice, error) {
	if !core.IsID(id) || !status.Valid() {
		return nil, fmt.Errorf("update invoice status: %w", core.ErrInvalidInput)
	}
	id = strings.ToLower(id)

	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	if err := s.repo.UpdateStatus(ctx, id, ownerID, status); err != nil {
		return nil, err
	}
	return s.repo.GetForOwner(ctx, id, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if !core.IsID(id) {
		return fmt.Errorf("invoice id: %w", core.ErrInvalidInput)
	}

	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	return s.repo.Delete(ctx, strings.ToLower(id), ownerID)
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{ByStatus: map[Status]int{
		StatusPaid:    counts[StatusPaid],
		StatusPending: counts[StatusPending],
		StatusOverdue: counts[StatusOverdue],
	}}
	for _, n := range counts {
		resp.Total += n
	}
	return resp, nil
}
