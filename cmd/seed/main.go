// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/invoice"
	"github.com/carterperez-dev/templates/invoice-backend/internal/migrations"
	"github.com/carterperez-dev/templates/invoice-backend/internal/user"
)

const demoPassword = "Pass@1234"

func main() {
	configPath := flag.String("config", "", "path to config file")
	reset := flag.Bool("reset", false, "delete all users and invoices first")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *reset, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, reset bool, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit

	if err := migrations.Up(ctx, db.DB.DB); err != nil {
		return err
	}

	if reset {
		if _, err := db.DB.ExecContext(ctx,
			`TRUNCATE invoice_line_items, invoices, users`); err != nil {
			return fmt.Errorf("reset tables: %w", err)
		}
		logger.Info("cleared existing data")
	}

	users := user.NewService(user.NewRepository(db.DB), cfg.Database.QueryTimeout)

	admin, err := ensureUser(ctx, users, user.CreateUserRequest{
		Email:    "admin@fintech.com",
		Password: demoPassword,
		Name:     "Admin User",
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return err
	}

	if _, err := ensureUser(ctx, users, user.CreateUserRequest{
		Email:    "accountant@fintech.com",
		Password: demoPassword,
		Name:     "Accountant User",
		Role:     user.RoleAccountant,
	}); err != nil {
		return err
	}
	logger.Info("demo users ready")

	repo := invoice.NewRepository(db.DB)
	created := 0
	for _, demo := range demoInvoices() {
		inv, err := demo.build(admin)
		if err != nil {
			return err
		}

		err = repo.Create(ctx, inv)
		if errors.Is(err, core.ErrDuplicateKey) {
			logger.Info("invoice exists, skipping", "invoice_number", inv.InvoiceNumber)
			continue
		}
		if err != nil {
			return err
		}
		created++
	}

	logger.Info("seed complete",
		"invoices_created", created,
		"login", "admin@fintech.com / "+demoPassword,
	)
	return nil
}

func ensureUser(
	ctx context.Context,
	svc *user.Service,
	req user.CreateUserRequest,
) (string, error) {
	u, err := svc.Create(ctx, req)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, core.ErrDuplicateKey) {
		return "", fmt.Errorf("seed user %s: %w", req.Email, err)
	}

	existing, err := svc.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("seed user %s: %w", req.Email, err)
	}
	return existing.ID, nil
}

type demoInvoice struct {
	number    string
	client    string
	email     string
	status    invoice.Status
	issued    string
	due       string
	item      string
	quantity  float64
	unitPrice float64
	notes     string
}

func (d demoInvoice) build(ownerID string) (*invoice.Invoice, error) {
	id, err := core.NewID()
	if err != nil {
		return nil, err
	}
	itemID, err := core.NewID()
	if err != nil {
		return nil, err
	}

	issued, err := invoice.ParseDueDate(d.issued)
	if err != nil {
		return nil, err
	}
	due, err := invoice.ParseDueDate(d.due)
	if err != nil {
		return nil, err
	}

	items := invoice.PriceLineItems([]invoice.LineItem{{
		ID:          itemID,
		Description: d.item,
		Quantity:    d.quantity,
		UnitPrice:   d.unitPrice,
	}})
	notes := d.notes

	return &invoice.Invoice{
		ID:            id,
		InvoiceNumber: d.number,
		ClientName:    d.client,
		ClientEmail:   d.email,
		Amount:        invoice.ResolveAmount(nil, items),
		Currency:      "INR",
		Status:        d.status,
		IssueDate:     issued,
		DueDate:       due,
		LineItems:     items,
		Notes:         &notes,
		UserID:        ownerID,
	}, nil
}

func demoInvoices() []demoInvoice {
	return []demoInvoice{
		{
			number: "INV-001-2025", client: "Tech Solutions Inc.",
			email: "billing@techsolutions.com", status: invoice.StatusPaid,
			issued: "2025-01-01", due: "2025-01-15",
			item: "Web Development Services", quantity: 40, unitPrice: 62.50,
			notes: "Payment received on time",
		},
		{
			number: "INV-002-2025", client: "Marketing Pro LLC",
			email: "accounts@marketingpro.com", status: invoice.StatusPending,
			issued: "2025-01-15", due: "2025-02-15",
			item: "Digital Marketing Campaign", quantity: 1, unitPrice: 1800,
			notes: "Campaign completed successfully",
		},
		{
			number: "INV-003-2025", client: "Global Consulting Group",
			email: "finance@globalconsulting.com", status: invoice.StatusOverdue,
			issued: "2025-01-01", due: "2025-01-10",
			item: "Strategic Consulting Services", quantity: 50, unitPrice: 100,
			notes: "Follow up required",
		},
		{
			number: "INV-004-2025", client: "Startup Ventures",
			email: "billing@startupventures.com", status: invoice.StatusPaid,
			issued: "2025-01-20", due: "2025-02-01",
			item: "Mobile App Development", quantity: 1, unitPrice: 3200,
			notes: "Project delivered on time",
		},
		{
			number: "INV-005-2025", client: "E-commerce Solutions",
			email: "accounts@ecommercesolutions.com", status: invoice.StatusPending,
			issued: "2025-02-01", due: "2025-03-01",
			item: "E-commerce Platform Development", quantity: 1, unitPrice: 4200,
			notes: "Platform under development",
		},
		{
			number: "INV-006-2025", client: "Data Analytics Corp",
			email: "billing@dataanalytics.com", status: invoice.StatusOverdue,
			issued: "2025-01-05", due: "2025-01-20",
			item: "Data Analysis Services", quantity: 35, unitPrice: 80,
			notes: "Analysis report delivered",
		},
	}
}
