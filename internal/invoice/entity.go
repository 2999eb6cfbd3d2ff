// AngelaMos | 2026
// entity.go

package invoice

import (
	"time"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusOverdue:
		return true
	}
	return false
}

type LineItem struct {
	ID          string  `db:"id"          json:"-"`
	InvoiceID   string  `db:"invoice_id"  json:"-"`
	Position    int     `db:"position"    json:"-"`
	Description string  `db:"description" json:"description"`
	Quantity    float64 `db:"quantity"    json:"quantity"`
	UnitPrice   float64 `db:"unit_price"  json:"unitPrice"`
	Total       float64 `db:"total"       json:"total"`
}

type Invoice struct {
	ID            string     `db:"id"             json:"id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoiceNumber"`
	ClientName    string     `db:"client_name"    json:"clientName"`
	ClientEmail   string     `db:"client_email"   json:"clientEmail"`
	Amount        float64    `db:"amount"         json:"amount"`
	Currency      string     `db:"currency"       json:"currency"`
	Status        Status     `db:"status"         json:"status"`
	IssueDate     time.Time  `db:"issue_date"     json:"issueDate"`
	DueDate       time.Time  `db:"due_date"       json:"dueDate"`
	LineItems     []LineItem `db:"-"              json:"lineItems"`
	Notes         *string    `db:"notes"          json:"notes,omitempty"`
	UserID        string     `db:"user_id"        json:"userId"`
	CreatedAt     time.Time  `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updatedAt"`
}
