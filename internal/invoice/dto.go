// AngelaMos | 2026
// dto.go

package invoice

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type LineItemRequest struct {
	Description string  `json:"description" validate:"required,min=1,max=200"`
	Quantity    float64 `json:"quantity"    validate:"gt=0,lte=1000000,cents"`
	UnitPrice   float64 `json:"unitPrice"   validate:"gt=0,lte=1000000,cents"`
}

type CreateInvoiceRequest struct {
	ClientName  string            `json:"clientName"  validate:"required,min=1,max=100"`
	ClientEmail string            `json:"clientEmail" validate:"required,email"`
	Amount      *float64          `json:"amount"      validate:"omitempty,gt=0,lte=1000000,cents"`
	Currency    string            `json:"currency"    validate:"required,len=3,alpha"`
	DueDate     string            `json:"dueDate"     validate:"required,duedate"`
	LineItems   []LineItemRequest `json:"lineItems"   validate:"required,min=1,dive"`
	Notes       *string           `json:"notes"       validate:"omitempty,max=500"`
}

type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}

// NewValidator reports field errors by their JSON names and knows the
// duedate and cents tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	//nolint:errcheck // tag name is static
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	})

	//nolint:errcheck // tag name is static
	_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		return HasCents(fl.Field().Float())
	})

	return v
}

func (r CreateInvoiceRequest) lineItems() []LineItem {
	items := make([]LineItem, len(r.LineItems))
	for i, li := range r.LineItems {
		items[i] = LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
		}
	}
	return items
}
