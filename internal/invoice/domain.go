// AngelaMos | 2026
// domain.go

package invoice

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int for every accepted limit.
	MaxPage = math.MaxInt32

	numberSuffixLen = 5
	numberAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	dateOnlyLayout  = "2006-01-02"
)

var (
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidDueDate    = errors.New("invalid due date")
)

// DeriveStatus is computed once at creation; stored invoices keep their
// status until it is explicitly changed.
func DeriveStatus(dueDate, now time.Time) Status {
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// PriceLineItems returns a copy of items with each total set to
// quantity times unit price. Both factors carry at most two decimals, so
// the product is exact at four.
func PriceLineItems(items []LineItem) []LineItem {
	priced := make([]LineItem, len(items))
	for i, item := range items {
		item.Total = roundScale(item.Quantity * item.UnitPrice)
		item.Position = i
		priced[i] = item
	}
	return priced
}

// ResolveAmount keeps an explicit amount and otherwise sums the line totals.
func ResolveAmount(explicit *float64, items []LineItem) float64 {
	if explicit != nil {
		return *explicit
	}

	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return roundScale(sum)
}

// roundScale drops binary float noise below the fourth decimal.
func roundScale(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// HasCents reports whether v has no more than two decimal places.
func HasCents(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// GenerateNumber returns INV-<unix millis>-<5 uppercase base36 chars>. The
// random suffix keeps numbers apart when several are minted in the same
// millisecond.
func GenerateNumber(now time.Time) (string, error) {
	var b strings.Builder
	b.Grow(numberSuffixLen)

	base := big.NewInt(int64(len(numberAlphabet)))
	for range numberSuffixLen {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate invoice number: %w", err)
		}
		b.WriteByte(numberAlphabet[n.Int64()])
	}

	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), b.String()), nil
}

// ParseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDueDate
	}

	for _, layout := range []string{time.RFC3339Nano, dateOnlyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads raw page and limit query values. Empty values take the
// defaults; anything unparsable or out of range is rejected.
func ParsePage(rawPage, rawLimit string) (Page, error) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return Page{}, ErrInvalidPagination
		}
		p.Page = n
	}

	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil {
			return Page{}, ErrInvalidPagination
		}
		p.Limit = n
	}

	if p.Page < 1 || p.Page > MaxPage || p.Limit < 1 || p.Limit > MaxLimit {
		return Page{}, ErrInvalidPagination
	}
	return p, nil
}
