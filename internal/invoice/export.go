// AngelaMos | 2026
// export.go

package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

var exportTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.UTC().Format(dateOnlyLayout) },
	"upper": func(s Status) string { return strings.ToUpper(string(s)) },
	"qty":   formatQuantity,
	"money": formatMoney,
}).Parse(`INVOICE {{.InvoiceNumber}}

Client: {{.ClientName}}
Email: {{.ClientEmail}}
Issue Date: {{date .IssueDate}}
Due Date: {{date .DueDate}}
Status: {{upper .Status}}

Line Items:
{{range .LineItems}}{{.Description}} - Qty: {{qty .Quantity}} - Price: {{money $.Currency .UnitPrice}} - Total: {{money $.Currency .Total}}
{{end}}
Total Amount: {{money .Currency .Amount}}
Currency: {{.Currency}}
{{with .Notes}}
Notes: {{.}}
{{end}}`))

// Render produces the downloadable plain-text document for inv.
func Render(inv *Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := exportTemplate.Execute(&buf, inv); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func AttachmentName(inv *Invoice) string {
	return fmt.Sprintf(`attachment; filename="invoice-%s.txt"`, inv.InvoiceNumber)
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}

// formatMoney prints two decimals, or four when a line total carries
// fractions of a cent.
func formatMoney(currency string, v float64) string {
	if HasCents(v) {
		return fmt.Sprintf("%s %.2f", currency, v)
	}
	return fmt.Sprintf("%s %.4f", currency, v)
}
