// AngelaMos | 2026
// handler_test.go

package invoice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
)

const testUserHeader = "X-Test-User"

func fakeRequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(testUserHeader)
		if id == "" {
			core.Unauthorized(w, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
	})
}

func newTestRouter(t *testing.T) (http.Handler, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	h := NewHandler(newTestService(repo), nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, fakeRequireUser)
	})
	return r, repo
}

func do(
	t *testing.T,
	router http.Handler,
	method, path, user, body string,
) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Details    []core.FieldError `json:"details"`
	Pagination *core.Pagination  `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

const createBody = `{
	"clientName": "Acme",
	"clientEmail": "billing@acme.test",
	"currency": "EUR",
	"dueDate": "2026-04-15",
	"notes": "Thanks",
	"lineItems": [{"description": "Design", "quantity": 2, "unitPrice": 100}]
}`

func createInvoice(t *testing.T, router http.Handler, user string) Invoice {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/invoices", user, createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decode(t, rec)
	var inv Invoice
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	return inv
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/invoices", ownerA, createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Invoice created successfully", env.Message)

	var inv Invoice
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, 200.0, inv.Amount)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Equal(t, ownerA, inv.UserID)
}

func TestHandlerCreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"clientName": "", "clientEmail": "x", "currency": "EURO",
		"dueDate": "2026-04-15", "lineItems": []}`
	rec := do(t, router, http.MethodPost, "/api/invoices", ownerA, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation error", env.Error)

	fields := make(map[string]bool)
	for _, d := range env.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["clientName"])
	assert.True(t, fields["clientEmail"])
	assert.True(t, fields["currency"])
	assert.True(t, fields["lineItems"])
}

func TestHandlerCreateSubCentValues(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"clientName": "Acme", "clientEmail": "billing@acme.test",
		"currency": "EUR", "dueDate": "2026-04-15", "amount": 0.001,
		"lineItems": [{"description": "Bolts", "quantity": 0.004, "unitPrice": 0.335}]}`
	rec := do(t, router, http.MethodPost, "/api/invoices", ownerA, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := make(map[string]string)
	for _, d := range decode(t, rec).Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "must have at most 2 decimal places", fields["amount"])
	assert.Contains(t, fields, "lineItems[0].quantity")
	assert.Contains(t, fields, "lineItems[0].unitPrice")
}

func TestHandlerCreateFractionalTotals(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"clientName": "Acme", "clientEmail": "billing@acme.test",
		"currency": "EUR", "dueDate": "2026-04-15",
		"lineItems": [{"description": "Bolts", "quantity": 1.5, "unitPrice": 0.33}]}`
	rec := do(t, router, http.MethodPost, "/api/invoices", ownerA, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var inv Invoice
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &inv))
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, 0.495, inv.LineItems[0].Total)
	assert.Equal(t, 0.495, inv.Amount)
}

func TestHandlerCreateMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/invoices", ownerA, `{"clientName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRequiresUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/invoices", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerListPagination(t *testing.T) {
	router, _ := newTestRouter(t)
	for range 12 {
		createInvoice(t, router, ownerA)
	}

	rec := do(t, router, http.MethodGet, "/api/invoices", ownerA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, core.Pagination{Page: 1, Limit: 5, Total: 12, TotalPages: 3}, *env.Pagination)

	var page []Invoice
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 5)

	rec = do(t, router, http.MethodGet, "/api/invoices?page=4&limit=5", ownerA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decode(t, rec)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, 12, env.Pagination.Total)

	for _, q := range []string{
		"page=0",
		"limit=0",
		"limit=101",
		"page=x",
		"page=100000000000000000&limit=100",
	} {
		rec = do(t, router, http.MethodGet, "/api/invoices?"+q, ownerA, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "Invalid pagination parameters", decode(t, rec).Error)
	}
}

func TestHandlerGetAndOwnership(t *testing.T) {
	router, _ := newTestRouter(t)
	inv := createInvoice(t, router, ownerA)

	rec := do(t, router, http.MethodGet, "/api/invoices/"+inv.ID, ownerA, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/invoices/"+inv.ID, ownerB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invoice not found", decode(t, rec).Error)

	rec = do(t, router, http.MethodGet, "/api/invoices/bogus", ownerA, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid invoice ID", decode(t, rec).Error)
}

func TestHandlerExport(t *testing.T) {
	router, _ := newTestRouter(t)
	inv := createInvoice(t, router, ownerA)

	rec := do(t, router, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", ownerA, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		fmt.Sprintf(`attachment; filename="invoice-%s.txt"`, inv.InvoiceNumber),
		rec.Header().Get("Content-Disposition"),
	)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "INVOICE "+inv.InvoiceNumber)
	assert.Contains(t, rec.Body.String(), "Design - Qty: 2 - Price: EUR 100.00 - Total: EUR 200.00")

	rec = do(t, router, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", ownerB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	inv := createInvoice(t, router, ownerA)
	path := "/api/invoices/" + inv.ID

	rec := do(t, router, http.MethodPatch, path+"/status", ownerA, `{"status":"paid"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "status is not writable over HTTP")

	rec = do(t, router, http.MethodDelete, path, ownerB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, path, ownerA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Invoice deleted successfully", decode(t, rec).Message)

	rec = do(t, router, http.MethodGet, path, ownerA, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
