package portalapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/company-portal/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *PortalClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPortalClient(srv.URL, "/api", 2*time.Second)
}

func TestNewPortalClient_BaseURL(t *testing.T) {
	c := NewPortalClient("http://localhost:8000/", "/api/", 0)
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
}

func TestSearchClients(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clients/search", r.URL.Path)
		assert.Equal(t, "north wind", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"id":3,"name":"Northwind Traders","owner":"","created_at":"2025-01-02 10:00:00"}]`))
	})

	clients, err := c.SearchClients(context.Background(), "north wind")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Northwind Traders", clients[0].Name)
	assert.Equal(t, 2025, clients[0].CreatedAt.Year())
}

func TestAssignClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/clients/9/assign", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"owner":"demo"}`, string(body))
		w.Write([]byte(`{"status":"ok"}`))
	})

	require.NoError(t, c.AssignClient(context.Background(), 9, "demo"))
}

func TestPutCalculator(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/assignees/3/calc/deductions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"data":{"retirement":1000,"health":0,"charity":50}}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.PutCalculator(context.Background(), 3, models.CalculatorDeductions, models.CalculatorUpdate{
		Data: map[string]json.Number{"retirement": "1000", "health": "0", "charity": "50"},
	})
	require.NoError(t, err)
}

func TestGetAssigneeOverview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"income_total":60000,"deductions_total":5000,"taxable_income":55000,"estimated_tax":13750,
			"inputs":{"income":{"salary":50000,"bonus":10000},"deductions":{"charity":5000}}}`))
	})

	o, err := c.GetAssigneeOverview(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "13750", o.EstimatedTax.String())
	assert.Equal(t, float64(50000), o.Inputs.Income["salary"])
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantDecode bool
	}{
		{"detail string", http.StatusNotFound, `{"detail":"Idea not found"}`, "Idea not found", false},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, "", false},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, "", false},
		{"malformed success body", http.StatusOK, `{"id":`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetAssignee(context.Background(), 1)
			require.Error(t, err)

			if tt.wantDecode {
				assert.ErrorIs(t, err, ErrDecode)
				return
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestDeleteIdea_CancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.DeleteIdea(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
