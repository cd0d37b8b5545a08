package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finchat/internal/core"
	"finchat/internal/lexicon"
	"finchat/internal/parser"
	"finchat/internal/report"
	"finchat/internal/resolver"
	"finchat/internal/responder"
	"finchat/internal/services"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type memStore struct {
	transactions []core.Transaction // most recent first
	nextID       int64
}

func (m *memStore) Create(_ context.Context, txType core.TransactionType, amount core.Money, categoryID *int64, description string, date time.Time) (int64, error) {
	m.nextID++
	m.transactions = append([]core.Transaction{{
		ID:          m.nextID,
		Type:        txType,
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
	}}, m.transactions...)
	return m.nextID, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	for i, t := range m.transactions {
		if t.ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) ListByDateRange(_ context.Context, start, end time.Time) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if !t.Date.Before(start) && !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListMostRecent(_ context.Context, n int) ([]core.Transaction, error) {
	if n > len(m.transactions) {
		n = len(m.transactions)
	}
	return m.transactions[:n], nil
}

func (m *memStore) UpdateAmount(_ context.Context, id int64, amount core.Money) error {
	for i, t := range m.transactions {
		if t.ID == id {
			m.transactions[i].Amount = amount
		}
	}
	return nil
}

func newTestServer(store *memStore) *Server {
	lex := lexicon.New([]core.Category{
		{ID: 1, Name: "Food", Type: core.Expense, Keywords: []string{"lunch", "food"}},
	})
	clock := func() time.Time { return testNow }
	reports := report.NewWithClock(store, clock)
	chat := services.NewChatService(
		parser.New(lex, parser.WithClock(clock)),
		store,
		resolver.New(store),
		reports,
		responder.New(nil),
		nil,
	)
	return NewServer(":0", chat, reports)
}

func TestHandleChat_RecordTransaction(t *testing.T) {
	store := &memStore{}
	s := newTestServer(store)
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"I spent 45.50 on lunch"}`))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Intent != parser.RecordTransaction {
		t.Errorf("intent = %v, want record_transaction", resp.Intent)
	}
	if !strings.Contains(resp.Response, "Recorded: 45.50 pesos") {
		t.Errorf("response = %q", resp.Response)
	}
	if len(store.transactions) != 1 {
		t.Errorf("stored %d transactions, want 1", len(store.transactions))
	}
}

func TestHandleChat_BadRequests(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: `{"message":`},
		{name: "empty message", body: `{"message":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleSummary(t *testing.T) {
	catID := int64(1)
	store := &memStore{
		transactions: []core.Transaction{
			{ID: 1, Type: core.Expense, Amount: core.Money{Cents: 4550}, CategoryID: &catID, CategoryName: "Food", Date: testNow.Add(-time.Hour)},
		},
		nextID: 1,
	}
	s := newTestServer(store)
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/summary/month", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.TotalExpenses != 45.50 {
		t.Errorf("total_expenses = %v, want 45.50", resp.TotalExpenses)
	}
	if len(resp.ByCategory) != 1 || resp.ByCategory[0].Name != "Food" {
		t.Errorf("by_category = %+v", resp.ByCategory)
	}
	if resp.Charts["categories"] == nil || resp.Charts["comparison"] == nil {
		t.Errorf("charts = %v, want categories and comparison", resp.Charts)
	}
}

func TestHandleSummary_UnknownPeriod(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/summary/decade", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSummary_CacheInvalidatedByChat(t *testing.T) {
	store := &memStore{}
	s := newTestServer(store)
	defer s.Shutdown(context.Background())

	fetch := func() summaryResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/summary/today", nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp summaryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		return resp
	}

	if got := fetch(); got.TotalExpenses != 0 {
		t.Fatalf("initial total_expenses = %v, want 0", got.TotalExpenses)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"spent 100 on lunch"}`))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, want 200", rec.Code)
	}

	if got := fetch(); got.TotalExpenses != 100 {
		t.Errorf("total_expenses after record = %v, want 100 (stale cache?)", got.TotalExpenses)
	}
}

func TestHandleRecentTransactions(t *testing.T) {
	store := &memStore{
		transactions: []core.Transaction{
			{ID: 2, Type: core.Savings, Amount: core.Money{Cents: 10000}, CategoryName: "Salary", Date: testNow.Add(-time.Hour)},
			{ID: 1, Type: core.Expense, Amount: core.Money{Cents: 4550}, CategoryName: "Food", Date: testNow.Add(-2 * time.Hour)},
		},
		nextID: 2,
	}
	s := newTestServer(store)
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/recent?limit=1", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Transactions []transactionView `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].ID != 2 {
		t.Errorf("transactions = %+v, want the most recent record only", resp.Transactions)
	}
}

func TestHandleRecentTransactions_InvalidLimit(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/recent?limit=0", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&memStore{})
	defer s.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
