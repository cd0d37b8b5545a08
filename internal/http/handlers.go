package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"finchat/internal/chart"
	"finchat/internal/core"
	"finchat/internal/parser"
	"finchat/internal/report"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string       `json:"response"`
	Intent   parser.Kind  `json:"intent"`
	Chart    *chart.Chart `json:"chart,omitempty"`
}

type summaryResponse struct {
	Period        parser.Period           `json:"period"`
	Start         string                  `json:"start"`
	End           string                  `json:"end"`
	TotalExpenses float64                 `json:"total_expenses"`
	TotalSavings  float64                 `json:"total_savings"`
	Net           float64                 `json:"net"`
	ByCategory    []categoryBreakdown     `json:"by_category"`
	Charts        map[string]*chart.Chart `json:"charts"`
	Text          string                  `json:"text"`
}

type categoryBreakdown struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type transactionView struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply, err := s.chat.Handle(r.Context(), req.Message)
	if errors.Is(err, core.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to handle chat message", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if mutatingIntents[reply.Intent] {
		s.invalidateSummaries()
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Text,
		Intent:   reply.Intent,
		Chart:    reply.Chart,
	})
}

// summaryPeriods maps the URL segment to a reporting period. It doubles as
// the key set for cache invalidation.
var summaryPeriods = map[string]parser.Period{
	"today":     parser.Today,
	"yesterday": parser.Yesterday,
	"week":      parser.Week,
	"month":     parser.Month,
	"year":      parser.Year,
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("period")
	period, ok := summaryPeriods[key]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period: use today, yesterday, week, month or year")
		return
	}

	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.reports.Summarize(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build summary", "period", period, "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	resp := buildSummaryResponse(summary)
	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func buildSummaryResponse(summary report.Summary) summaryResponse {
	byCategory := make([]categoryBreakdown, 0, len(summary.ByCategory))
	for _, ca := range summary.ByCategory {
		byCategory = append(byCategory, categoryBreakdown{
			Name:   ca.Name,
			Amount: ca.Amount.Float(),
		})
	}

	charts := make(map[string]*chart.Chart)
	if pie := chart.CategoryPie(summary.ByCategory); pie != nil {
		charts["categories"] = pie
	}
	if trend := chart.SpendingTrend(summary.Transactions); trend != nil {
		charts["trend"] = trend
	}
	charts["comparison"] = chart.SavingsComparison(summary)

	return summaryResponse{
		Period:        summary.Period,
		Start:         summary.Start.Format("2006-01-02"),
		End:           summary.End.Format("2006-01-02"),
		TotalExpenses: summary.TotalExpenses.Float(),
		TotalSavings:  summary.TotalSavings.Float(),
		Net:           summary.Net().Float(),
		ByCategory:    byCategory,
		Charts:        charts,
		Text:          summary.Text(),
	}
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	transactions, err := s.reports.RecentTransactions(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list recent transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		category := t.CategoryName
		if category == "" {
			category = "Uncategorized"
		}
		views = append(views, transactionView{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount.Float(),
			Category:    category,
			Description: t.Description,
			Date:        t.Date.Format("2006-01-02"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": views})
}

func (s *Server) invalidateSummaries() {
	for key := range summaryPeriods {
		s.summaryCache.Delete(key)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
