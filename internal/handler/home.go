package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/service"
	"github.com/msomdec/sentiment-board/internal/view"
)

// HomeHandler serves the dashboard, text analysis and the history stream.
type HomeHandler struct {
	sentiments   *service.SentimentService
	cookieSecure bool
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(sentiments *service.SentimentService, cookieSecure bool) *HomeHandler {
	return &HomeHandler{sentiments: sentiments, cookieSecure: cookieSecure}
}

// HandleDashboard renders the analysis form and the user's history.
// GET /
func (h *HomeHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data := view.DashboardData{
		Username: user.Username,
		Flash:    popFlash(w, r, h.cookieSecure),
	}
	if !h.loadHistory(w, r, user.ID, &data) {
		return
	}
	renderPage(w, r, view.DashboardPage(data))
}

// HandleAnalyze classifies the submitted text, saves the result and renders
// the dashboard with it.
// POST /analyze
func (h *HomeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	text := r.PostFormValue("text")
	record, err := h.sentiments.Analyze(r.Context(), user.ID, text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyText) {
			redirectWithFlash(w, r, "/", flashEmptyText, h.cookieSecure)
			return
		}
		slog.Error("analyze text", "error", err, "user_id", user.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := view.DashboardData{
		Username: user.Username,
		Flash:    flashAnalysisSaved,
		Text:     record.Text,
		Result:   record,
	}
	if !h.loadHistory(w, r, user.ID, &data) {
		return
	}
	renderPage(w, r, view.DashboardPage(data))
}

// HandleHistory streams the user's full history via SSE, replacing the list
// on the page.
// GET /history
func (h *HomeHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.sentiments.History(r.Context(), user.ID)
	if err != nil {
		slog.Error("load history", "error", err, "user_id", user.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.HistoryList(records)); err != nil {
		slog.Error("stream history", "error", err)
	}
}

// loadHistory fills the user's full history into data. It writes a 500 and
// returns false on failure.
func (h *HomeHandler) loadHistory(w http.ResponseWriter, r *http.Request, userID int64, data *view.DashboardData) bool {
	records, err := h.sentiments.History(r.Context(), userID)
	if err != nil {
		slog.Error("load history", "error", err, "user_id", userID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	data.Records = records
	return true
}

func renderPage(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		slog.Error("render page", "error", err, "path", r.URL.Path)
	}
}
