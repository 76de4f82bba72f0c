package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/saves"
	"github.com/mcoot/potatofarm/internal/web/middleware"
	"github.com/mcoot/potatofarm/internal/web/templates"
)

// LeaderboardHandler renders the leaderboard page
type LeaderboardHandler struct {
	saveService *saves.Service
	logger      *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(saveService *saves.Service, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{saveService: saveService, logger: logger}
}

// View renders the full page
func (h *LeaderboardHandler) View(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	var viewer model.AccountID
	data := templates.PageData{Title: "Potato Farm Leaderboard"}
	if account != nil {
		viewer = account.ID
		data.Viewer = account.Username
	}

	board, err := h.saveService.Leaderboard(r.Context(), viewer)
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Board = board

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Fragment renders only the board, for embedding in another page
func (h *LeaderboardHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	var viewer model.AccountID
	if account := middleware.GetAccount(r.Context()); account != nil {
		viewer = account.ID
	}

	board, err := h.saveService.Leaderboard(r.Context(), viewer)
	if err != nil {
		// An unavailable board renders as empty rather than failing the page
		h.logger.Warn("failed to load leaderboard", slog.String("error", err.Error()))
		board = model.Leaderboard{TopPlayers: []model.LeaderboardEntry{}}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Board(board).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
