package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/potatofarm/internal/api/middleware"
	"github.com/mcoot/potatofarm/internal/api/request"
	"github.com/mcoot/potatofarm/internal/api/response"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/saves"
)

// SaveHandler handles save storage and the leaderboard
type SaveHandler struct {
	saveService *saves.Service
	logger      *slog.Logger
}

// NewSaveHandler creates a new save handler
func NewSaveHandler(saveService *saves.Service, logger *slog.Logger) *SaveHandler {
	return &SaveHandler{
		saveService: saveService,
		logger:      logger,
	}
}

// Save handles POST /api/auth/save
func (h *SaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var save model.GameSave
	if err := request.Decode(w, r, &save); err != nil {
		WriteError(w, NewInvalidRequestError("invalid save body"))
		return
	}

	if err := h.saveService.Put(r.Context(), account.ID, save); err != nil {
		h.logger.Error("failed to store save",
			slog.String("account_id", string(account.ID)),
			slog.String("error", err.Error()),
		)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SaveAck{OK: true})
}

// Load handles GET /api/auth/load
func (h *SaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	save, err := h.saveService.Get(r.Context(), account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, save)
}

// Leaderboard handles GET /api/leaderboard. The caller's own rank is
// included when the request is authenticated.
func (h *SaveHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	var viewer model.AccountID
	if account := middleware.GetAccount(r.Context()); account != nil {
		viewer = account.ID
	}

	board, err := h.saveService.Leaderboard(r.Context(), viewer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, board)
}
