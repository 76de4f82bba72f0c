package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/potatofarm/internal/api/middleware"
	"github.com/mcoot/potatofarm/internal/api/request"
	"github.com/mcoot/potatofarm/internal/api/response"
	"github.com/mcoot/potatofarm/internal/services/auth"
)

// AccountHandler handles signup, login and identity lookup
type AccountHandler struct {
	authService *auth.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Signup handles POST /api/auth/signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username, email and password are required"))
		return
	}

	session, err := h.authService.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("identifier and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Me handles GET /api/auth/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
