package response

import (
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/auth"
)

// Account represents an account in API responses
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:       string(a.ID),
		Username: a.Username,
		Email:    a.Email,
	}
}

// AuthResponse is the response for signup and login
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SaveAck acknowledges a stored save
type SaveAck struct {
	OK bool `json:"ok"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// AuthResponseFromSession converts an issued session to an AuthResponse
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Token:    s.Token,
		Username: s.Account.Username,
		Email:    s.Account.Email,
	}
}
