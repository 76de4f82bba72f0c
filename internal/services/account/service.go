// Package account binds the stored credential to a displayed identity and
// handles the login, signup and logout commands.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/potatofarm/internal/api/apierr"
	"github.com/mcoot/potatofarm/internal/api/response"
	"github.com/mcoot/potatofarm/internal/authapi"
	"github.com/mcoot/potatofarm/internal/model"
)

// User-facing messages
const (
	MsgNotSignedIn      = "Not signed in"
	MsgGuestFarm        = "Guest"
	MsgLoginMissing     = "Please enter both username/email and password."
	MsgLoginSuccess     = "Logged in successfully!"
	MsgLoginFailed      = "Login failed"
	MsgLoginNotFound    = "Username/email not found."
	MsgLoginBadPassword = "Password incorrect. Please check and try again."
	MsgSignupMissing    = "Please fill in all fields."
	MsgSignupSuccess    = "Account created successfully!"
	MsgSignupFailed     = "Sign up failed"
	MsgSignupExists     = "Username or email already exists."
	MsgSignupBadEmail   = "Please enter a valid email address."
)

// Identity is the remote account API
type Identity interface {
	Me(ctx context.Context) (*response.Account, error)
	Login(ctx context.Context, identifier, password string) (*response.AuthResponse, error)
	Signup(ctx context.Context, username, email, password string) (*response.AuthResponse, error)
}

// Credentials stores the bearer token
type Credentials interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string)
	Clear(ctx context.Context)
}

// Loader reloads the game after a credential change
type Loader interface {
	LoadGame(ctx context.Context) (model.GameSave, error)
}

// Profile is what the account panel shows
type Profile struct {
	DisplayName string
	FarmName    string
	Username    string
	Email       string
	SignedIn    bool
}

// GuestProfile is shown when no remote identity is available
func GuestProfile() Profile {
	return Profile{DisplayName: MsgNotSignedIn, FarmName: MsgGuestFarm}
}

// ProfileFor builds the signed-in profile for an account
func ProfileFor(acct response.Account) Profile {
	display := acct.Username
	if display == "" {
		display = acct.Email
	}
	if display == "" {
		display = "Account"
	}

	owner := acct.Username
	if owner == "" {
		owner = "Player"
	}

	return Profile{
		DisplayName: display,
		FarmName:    fmt.Sprintf("%s's Potato Farm", owner),
		Username:    acct.Username,
		Email:       acct.Email,
		SignedIn:    true,
	}
}

// Status is the outcome of a login or signup command
type Status struct {
	Message string
	Success bool
	Kind    model.ErrorKind
	// Profile is set after a successful command
	Profile *Profile
}

// Service drives the account binding
type Service struct {
	identity    Identity
	credentials Credentials
	loader      Loader
	logger      *slog.Logger
}

// New creates a new account Service
func New(identity Identity, credentials Credentials, loader Loader, logger *slog.Logger) *Service {
	return &Service{
		identity:    identity,
		credentials: credentials,
		loader:      loader,
		logger:      logger,
	}
}

// Refresh resolves the current identity and reloads the game from the
// matching backend. A credential the server rejects is cleared and the game
// reloads as a guest. The error comes from the reload: a discarded load or an
// unreadable device store.
func (s *Service) Refresh(ctx context.Context) (Profile, error) {
	profile := GuestProfile()

	if _, ok := s.credentials.Get(ctx); ok {
		acct, err := s.identity.Me(ctx)
		if err != nil {
			s.logger.Warn("identity lookup failed, clearing credential",
				slog.String("kind", model.KindOf(err).String()),
				slog.String("error", err.Error()),
			)
			s.credentials.Clear(ctx)
		} else {
			profile = ProfileFor(*acct)
		}
	}

	if _, err := s.loader.LoadGame(ctx); err != nil {
		return profile, err
	}
	return profile, nil
}

// Login authenticates with a username or email
func (s *Service) Login(ctx context.Context, identifier, password string) Status {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Status{Message: MsgLoginMissing, Kind: model.KindValidation}
	}

	res, err := s.identity.Login(ctx, identifier, password)
	if err != nil {
		s.logger.Info("login failed", slog.String("error", err.Error()))
		return Status{Message: LoginErrorMessage(err), Kind: model.KindOf(err)}
	}

	return s.signedIn(ctx, res.Token, MsgLoginSuccess)
}

// Signup creates an account and signs in with it
func (s *Service) Signup(ctx context.Context, username, email, password string) Status {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return Status{Message: MsgSignupMissing, Kind: model.KindValidation}
	}

	res, err := s.identity.Signup(ctx, username, email, password)
	if err != nil {
		s.logger.Info("signup failed", slog.String("error", err.Error()))
		return Status{Message: SignupErrorMessage(err), Kind: model.KindOf(err)}
	}

	return s.signedIn(ctx, res.Token, MsgSignupSuccess)
}

// Logout forgets the credential and reloads as a guest
func (s *Service) Logout(ctx context.Context) (Profile, error) {
	s.credentials.Clear(ctx)
	return s.Refresh(ctx)
}

func (s *Service) signedIn(ctx context.Context, token, message string) Status {
	s.credentials.Set(ctx, token)
	profile, err := s.Refresh(ctx)
	if err != nil {
		s.logger.Warn("reload after sign-in discarded", slog.String("error", err.Error()))
	}
	return Status{Message: message, Success: true, Profile: &profile}
}

// LoginErrorMessage maps a failed login to the text shown to the user
func LoginErrorMessage(err error) string {
	switch kindOf(err) {
	case model.KindUserNotFound:
		return MsgLoginNotFound
	case model.KindInvalidCredentials:
		return MsgLoginBadPassword
	}
	if msg := serverMessage(err); msg != "" {
		return msg
	}
	return MsgLoginFailed
}

// SignupErrorMessage maps a failed signup to the text shown to the user
func SignupErrorMessage(err error) string {
	switch kindOf(err) {
	case model.KindAlreadyExists:
		return MsgSignupExists
	case model.KindInvalidEmail:
		return MsgSignupBadEmail
	}
	if msg := serverMessage(err); msg != "" {
		return msg
	}
	return MsgSignupFailed
}

// kindOf prefers the structured kind and falls back to matching the server
// message for servers that send no code.
func kindOf(err error) model.ErrorKind {
	if kind := model.KindOf(err); kind != model.KindUnknown {
		return kind
	}
	return apierr.KindForMessage(serverMessage(err))
}

// serverMessage returns the message the server sent, if any
func serverMessage(err error) string {
	var apiErr *authapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
