package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/potatofarm/internal/dependencies/clock"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

// Session is an issued bearer token and the account it belongs to
type Session struct {
	Token     string
	Account   model.Account
	ExpiresAt time.Time
}

// Claims are the JWT claims carried by a session token
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Service handles accounts and token issuance
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	signingKey      []byte
	issuer          string
	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// SigningKey signs session tokens. A random key is generated when empty,
	// so tokens do not survive a restart.
	SigningKey []byte
	Issuer     string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 30 * 24 * time.Hour,
		Issuer:          "potatofarm",
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaults.Issuer
	}
	if len(cfg.SigningKey) == 0 {
		cfg.SigningKey = make([]byte, 32)
		_, _ = rand.Read(cfg.SigningKey)
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		signingKey:      cfg.SigningKey,
		issuer:          cfg.Issuer,
		sessionDuration: cfg.SessionDuration,
	}
}

// Signup creates an account and issues a session for it
func (s *Service) Signup(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, model.ErrMissingFields
	}
	if !validEmail(email) {
		return nil, model.ErrInvalidEmail
	}

	// Cheap rejection before hashing; CreateAccount is what enforces uniqueness
	if err := s.ensureFree(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	account := &model.Account{
		ID:           model.AccountID(uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.issue(account)
}

func (s *Service) ensureFree(ctx context.Context, username, email string) error {
	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return err
	}

	_, err = s.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return model.ErrEmailExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return err
	}
	return nil
}

// Login authenticates with a username or an email address
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, model.ErrMissingFields
	}

	var (
		account *model.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.storage.GetAccountByEmail(ctx, strings.ToLower(identifier))
	} else {
		account, err = s.storage.GetAccountByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issue(account)
}

// ValidateToken checks a session token and returns the account id it names
func (s *Service) ValidateToken(token string) (model.AccountID, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", model.ErrInvalidSession
	}
	return model.AccountID(claims.Subject), nil
}

// Authenticate resolves a session token to its account
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	id, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}
	return account, nil
}

// issue signs a session token for an account
func (s *Service) issue(account *model.Account) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.sessionDuration)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(account.ID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Username: account.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: token, Account: *account, ExpiresAt: expires}, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}
