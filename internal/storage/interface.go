package storage

import (
	"context"

	"github.com/mcoot/potatofarm/internal/model"
)

// Well-known local keys
const (
	CredentialKey    = "auth_token"
	SaveKey          = "potatoFarmSave"
	LegacyAllTimeKey = "allTimePotatoes"
)

// Local is the on-device key/value store. Values are opaque strings.
type Local interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Storage defines the remote store's persistence
type Storage interface {
	// Account operations
	// CreateAccount stores a new account and reserves its username and email.
	// A name already held by another account fails with ErrUsernameExists or
	// ErrEmailExists and stores nothing.
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// Save operations
	PutSave(ctx context.Context, id model.AccountID, save model.GameSave) error
	GetSave(ctx context.Context, id model.AccountID) (model.GameSave, error)

	// Leaderboard operations
	SetScore(ctx context.Context, id model.AccountID, allTime float64) error
	TopScores(ctx context.Context, limit int) ([]Score, error)
	// RankOf returns the 1-based rank of the account; ok is false when unranked.
	RankOf(ctx context.Context, id model.AccountID) (rank int, score float64, ok bool, err error)
}

// Score is one leaderboard row as stored
type Score struct {
	AccountID model.AccountID
	AllTime   float64
}
