package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *redis.Client
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(s.client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		ID:           "acct-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.CreateAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal(account.Username, retrieved.Username)
	s.Equal(account.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestCreateAccountRejectsTakenNames() {
	s.Require().NoError(s.storage.CreateAccount(s.ctx, &model.Account{ID: "acct-1", Username: "alice", Email: "alice@example.com"}))

	err := s.storage.CreateAccount(s.ctx, &model.Account{ID: "acct-2", Username: "alice", Email: "other@example.com"})
	s.ErrorIs(err, model.ErrUsernameExists)

	err = s.storage.CreateAccount(s.ctx, &model.Account{ID: "acct-3", Username: "bob", Email: "alice@example.com"})
	s.ErrorIs(err, model.ErrEmailExists)

	// Failed attempts leave nothing behind
	_, err = s.storage.GetAccount(s.ctx, "acct-2")
	s.ErrorIs(err, model.ErrAccountNotFound)
	_, err = s.storage.GetAccountByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrAccountNotFound)
	owner, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), owner.ID)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountIndexes() {
	account := &model.Account{ID: "acct-1", Username: "alice", Email: "alice@example.com"}
	_ = s.storage.CreateAccount(s.ctx, account)

	byName, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), byName.ID)

	byEmail, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), byEmail.ID)

	_, err = s.storage.GetAccountByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Save tests

func (s *StorageSuite) TestPutAndGetSave() {
	save := model.GameSave{
		Potatoes:        10,
		AllTimePotatoes: 200,
		Buildings:       model.Collection{"farm": float64(3)},
		Upgrades:        model.Collection{"hoe": map[string]any{"level": float64(2)}},
		Skins:           model.Collection{"gold": true},
	}

	err := s.storage.PutSave(s.ctx, "acct-1", save)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSave(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.True(save.Equal(retrieved), "expected %+v, got %+v", save, retrieved)
}

func (s *StorageSuite) TestGetSaveNotFound() {
	_, err := s.storage.GetSave(s.ctx, "acct-1")
	s.ErrorIs(err, model.ErrSaveNotFound)
}

func (s *StorageSuite) TestGetSaveCorrupt() {
	s.Require().NoError(s.mini.Set(saveKey("acct-1"), "{not json"))

	_, err := s.storage.GetSave(s.ctx, "acct-1")
	s.ErrorIs(err, model.ErrCorruptSave)
}

func (s *StorageSuite) TestSavesHaveNoTTL() {
	_ = s.storage.PutSave(s.ctx, "acct-1", model.NewGameSave())

	s.Equal(time.Duration(0), s.mini.TTL(saveKey("acct-1")))
}

// Leaderboard tests

func (s *StorageSuite) TestTopScores() {
	_ = s.storage.SetScore(s.ctx, "a", 100)
	_ = s.storage.SetScore(s.ctx, "b", 300)
	_ = s.storage.SetScore(s.ctx, "c", 200)

	top, err := s.storage.TopScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal([]storage.Score{
		{AccountID: "b", AllTime: 300},
		{AccountID: "c", AllTime: 200},
	}, top)
}

func (s *StorageSuite) TestTopScoresEmpty() {
	top, err := s.storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *StorageSuite) TestRankOf() {
	_ = s.storage.SetScore(s.ctx, "a", 100)
	_ = s.storage.SetScore(s.ctx, "b", 300)

	rank, score, ok, err := s.storage.RankOf(s.ctx, "a")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2, rank)
	s.Equal(float64(100), score)
}

func (s *StorageSuite) TestRankOfUnranked() {
	_ = s.storage.SetScore(s.ctx, "a", 100)

	_, _, ok, err := s.storage.RankOf(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(ok)
}

// Local tests

func (s *StorageSuite) TestLocalRoundTrip() {
	local := NewLocalWithClient(s.client, "device-1")

	_, ok, err := local.Get(s.ctx, storage.SaveKey)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(local.Set(s.ctx, storage.SaveKey, `{"potatoes":1}`))

	v, ok, err := local.Get(s.ctx, storage.SaveKey)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(`{"potatoes":1}`, v)

	s.Require().NoError(local.Remove(s.ctx, storage.SaveKey))
	_, ok, _ = local.Get(s.ctx, storage.SaveKey)
	s.False(ok)
}

func (s *StorageSuite) TestLocalDevicesAreIsolated() {
	first := NewLocalWithClient(s.client, "device-1")
	second := NewLocalWithClient(s.client, "device-2")

	_ = first.Set(s.ctx, storage.CredentialKey, "token-1")

	_, ok, err := second.Get(s.ctx, storage.CredentialKey)
	s.Require().NoError(err)
	s.False(ok)
	s.True(s.mini.Exists(deviceKey("device-1", storage.CredentialKey)))
}
