package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/potatofarm/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		ID:        "acct-1",
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now(),
	}

	err := s.storage.CreateAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal(account.Username, retrieved.Username)
	s.Equal(account.Email, retrieved.Email)
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

func (s *StorageSuite) TestGetAccountByUsernameAndEmail() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{ID: "acct-1", Username: "alice", Email: "alice@example.com"})

	byName, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), byName.ID)

	byEmail, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), byEmail.ID)

	_, err = s.storage.GetAccountByEmail(s.ctx, "bob@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestReturnedAccountIsACopy() {
	_ = s.storage.CreateAccount(s.ctx, &model.Account{ID: "acct-1", Username: "alice"})

	retrieved, _ := s.storage.GetAccount(s.ctx, "acct-1")
	retrieved.Username = "mallory"

	again, _ := s.storage.GetAccount(s.ctx, "acct-1")
	s.Equal("alice", again.Username)
}

// Save tests

func (s *StorageSuite) TestPutAndGetSave() {
	save := model.GameSave{
		Potatoes:        10,
		AllTimePotatoes: 200,
		Buildings:       model.Collection{"farm": float64(2)},
		Upgrades:        model.Collection{},
		Skins:           model.Collection{"gold": true},
	}

	err := s.storage.PutSave(s.ctx, "acct-1", save)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSave(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.True(save.Equal(retrieved))
}

func (s *StorageSuite) TestGetSaveNotFound() {
	_, err := s.storage.GetSave(s.ctx, "acct-1")
	s.ErrorIs(err, model.ErrSaveNotFound)
}

func (s *StorageSuite) TestStoredSaveIsIsolatedFromCaller() {
	save := model.NewGameSave()
	save.Buildings["farm"] = float64(1)
	_ = s.storage.PutSave(s.ctx, "acct-1", save)

	save.Buildings["farm"] = float64(99)

	retrieved, _ := s.storage.GetSave(s.ctx, "acct-1")
	s.Equal(float64(1), retrieved.Buildings["farm"])
}

// Leaderboard tests

func (s *StorageSuite) TestTopScoresOrdering() {
	_ = s.storage.SetScore(s.ctx, "a", 100)
	_ = s.storage.SetScore(s.ctx, "b", 300)
	_ = s.storage.SetScore(s.ctx, "c", 200)

	top, err := s.storage.TopScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.AccountID("b"), top[0].AccountID)
	s.Equal(model.AccountID("c"), top[1].AccountID)
}

func (s *StorageSuite) TestRankOf() {
	_ = s.storage.SetScore(s.ctx, "a", 100)
	_ = s.storage.SetScore(s.ctx, "b", 300)

	rank, score, ok, err := s.storage.RankOf(s.ctx, "a")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2, rank)
	s.Equal(float64(100), score)

	_, _, ok, err = s.storage.RankOf(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestSetScoreOverwrites() {
	_ = s.storage.SetScore(s.ctx, "a", 100)
	_ = s.storage.SetScore(s.ctx, "a", 50)

	_, score, _, _ := s.storage.RankOf(s.ctx, "a")
	s.Equal(float64(50), score)
}

// Local tests

func TestLocalGetSetRemove(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	_, ok, err := l.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Set(ctx, "k", "v"))
	v, ok, err := l.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, l.Remove(ctx, "k"))
	assert.Equal(t, 0, l.Len())
}
