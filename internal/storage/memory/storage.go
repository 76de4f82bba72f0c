package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.AccountID]*model.Account
	usernameIndex map[string]model.AccountID
	emailIndex    map[string]model.AccountID
	saves         map[model.AccountID]model.GameSave
	scores        map[model.AccountID]float64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.AccountID]*model.Account),
		usernameIndex: make(map[string]model.AccountID),
		emailIndex:    make(map[string]model.AccountID),
		saves:         make(map[model.AccountID]model.GameSave),
		scores:        make(map[model.AccountID]float64),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernameIndex[account.Username]; taken {
		return model.ErrUsernameExists
	}
	if _, taken := s.emailIndex[account.Email]; taken && account.Email != "" {
		return model.ErrEmailExists
	}
	stored := *account
	s.accounts[account.ID] = &stored
	s.usernameIndex[account.Username] = account.ID
	if account.Email != "" {
		s.emailIndex[account.Email] = account.ID
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	out := *account
	return &out, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	id, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return s.GetAccount(ctx, id)
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[email]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return s.GetAccount(ctx, id)
}

// Save operations

func (s *Storage) PutSave(ctx context.Context, id model.AccountID, save model.GameSave) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[id] = save.Clone()
	return nil
}

func (s *Storage) GetSave(ctx context.Context, id model.AccountID) (model.GameSave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	save, ok := s.saves[id]
	if !ok {
		return model.GameSave{}, model.ErrSaveNotFound
	}
	return save.Clone(), nil
}

// Leaderboard operations

func (s *Storage) SetScore(ctx context.Context, id model.AccountID, allTime float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[id] = allTime
	return nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]storage.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ranked := s.rankedLocked()
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Storage) RankOf(ctx context.Context, id model.AccountID) (int, float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, sc := range s.rankedLocked() {
		if sc.AccountID == id {
			return i + 1, sc.AllTime, true, nil
		}
	}
	return 0, 0, false, nil
}

// rankedLocked orders scores the way a Redis ZREVRANGE does:
// highest score first, ties by member descending.
func (s *Storage) rankedLocked() []storage.Score {
	ranked := make([]storage.Score, 0, len(s.scores))
	for id, score := range s.scores {
		ranked = append(ranked, storage.Score{AccountID: id, AllTime: score})
	}
	slices.SortFunc(ranked, func(a, b storage.Score) int {
		if c := cmp.Compare(b.AllTime, a.AllTime); c != 0 {
			return c
		}
		return cmp.Compare(b.AccountID, a.AccountID)
	})
	return ranked
}
