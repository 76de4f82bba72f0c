// Package saves stores per-account game saves and maintains the leaderboard.
package saves

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

// Config holds configuration for the save service
type Config struct {
	LeaderboardSize int
}

// DefaultConfig returns default save configuration
func DefaultConfig() Config {
	return Config{
		LeaderboardSize: 10,
	}
}

// Service handles save storage and ranking
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
	cfg     Config
}

// New creates a new save Service
func New(storage storage.Storage, logger *slog.Logger, cfg Config) *Service {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = DefaultConfig().LeaderboardSize
	}
	return &Service{storage: storage, logger: logger, cfg: cfg}
}

// Put stores the save for an account and records its all-time score
func (s *Service) Put(ctx context.Context, id model.AccountID, save model.GameSave) error {
	save = save.Normalized()
	if err := s.storage.PutSave(ctx, id, save); err != nil {
		return err
	}
	return s.storage.SetScore(ctx, id, save.AllTimePotatoes)
}

// Get returns the stored save for an account
func (s *Service) Get(ctx context.Context, id model.AccountID) (model.GameSave, error) {
	return s.storage.GetSave(ctx, id)
}

// Leaderboard returns the top players and, when viewer is set, the viewer's
// own place.
func (s *Service) Leaderboard(ctx context.Context, viewer model.AccountID) (model.Leaderboard, error) {
	scores, err := s.storage.TopScores(ctx, s.cfg.LeaderboardSize)
	if err != nil {
		return model.Leaderboard{}, err
	}

	board := model.Leaderboard{TopPlayers: make([]model.LeaderboardEntry, 0, len(scores))}
	for i, score := range scores {
		name, err := s.username(ctx, score.AccountID)
		if err != nil {
			return model.Leaderboard{}, err
		}
		board.TopPlayers = append(board.TopPlayers, model.LeaderboardEntry{
			Rank:            i + 1,
			Username:        name,
			AllTimePotatoes: score.AllTime,
		})
	}

	if viewer == "" {
		return board, nil
	}

	rank, score, ok, err := s.storage.RankOf(ctx, viewer)
	if err != nil {
		return model.Leaderboard{}, err
	}
	if !ok {
		return board, nil
	}
	name, err := s.username(ctx, viewer)
	if err != nil {
		return model.Leaderboard{}, err
	}
	board.UserRank = &model.LeaderboardEntry{Rank: rank, Username: name, AllTimePotatoes: score}
	return board, nil
}

// username resolves an account id for display. Scores left behind by a
// deleted account show as "unknown".
func (s *Service) username(ctx context.Context, id model.AccountID) (string, error) {
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			s.logger.Warn("leaderboard entry without account", slog.String("account_id", string(id)))
			return "unknown", nil
		}
		return "", err
	}
	return account.Username, nil
}
