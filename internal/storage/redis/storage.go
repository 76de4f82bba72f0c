package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// connect parses the URL, applies pool settings and verifies the connection
func connect(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

// createAccountScript reserves both index keys and writes the account in
// one step. Returns 1 when the username is taken, 2 for the email.
var createAccountScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 1
end
if ARGV[3] == '1' and redis.call('EXISTS', KEYS[3]) == 1 then
	return 2
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
if ARGV[3] == '1' then
	redis.call('SET', KEYS[3], ARGV[2])
end
return 0
`)

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	hasEmail := "0"
	if account.Email != "" {
		hasEmail = "1"
	}

	keys := []string{accountKey(account.ID), usernameIndexKey(account.Username), emailIndexKey(account.Email)}
	res, err := createAccountScript.Run(ctx, s.client, keys, data, string(account.ID), hasEmail).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return model.ErrUsernameExists
	case 2:
		return model.ErrEmailExists
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.getByIndex(ctx, usernameIndexKey(username))
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) getByIndex(ctx context.Context, indexKey string) (*model.Account, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(id))
}

// Save operations

func (s *Storage) PutSave(ctx context.Context, id model.AccountID, save model.GameSave) error {
	data, err := save.Encode()
	if err != nil {
		return err
	}

	return s.client.Set(ctx, saveKey(id), data, 0).Err()
}

func (s *Storage) GetSave(ctx context.Context, id model.AccountID) (model.GameSave, error) {
	data, err := s.client.Get(ctx, saveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.GameSave{}, model.ErrSaveNotFound
		}
		return model.GameSave{}, err
	}

	return model.DecodeGameSave(data)
}

// Leaderboard operations

func (s *Storage) SetScore(ctx context.Context, id model.AccountID, allTime float64) error {
	return s.client.ZAdd(ctx, leaderboardKey(), redis.Z{Score: allTime, Member: string(id)}).Err()
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]storage.Score, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	entries, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]storage.Score, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		scores = append(scores, storage.Score{AccountID: model.AccountID(member), AllTime: z.Score})
	}
	return scores, nil
}

func (s *Storage) RankOf(ctx context.Context, id model.AccountID) (int, float64, bool, error) {
	// Fetch rank and score in one round trip
	pipe := s.client.Pipeline()
	rankCmd := pipe.ZRevRank(ctx, leaderboardKey(), string(id))
	scoreCmd := pipe.ZScore(ctx, leaderboardKey(), string(id))
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, false, err
	}

	rank, err := rankCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	score, err := scoreCmd.Result()
	if err != nil {
		return 0, 0, false, err
	}

	return int(rank) + 1, score, true, nil
}
