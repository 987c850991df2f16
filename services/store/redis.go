package store

import (
	"context"
	"encoding/json"

	"gamedealbot/internal/deal"

	"github.com/redis/go-redis/v9"
)

const (
	ledgerKey     = "gamedeals:posted"
	workingSetKey = "gamedeals:working_set"
	groupsKey     = "gamedeals:groups"
)

// RedisStore implements Store on Redis. The ledger is a list trimmed to
// the retention cap on every append; the working set and groups are JSON
// values replaced wholesale.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	limit  int
}

// NewRedisStore creates a Redis-backed store with the given ledger cap
func NewRedisStore(ctx context.Context, addr string, db int, ledgerLimit int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    ctx,
		limit:  ledgerLimit,
	}
}

// PostedTitles returns the ledger contents, oldest first
func (s *RedisStore) PostedTitles() ([]string, error) {
	return s.client.LRange(s.ctx, ledgerKey, 0, -1).Result()
}

// IsPosted reports whether a title is in the ledger
func (s *RedisStore) IsPosted(title string) (bool, error) {
	titles, err := s.PostedTitles()
	if err != nil {
		return false, err
	}
	want := deal.NormalizeTitle(title)
	for _, t := range titles {
		if deal.NormalizeTitle(t) == want {
			return true, nil
		}
	}
	return false, nil
}

// AppendPosted appends a title and trims the ledger to the retention cap.
// RPUSH + LTRIM keeps the newest entries and evicts from the head (FIFO).
func (s *RedisStore) AppendPosted(title string) error {
	pipe := s.client.TxPipeline()
	pipe.RPush(s.ctx, ledgerKey, title)
	pipe.LTrim(s.ctx, ledgerKey, int64(-s.limit), -1)
	_, err := pipe.Exec(s.ctx)
	return err
}

// LoadWorkingSet returns the current shuffled deal groups
func (s *RedisStore) LoadWorkingSet() ([]deal.DealGroup, error) {
	return s.loadGroups(workingSetKey)
}

// SaveWorkingSet replaces the shuffled deal groups
func (s *RedisStore) SaveWorkingSet(groups []deal.DealGroup) error {
	return s.saveGroups(workingSetKey, groups)
}

// LoadGroups returns the last validated deal groups
func (s *RedisStore) LoadGroups() ([]deal.DealGroup, error) {
	return s.loadGroups(groupsKey)
}

// SaveGroups replaces the validated deal groups
func (s *RedisStore) SaveGroups(groups []deal.DealGroup) error {
	return s.saveGroups(groupsKey, groups)
}

func (s *RedisStore) loadGroups(key string) ([]deal.DealGroup, error) {
	data, err := s.client.Get(s.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var groups []deal.DealGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *RedisStore) saveGroups(key string, groups []deal.DealGroup) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	return s.client.Set(s.ctx, key, data, 0).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
