package timerstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Key layout, one pair per auction:
//
//	auction:{id}:timer_status      "running" | "paused"
//	auction:{id}:remaining_seconds integer
type redisStore struct {
	client *redis.Client
}

func NewRedisStore(opt *redis.Options) Store {
	return &redisStore{client: redis.NewClient(opt)}
}

func NewRedisStoreFromClient(client *redis.Client) Store {
	return &redisStore{client: client}
}

func statusKey(auctionID int) string    { return fmt.Sprintf("auction:%d:timer_status", auctionID) }
func remainingKey(auctionID int) string { return fmt.Sprintf("auction:%d:remaining_seconds", auctionID) }

func (s *redisStore) Start(ctx context.Context, auctionID, seconds int) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, statusKey(auctionID), string(StatusRunning), 0)
	pipe.Set(ctx, remainingKey(auctionID), seconds, 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Pause(ctx context.Context, auctionID int) error {
	return s.setStatus(ctx, auctionID, StatusPaused)
}

func (s *redisStore) Resume(ctx context.Context, auctionID int) error {
	return s.setStatus(ctx, auctionID, StatusRunning)
}

func (s *redisStore) setStatus(ctx context.Context, auctionID int, status Status) error {
	exists, err := s.client.Exists(ctx, statusKey(auctionID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("no timer state for auction %d", auctionID)
	}
	return s.client.Set(ctx, statusKey(auctionID), string(status), 0).Err()
}

func (s *redisStore) Extend(ctx context.Context, auctionID, extraSeconds int) error {
	exists, err := s.client.Exists(ctx, remainingKey(auctionID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("no timer state for auction %d", auctionID)
	}
	return s.client.IncrBy(ctx, remainingKey(auctionID), int64(extraSeconds)).Err()
}

func (s *redisStore) Get(ctx context.Context, auctionID int) (State, error) {
	status, err := s.client.Get(ctx, statusKey(auctionID)).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}

	remaining, err := s.client.Get(ctx, remainingKey(auctionID)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return State{}, err
	}

	return State{
		RemainingSeconds: remaining,
		Status:           Status(status),
		Found:            true,
	}, nil
}

func (s *redisStore) Decrement(ctx context.Context, auctionID int) (int, error) {
	remaining, err := s.client.Decr(ctx, remainingKey(auctionID)).Result()
	if err != nil {
		return 0, err
	}
	return int(remaining), nil
}

func (s *redisStore) Clear(ctx context.Context, auctionID int) error {
	return s.client.Del(ctx, statusKey(auctionID), remainingKey(auctionID)).Err()
}

func (s *redisStore) ActiveAuctions(ctx context.Context) ([]int, error) {
	var (
		ids    []int
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, "auction:*:timer_status", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			parts := strings.Split(key, ":")
			if len(parts) != 3 {
				continue
			}
			id, err := strconv.Atoi(parts[1])
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}
