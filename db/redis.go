package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ReanalyzeQueueKey = "reviews:queue:reanalyze"
	DeadLetterKey     = "reviews:queue:failed"
)

// ErrQueueEmpty is returned by PopFromQueue when the wait timed out.
var ErrQueueEmpty = errors.New("queue empty")

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func PushToQueue(ctx context.Context, client *redis.Client, queueKey string, data string) error {
	return client.LPush(ctx, queueKey, data).Err()
}

func PopFromQueue(ctx context.Context, client *redis.Client, queueKey string, timeout time.Duration) (string, error) {
	result, err := client.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrQueueEmpty
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func GetQueueLength(ctx context.Context, client *redis.Client, queueKey string) (int64, error) {
	return client.LLen(ctx, queueKey).Result()
}

// Queue schedules reviews for reanalysis on a Redis list.
type Queue struct {
	client *redis.Client
	key    string
}

func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) Requeue(ctx context.Context, reviewID int64) error {
	return PushToQueue(ctx, q.client, q.key, strconv.FormatInt(reviewID, 10))
}

func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	return PopFromQueue(ctx, q.client, q.key, timeout)
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return GetQueueLength(ctx, q.client, q.key)
}
