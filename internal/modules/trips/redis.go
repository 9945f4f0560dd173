// README: Redis pub/sub change feed and the free-trial flag.
package trips

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	feedPrefix  = "voyager:trips:"
	trialPrefix = "voyager:free_trial_used:"
)

// RedisFeed publishes and delivers per-user change signals. It is both the
// store's Notifier and the managers' Feed.
type RedisFeed struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisFeed(rdb *redis.Client, logger *slog.Logger) *RedisFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisFeed{rdb: rdb, log: logger.With("module", "trips.feed")}
}

func feedChannel(uid string) string {
	return feedPrefix + uid
}

func (f *RedisFeed) Notify(ctx context.Context, uid string) error {
	return f.rdb.Publish(ctx, feedChannel(uid), "changed").Err()
}

// Subscribe returns a channel that receives one signal per burst of changes.
// Signals are coalesced so a slow reader never blocks the subscription.
func (f *RedisFeed) Subscribe(ctx context.Context, uid string) (<-chan struct{}, error) {
	sub := f.rdb.Subscribe(ctx, feedChannel(uid))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					f.log.Warn("trip feed closed", "uid", uid)
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

type RedisTrialStore struct {
	rdb *redis.Client
}

func NewRedisTrialStore(rdb *redis.Client) *RedisTrialStore {
	return &RedisTrialStore{rdb: rdb}
}

func (s *RedisTrialStore) Used(ctx context.Context, uid string) (bool, error) {
	n, err := s.rdb.Exists(ctx, trialPrefix+uid).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTrialStore) Claim(ctx context.Context, uid string) (bool, error) {
	return s.rdb.SetNX(ctx, trialPrefix+uid, "1", 0).Result()
}

func (s *RedisTrialStore) Release(ctx context.Context, uid string) error {
	return s.rdb.Del(ctx, trialPrefix+uid).Err()
}
