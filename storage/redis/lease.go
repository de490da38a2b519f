// Package redis implements a sub-stream lease store backed by Redis, so that
// many processes drawing from the same root seed can claim disjoint
// (group, index) placements without coordinating with each other.
package redis

import (
	"sync"
	"time"

	redigolib "github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"

	"github.com/subrand/subrand/pkg/log"
	"github.com/subrand/subrand/pkg/stop"
)

// Default group size used when the config leaves it zero. Indices within a
// group are separated by Jump; groups by LongJump.
const defaultGroupSize = 1 << 16

// Config holds the configuration of a LeaseStore.
type Config struct {
	// GroupSize is the number of jump-separated sub-streams per long-jump
	// group.
	GroupSize uint64 `yaml:"group_size"`

	RedisBroker         string        `yaml:"redis_broker"`
	RedisReadTimeout    time.Duration `yaml:"redis_read_timeout"`
	RedisWriteTimeout   time.Duration `yaml:"redis_write_timeout"`
	RedisConnectTimeout time.Duration `yaml:"redis_connect_timeout"`
}

// LogFields renders the current config as a set of Logrus fields.
func (cfg Config) LogFields() log.Fields {
	return log.Fields{
		"groupSize":           cfg.GroupSize,
		"redisBroker":         cfg.RedisBroker,
		"redisReadTimeout":    cfg.RedisReadTimeout,
		"redisWriteTimeout":   cfg.RedisWriteTimeout,
		"redisConnectTimeout": cfg.RedisConnectTimeout,
	}
}

// A LeaseStore hands out sub-stream placements for named roots. Each call to
// Acquire returns a (group, index) pair never returned before for that root,
// across every process sharing the same Redis.
type LeaseStore struct {
	cfg      Config
	backend  *redisBackend
	stopOnce sync.Once
}

// New creates a LeaseStore from the provided config.
func New(cfg Config) (*LeaseStore, error) {
	u, err := parseRedisURL(cfg.RedisBroker)
	if err != nil {
		return nil, errors.Wrap(err, "lease store")
	}
	if cfg.GroupSize == 0 {
		cfg.GroupSize = defaultGroupSize
	}

	return &LeaseStore{
		cfg:     cfg,
		backend: newRedisBackend(&cfg, u),
	}, nil
}

func leaseKey(root string) string { return "subrand:lease:" + root }

// Acquire claims the next unused sub-stream of root. The read-modify-write of
// the counter runs under a distributed mutex so concurrent processes never
// observe the same value.
func (s *LeaseStore) Acquire(root string) (group, index uint64, err error) {
	mu := s.backend.redsync.NewMutex(leaseKey(root) + ":lock")
	if err = mu.Lock(); err != nil {
		return 0, 0, errors.Wrap(err, "locking lease counter")
	}
	defer func() {
		if _, unlockErr := mu.Unlock(); unlockErr != nil && err == nil {
			err = errors.Wrap(unlockErr, "unlocking lease counter")
		}
	}()

	conn := s.backend.open()
	defer conn.Close()

	n, err := redigolib.Uint64(conn.Do("GET", leaseKey(root)))
	if err != nil && err != redigolib.ErrNil {
		return 0, 0, errors.Wrap(err, "reading lease counter")
	}

	if _, err = conn.Do("SET", leaseKey(root), n+1); err != nil {
		return 0, 0, errors.Wrap(err, "writing lease counter")
	}

	return n / s.cfg.GroupSize, n % s.cfg.GroupSize, nil
}

// Reset forgets every lease handed out for root. Streams claimed before the
// reset will be handed out again; callers own the consequences.
func (s *LeaseStore) Reset(root string) error {
	conn := s.backend.open()
	defer conn.Close()

	_, err := conn.Do("DEL", leaseKey(root))
	return errors.Wrap(err, "resetting lease counter")
}

// Stop closes the connection pool. It is safe to call concurrently and more
// than once; only the first call closes the pool.
func (s *LeaseStore) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		var err error
		s.stopOnce.Do(func() {
			err = s.backend.pool.Close()
		})
		c.Done(err)
	}()

	return c.Result()
}
