package redis

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncredigo "github.com/go-redsync/redsync/v4/redis/redigo"
	redigolib "github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// redisBackend bundles a connection pool with the distributed lock manager
// built on it.
type redisBackend struct {
	pool    *redigolib.Pool
	redsync *redsync.Redsync
}

func newRedisBackend(cfg *Config, u *redisURL) *redisBackend {
	pool := &redigolib.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redigolib.Conn, error) {
			return dial(cfg, u)
		},
		// PING connections that have been idle for more than 10 seconds.
		TestOnBorrow: func(c redigolib.Conn, t time.Time) error {
			if time.Since(t) < 10*time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	return &redisBackend{
		pool:    pool,
		redsync: redsync.New(redsyncredigo.NewPool(pool)),
	}
}

func dial(cfg *Config, u *redisURL) (redigolib.Conn, error) {
	opts := []redigolib.DialOption{
		redigolib.DialDatabase(u.DB),
		redigolib.DialReadTimeout(cfg.RedisReadTimeout),
		redigolib.DialWriteTimeout(cfg.RedisWriteTimeout),
		redigolib.DialConnectTimeout(cfg.RedisConnectTimeout),
	}
	if u.Password != "" {
		opts = append(opts, redigolib.DialPassword(u.Password))
	}

	return redigolib.Dial("tcp", u.Host, opts...)
}

// open returns a connection from the pool.
func (rb *redisBackend) open() redigolib.Conn {
	return rb.pool.Get()
}

// A redisURL is a parsed redis://[password@]host[/db] URL.
type redisURL struct {
	Host     string
	Password string
	DB       int
}

func parseRedisURL(target string) (*redisURL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" {
		return nil, errors.New("no redis scheme found")
	}

	db := 0 // default redis db
	parts := strings.Split(u.Path, "/")
	if len(parts) > 1 {
		db, err = strconv.Atoi(parts[1])
		if err != nil {
			return nil, errors.Wrap(err, "parsing redis db")
		}
	}

	return &redisURL{
		Host:     u.Host,
		Password: u.User.String(),
		DB:       db,
	}, nil
}
