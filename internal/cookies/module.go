package cookies

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/brizzai/specfetch/internal/config"
)

// NewFromConfig opens the cookie backend selected in cfg.
func NewFromConfig(cfg *config.Config) (Reader, error) {
	c := cfg.Cookies
	switch c.Backend {
	case config.CookieBackendMemory, "":
		return NewMemoryStore(c.Values), nil
	case config.CookieBackendJar:
		origin := cfg.API.BaseURL
		if origin == "" {
			return nil, fmt.Errorf("the jar cookie backend needs api.base_url")
		}
		store, err := NewJarStore(origin)
		if err != nil {
			return nil, err
		}
		for k, v := range c.Values {
			store.Set(k, v)
		}
		return store, nil
	case config.CookieBackendKeyring:
		return OpenKeyringStore(c.Keyring.Service, c.Keyring.FileDir, c.Keyring.Password)
	case config.CookieBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		return NewRedisStore(client, c.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported cookie backend: %s", c.Backend)
	}
}

// NewStore opens the configured backend and closes it when the app stops.
func NewStore(lc fx.Lifecycle, cfg *config.Config) (Reader, error) {
	store, err := NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return closer.Close()
			},
		})
	}
	return store, nil
}

// Close releases store if its backend holds a connection.
func Close(store Reader) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Module provides the cookie store
var Module = fx.Module("cookies",
	fx.Provide(NewStore),
)
