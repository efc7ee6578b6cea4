package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/todo-tracker/todo-api/internal/config"
)

const sessionMaxAge = 86400 * 7

// NewSessionStore builds the session backend named by cfg.SessionStore.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	case config.SessionStoreRedis:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
