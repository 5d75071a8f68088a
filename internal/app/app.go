// Package app implements the catalog and transaction engine: catalog
// queries, view deduplication, bulk ingestion, and order creation.
package app

import (
	"fmt"
	"time"

	"vuedubooks/internal/registry"
	"vuedubooks/pkg/auth"
	"vuedubooks/pkg/notify"
	"vuedubooks/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	Store         store.Store
	Notifier      notify.Notifier
	Registry      *registry.Registry
	Tokens        *auth.TokenManager
	NotifyTimeout time.Duration
}

// App is the core application service wiring together storage, the course
// registry, auth tokens, and the notification dispatcher.
type App struct {
	store         store.Store
	notifier      notify.Notifier
	registry      *registry.Registry
	tokens        *auth.TokenManager
	notifyTimeout time.Duration
}

// New constructs the application. A nil Store falls back to a Postgres
// store opened from DatabaseURL; a nil Notifier drops notifications.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default()
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token manager required")
	}
	notifyTimeout := cfg.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 5 * time.Second
	}
	return &App{
		store:         dataStore,
		notifier:      notifier,
		registry:      reg,
		tokens:        cfg.Tokens,
		notifyTimeout: notifyTimeout,
	}, nil
}

// Registry exposes the injected course-code registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
