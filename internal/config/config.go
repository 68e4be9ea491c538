// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config is the key-value settings surface. It wraps a viper
// instance with registered defaults and notifies observers of changes
// through typed events rather than broadcast notifications.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

// Setting keys. Every consumer goes through these constants; there are no
// stringly-typed notification names.
const (
	KeyMaxPapers         = "max_papers"
	KeyRefreshInterval   = "refresh_interval"
	KeyAutoRefresh       = "auto_refresh"
	KeyDefaultCategory   = "default_category"
	KeyShowNotifications = "show_notifications"
	KeyEnableCache       = "enable_cache"
	KeyCacheSizeLimitMB  = "cache_size_limit_mb"
)

// Change is the typed event delivered to observers when a setting is
// written.
type Change struct {
	Key   string
	Value any
}

// Store wraps viper with shelf defaults and change observation.
type Store struct {
	mu        sync.Mutex
	v         *viper.Viper
	observers []func(Change)
}

// New builds a store over v, registering the documented default for every
// setting. Pass viper.GetViper() to share the process-wide instance the
// CLI reads its config file into, or viper.New() for an isolated one.
func New(v *viper.Viper) *Store {
	def := types.DefaultShelfConfig()
	v.SetDefault(KeyMaxPapers, def.MaxPapers)
	v.SetDefault(KeyRefreshInterval, def.RefreshInterval)
	v.SetDefault(KeyAutoRefresh, def.AutoRefresh)
	v.SetDefault(KeyDefaultCategory, string(def.DefaultCategory))
	v.SetDefault(KeyShowNotifications, def.ShowNotifications)
	v.SetDefault(KeyEnableCache, def.EnableCache)
	v.SetDefault(KeyCacheSizeLimitMB, def.CacheSizeLimitMB)
	return &Store{v: v}
}

// OnChange registers fn to be called after every successful Set. The
// callback runs on the caller's goroutine, outside the store lock.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Set writes a setting and notifies observers. Unknown keys are rejected.
func (s *Store) Set(key string, value any) error {
	switch key {
	case KeyMaxPapers, KeyRefreshInterval, KeyAutoRefresh, KeyDefaultCategory,
		KeyShowNotifications, KeyEnableCache, KeyCacheSizeLimitMB:
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	s.mu.Lock()
	s.v.Set(key, value)
	observers := make([]func(Change), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Change{Key: key, Value: value})
	}
	return nil
}

// Shelf returns a typed snapshot of the current settings.
func (s *Store) Shelf() types.ShelfConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ShelfConfig{
		MaxPapers:         s.v.GetInt(KeyMaxPapers),
		RefreshInterval:   s.v.GetInt(KeyRefreshInterval),
		AutoRefresh:       s.v.GetBool(KeyAutoRefresh),
		DefaultCategory:   types.Category(s.v.GetString(KeyDefaultCategory)),
		ShowNotifications: s.v.GetBool(KeyShowNotifications),
		EnableCache:       s.v.GetBool(KeyEnableCache),
		CacheSizeLimitMB:  s.v.GetInt(KeyCacheSizeLimitMB),
	}
}
