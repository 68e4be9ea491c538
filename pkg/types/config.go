package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-shelf/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the remote literature client.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the retry budget for rate-limited requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ShelfConfig holds the user-facing reader settings, persisted through the
// configuration store.
type ShelfConfig struct {
	// MaxPapers is the number of papers fetched per category load (default 10).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// RefreshInterval is the auto-refresh period in minutes (default 30).
	RefreshInterval int `json:"refresh_interval" yaml:"refresh_interval"`

	// AutoRefresh enables the background refresh timer (default false).
	AutoRefresh bool `json:"auto_refresh" yaml:"auto_refresh"`

	// DefaultCategory is the category loaded at startup and refreshed by
	// the timer (default "latest").
	DefaultCategory Category `json:"default_category" yaml:"default_category"`

	// ShowNotifications controls new-paper notifications (default true).
	ShowNotifications bool `json:"show_notifications" yaml:"show_notifications"`

	// EnableCache controls whether downloaded PDFs are kept on disk
	// (default true).
	EnableCache bool `json:"enable_cache" yaml:"enable_cache"`

	// CacheSizeLimitMB is the advisory cache size limit shown to the user
	// (default 100). The cache itself does not enforce it.
	CacheSizeLimitMB int `json:"cache_size_limit_mb" yaml:"cache_size_limit_mb"`
}

// DefaultShelfConfig returns the documented defaults for every setting.
func DefaultShelfConfig() ShelfConfig {
	return ShelfConfig{
		MaxPapers:         10,
		RefreshInterval:   30,
		AutoRefresh:       false,
		DefaultCategory:   CategoryLatest,
		ShowNotifications: true,
		EnableCache:       true,
		CacheSizeLimitMB:  100,
	}
}
