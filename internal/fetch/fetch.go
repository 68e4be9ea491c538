// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch is the remote literature client. It queries the arXiv
// export API, parses the Atom responses, and downloads PDF payloads.
package fetch

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

// NetworkError reports a failed remote operation. It is terminal for the
// load that triggered it but never corrupts already-loaded state.
type NetworkError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d from %s", e.Op, e.Status, e.URL)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the remote literature API.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
}

// NewClient builds a client with the given settings. Zero-value timeout
// and user agent fall back to sensible defaults.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}
