// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/paper-shelf/internal/httputil"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paper-shelf/0.1"
)

// FetchByCategory returns the most recently submitted papers for the
// category, newest first.
func (c *Client) FetchByCategory(ctx context.Context, cat types.Category, limit int) ([]types.Paper, error) {
	expr, ok := cat.Query()
	if !ok {
		return nil, fmt.Errorf("category %q has no remote query", cat)
	}
	return c.query(ctx, "fetch "+string(cat), expr, limit, false)
}

// Search queries the API with free text, optionally restricted to one
// category. Results are sorted by relevance when byRelevance is set,
// newest first otherwise.
func (c *Client) Search(ctx context.Context, query string, limit int, filter types.Category, byRelevance bool) ([]types.Paper, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty search query")
	}

	expr := "all:" + strings.Join(terms, " ")
	if filter != "" && filter != types.CategoryLatest {
		if catExpr, ok := filter.Query(); ok {
			expr = fmt.Sprintf("(%s) AND (%s)", expr, catExpr)
		}
	}
	return c.query(ctx, "search", expr, limit, byRelevance)
}

// FetchByID looks up a single paper by its arXiv ID.
func (c *Client) FetchByID(ctx context.Context, id string) (types.Paper, error) {
	params := url.Values{}
	params.Set("id_list", id)
	params.Set("max_results", "1")
	reqURL := arxivAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Paper{}, &NetworkError{Op: "lookup " + id, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return types.Paper{}, &NetworkError{Op: "lookup " + id, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Paper{}, &NetworkError{Op: "lookup " + id, URL: reqURL, Status: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return types.Paper{}, &NetworkError{Op: "lookup " + id, URL: reqURL, Err: fmt.Errorf("parsing feed: %w", err)}
	}

	for _, item := range feed.Items {
		if p, ok := paperFromItem(item); ok {
			return p, nil
		}
	}
	return types.Paper{}, &NetworkError{Op: "lookup " + id, URL: reqURL, Err: fmt.Errorf("no paper found for %q", id)}
}

// DownloadPDF fetches the paper's PDF payload. The bytes are opaque to
// this package; the caller decides whether to cache them.
func (c *Client) DownloadPDF(ctx context.Context, paper types.Paper) ([]byte, error) {
	if paper.PDFURL == "" {
		return nil, &NetworkError{Op: "download " + paper.ID, Err: fmt.Errorf("paper has no PDF URL")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: "download " + paper.ID, URL: paper.PDFURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, &NetworkError{Op: "download " + paper.ID, URL: paper.PDFURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "download " + paper.ID, URL: paper.PDFURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "download " + paper.ID, URL: paper.PDFURL, Err: err}
	}
	return data, nil
}

func (c *Client) query(ctx context.Context, op, expr string, limit int, byRelevance bool) ([]types.Paper, error) {
	if limit <= 0 {
		limit = 10
	}

	sortBy := "submittedDate"
	if byRelevance {
		sortBy = "relevance"
	}

	params := url.Values{}
	params.Set("search_query", expr)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprint(limit))
	params.Set("sortBy", sortBy)
	params.Set("sortOrder", "descending")
	reqURL := arxivAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, URL: reqURL, Status: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: reqURL, Err: fmt.Errorf("parsing feed: %w", err)}
	}

	papers := make([]types.Paper, 0, len(feed.Items))
	for _, item := range feed.Items {
		p, ok := paperFromItem(item)
		if !ok {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// paperFromItem maps one Atom entry onto a Paper. Entries without a
// recognizable arXiv ID are dropped.
func paperFromItem(item *gofeed.Item) (types.Paper, bool) {
	id := extractArxivID(item.GUID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:            id,
		Title:         strings.Join(strings.Fields(item.Title), " "),
		Summary:       strings.TrimSpace(item.Description),
		LinkURL:       item.Link,
		PDFURL:        pdfLink(item),
		Categories:    types.SplitCategories(strings.Join(item.Categories, " ")),
		CitationCount: mockCitations(id),
	}

	for _, a := range item.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if item.PublishedParsed != nil {
		p.Published = *item.PublishedParsed
	}
	if item.UpdatedParsed != nil && !item.UpdatedParsed.Equal(p.Published) {
		p.Updated = *item.UpdatedParsed
	}
	return p, true
}

// pdfLink finds the PDF link among the entry's links, falling back to a
// rewrite of the abstract URL.
func pdfLink(item *gofeed.Item) string {
	for _, l := range item.Links {
		if strings.Contains(l, "/pdf/") {
			return l
		}
	}
	if strings.Contains(item.Link, "/abs/") {
		return strings.Replace(item.Link, "/abs/", "/pdf/", 1)
	}
	return ""
}

// extractArxivID pulls the versioned arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v2" -> "2301.07041v2"). The
// version suffix is kept: it is part of the stable identifier every store
// is keyed by.
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(idURL[idx+len(prefix):])
}

// mockCitations derives a stable pseudo-random citation count from the
// paper ID. The remote API has no citation data; the value is cosmetic
// and deliberately not authoritative.
func mockCitations(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % 500)
}
