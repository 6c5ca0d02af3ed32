package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"bookbuddy-backend/internal/config"
	"bookbuddy-backend/internal/domains/book"
)

// GoogleBooksClient talks to the Google Books volumes API and normalizes
// results into book.Book records. All calls are bounded by the configured
// client timeout so a slow provider fails fast instead of hanging a command.
type GoogleBooksClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGoogleBooksClient(cfg config.CatalogConfig) *GoogleBooksClient {
	return &GoogleBooksClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

var _ book.Catalog = (*GoogleBooksClient)(nil)

// Volume response shape, trimmed to the fields we read.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Categories  []string `json:"categories"`
			InfoLink    string   `json:"infoLink"`
			Description string   `json:"description"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search implements book.Catalog. Records without a title are dropped
// silently; missing authors/categories become "Unknown". Provider order is
// preserved and the result never exceeds maxResults.
func (c *GoogleBooksClient) Search(ctx context.Context, query string, maxResults int) ([]book.Book, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", book.ErrCatalogUnavailable)
	}

	endpoint := c.baseURL + "/volumes?" + c.buildQuery(query, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts land here as well; both are treated as the provider
		// being unavailable.
		log.Warn().Err(err).Str("query", query).Msg("[Catalog] Request failed")
		return nil, fmt.Errorf("google books search %q: %w", query, book.ErrCatalogUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("[Catalog] Non-success status")
		return nil, fmt.Errorf("google books search %q returned %d: %w", query, resp.StatusCode, book.ErrCatalogUnavailable)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("[Catalog] Malformed response body")
		return nil, fmt.Errorf("decode google books response for %q: %w", query, book.ErrCatalogUnavailable)
	}

	books := make([]book.Book, 0, len(body.Items))
	for _, item := range body.Items {
		info := item.VolumeInfo
		if strings.TrimSpace(info.Title) == "" {
			continue
		}
		books = append(books, book.Book{
			Title:       info.Title,
			Author:      joinOrUnknown(info.Authors),
			Genre:       joinOrUnknown(info.Categories),
			Link:        info.InfoLink,
			Description: info.Description,
		})
		if len(books) == maxResults {
			break
		}
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("google books search %q: %w", query, book.ErrCatalogEmpty)
	}

	return books, nil
}

func (c *GoogleBooksClient) buildQuery(query string, maxResults int) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		values.Set("key", c.apiKey)
	}
	return values.Encode()
}

func joinOrUnknown(parts []string) string {
	if len(parts) == 0 {
		return book.UnknownField
	}
	return strings.Join(parts, ", ")
}
