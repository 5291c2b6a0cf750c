package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nycwatch/landlordwatch/internal/config"
	"github.com/nycwatch/landlordwatch/internal/logger"
)

const (
	// Retry policy for a single page fetch. Retries apply only to transient
	// transport and HTTP-status failures; malformed responses fail
	// immediately. The whole-dataset fetch is never retried as a unit.
	maxAttempts    = 5
	initialBackoff = 2 * time.Second
	maxBackoff     = 60 * time.Second

	requestTimeout = 120 * time.Second
)

// Query holds the optional SoQL expressions for a dataset request.
type Query struct {
	Where  string
	Select string
	Order  string
}

// Client fetches paginated records from the NYC Open Data (Socrata) API under
// a token-bucket rate limit with per-page retry.
type Client struct {
	baseURL    string
	appToken   string
	pageSize   int
	httpClient *http.Client
	limiter    *rateLimiter
	log        *logger.Logger

	// Overridable in tests to avoid real backoff sleeps.
	backoffBase time.Duration
	backoffMax  time.Duration
}

// NewClient creates a Socrata API client from configuration.
func NewClient(cfg config.SocrataConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		appToken:    cfg.AppToken,
		pageSize:    cfg.PageSize,
		httpClient:  &http.Client{Timeout: requestTimeout},
		limiter:     newRateLimiter(cfg.RateLimit),
		log:         log,
		backoffBase: initialBackoff,
		backoffMax:  maxBackoff,
	}
}

// PageSize returns the configured rows-per-page for this client.
func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchPage fetches a single page of records from a dataset. Transient
// failures are retried up to maxAttempts with exponential backoff; permanent
// failures (4xx other than 408/429, malformed JSON) return immediately.
func (c *Client) FetchPage(ctx context.Context, datasetID string, offset, limit int, q Query) ([]RawRecord, error) {
	var lastErr error
	backoff := c.backoffBase

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.log.Warn("Retrying page fetch", map[string]interface{}{
				"dataset": datasetID,
				"offset":  offset,
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.backoffMax {
				backoff = c.backoffMax
			}
		}

		records, retryable, err := c.fetchPageOnce(ctx, datasetID, offset, limit, q)
		if err == nil {
			return records, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		apiRequestsTotal.WithLabelValues("retry").Inc()
	}

	return nil, fmt.Errorf("fetch page %s offset=%d failed after %d attempts: %w",
		datasetID, offset, maxAttempts, lastErr)
}

// fetchPageOnce performs one rate-limited page request. The second return
// value reports whether the error is transient and worth retrying.
func (c *Client) fetchPageOnce(ctx context.Context, datasetID string, offset, limit int, q Query) ([]RawRecord, bool, error) {
	c.limiter.Acquire()

	endpoint := fmt.Sprintf("%s/resource/%s.json", c.baseURL, datasetID)
	params := url.Values{}
	params.Set("$limit", strconv.Itoa(limit))
	params.Set("$offset", strconv.Itoa(offset))
	if q.Where != "" {
		params.Set("$where", q.Where)
	}
	if q.Select != "" {
		params.Set("$select", q.Select)
	}
	if q.Order != "" {
		params.Set("$order", q.Order)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request for %s: %w", datasetID, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, true, fmt.Errorf("request to %s failed: %w", datasetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("dataset %s returned HTTP %d: %s", datasetID, resp.StatusCode, string(body))
		if isTransientStatus(resp.StatusCode) {
			apiRequestsTotal.WithLabelValues("http_error").Inc()
			return nil, true, err
		}
		apiRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, false, err
	}

	var records []RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		// Malformed payloads are not transient: retrying the same page would
		// return the same bytes.
		apiRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, false, fmt.Errorf("failed to decode %s response: %w", datasetID, err)
	}

	apiRequestsTotal.WithLabelValues("success").Inc()
	return records, false, nil
}

// isTransientStatus reports whether an HTTP status is worth retrying.
func isTransientStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= 500
}

// FetchBatches streams a dataset's records in fixed-size batches starting at
// startOffset, invoking fn for each full batch and once more for any
// remainder. Fetching stops when a page comes back empty or short (end of
// dataset). The sequence is resumable: interrupt it and call again with the
// offset you got to. Returns the number of records delivered.
//
// Cancellation is cooperative: the context is checked between pages, so an
// in-flight batch always finishes before the stream stops.
func (c *Client) FetchBatches(ctx context.Context, datasetID string, batchSize, startOffset int, q Query, fn func(batch []RawRecord) error) (int, error) {
	offset := startOffset
	total := 0
	batch := make([]RawRecord, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		c.log.Info("Fetching page", map[string]interface{}{
			"dataset":   datasetID,
			"offset":    offset,
			"page_size": c.pageSize,
		})

		records, err := c.FetchPage(ctx, datasetID, offset, c.pageSize, q)
		if err != nil {
			return total, err
		}

		for _, record := range records {
			batch = append(batch, record)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}

		offset += c.pageSize

		if len(records) == 0 || len(records) < c.pageSize {
			break
		}
	}

	if err := flush(); err != nil {
		return total, err
	}

	c.log.Info("Finished fetching dataset", map[string]interface{}{
		"dataset": datasetID,
		"total":   total,
	})
	return total, nil
}

// RecordCount returns the total row count for a dataset, honoring an optional
// filter expression.
func (c *Client) RecordCount(ctx context.Context, datasetID, where string) (int, error) {
	q := Query{Select: "count(*)", Where: where}
	records, err := c.FetchPage(ctx, datasetID, 0, 1, q)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	count := records[0].Int("count")
	if count == nil {
		return 0, fmt.Errorf("dataset %s count query returned no count field", datasetID)
	}
	return *count, nil
}
