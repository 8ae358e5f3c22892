// Package api talks to the chat-log search endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"utsulog/internal/domain"
	"utsulog/internal/observability"
)

var tracer = otel.Tracer("utsulog/api")

// maxErrorBody caps how much of a failed response is kept in StatusError
const maxErrorBody = 512

// Options configures a Client
type Options struct {
	BaseURL   string
	EmojiURL  string // defaults to {BaseURL}/emojis.json
	Timeout   time.Duration
	UserAgent string
	Logger    *observability.Logger
	Transport http.RoundTripper // defaults to http.DefaultTransport
}

// Client is the search endpoint client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	emojiURL  string
	userAgent string
	http      *http.Client
	logger    *observability.Logger
}

// NewClient creates a client for the API at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", opts.BaseURL)
	}

	emojiURL := opts.EmojiURL
	if emojiURL == "" {
		emojiURL = base.String() + "/emojis.json"
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "utsulog/dev"
	}

	return &Client{
		baseURL:   base.String(),
		emojiURL:  emojiURL,
		userAgent: userAgent,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		logger: logger,
	}, nil
}

// SearchValues encodes criteria and offset as the search endpoint's query string
func SearchValues(criteria domain.SearchCriteria, offset int) url.Values {
	params := url.Values{}
	params.Set("q", criteria.QueryText)
	params.Set("from_", strconv.Itoa(offset))
	params.Set("exact", strconv.FormatBool(criteria.ExactMatch))

	sortOrder := criteria.SortOrder
	if sortOrder == "" {
		sortOrder = domain.SortDescending
	}
	params.Set("sort_order", string(sortOrder))

	messageType := criteria.MessageType
	if messageType == "" {
		messageType = domain.MessageAll
	}
	params.Set("message_type", string(messageType))

	if criteria.DateFrom != nil {
		params.Set("date_from", domain.FormatDate(criteria.DateFrom))
	}
	if criteria.DateTo != nil {
		params.Set("date_to", domain.FormatDate(criteria.DateTo))
	}
	if author := strings.TrimSpace(criteria.AuthorName); author != "" {
		params.Set("author_name", author)
	}
	if videoID := strings.TrimSpace(criteria.VideoID); videoID != "" {
		params.Set("video_id", videoID)
	}
	return params
}

// Search fetches one page of results starting at offset
func (c *Client) Search(ctx context.Context, criteria domain.SearchCriteria, offset int) (domain.SearchPage, error) {
	ctx, span := tracer.Start(ctx, "api.search", trace.WithAttributes(
		attribute.String("query", criteria.QueryText),
		attribute.Int("offset", offset),
		attribute.Bool("exact", criteria.ExactMatch),
	))
	defer span.End()

	reqURL := c.baseURL + "/search?" + SearchValues(criteria, offset).Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return domain.SearchPage{}, failSpan(span, fmt.Errorf("search from %d: %w", offset, err))
	}
	page, err := resp.page()
	if err != nil {
		return domain.SearchPage{}, failSpan(span, fmt.Errorf("search from %d: %w", offset, err))
	}

	span.SetAttributes(
		attribute.Int("results", len(page.Results)),
		attribute.Int("total", page.Total),
	)
	return page, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Videos fetches the video catalog
func (c *Client) Videos(ctx context.Context) ([]domain.Video, error) {
	var resp videosResponse
	if err := c.getJSON(ctx, c.baseURL+"/videos", &resp); err != nil {
		return nil, fmt.Errorf("fetching videos: %w", err)
	}
	if resp.Videos == nil {
		return nil, fmt.Errorf("fetching videos: %w: missing videos", ErrMalformedResponse)
	}
	return *resp.Videos, nil
}

// Emojis fetches the shortcode to image URL map. Keys are stored without colons.
func (c *Client) Emojis(ctx context.Context) (domain.EmojiMap, error) {
	var raw map[string]string
	if err := c.getJSON(ctx, c.emojiURL, &raw); err != nil {
		return nil, fmt.Errorf("fetching emojis: %w", err)
	}
	emojis := make(domain.EmojiMap, len(raw))
	for code, u := range raw {
		name := strings.Trim(code, ":")
		if name == "" || u == "" {
			continue
		}
		emojis[name] = u
	}
	return emojis, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.HTTP("request failed", "url", reqURL, "request_id", requestID, "error", err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.HTTP("request done",
		"url", reqURL,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
