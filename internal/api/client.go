// Package api is the HTTP client for the study spot backend's REST contract.
// Calls are never retried; every failure is returned as a *NetworkError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Operation names used for spans, metrics and errors
const (
	OpListStudySpots     = "list_study_spots"
	OpGetStudySpot       = "get_study_spot"
	OpCreateStudySpot    = "create_study_spot"
	OpUpdateStudySpot    = "update_study_spot"
	OpDeleteStudySpot    = "delete_study_spot"
	OpRecommend          = "recommend"
	OpListReviews        = "list_reviews"
	OpListReviewsByQuery = "list_reviews_by_query"
	OpCreateReview       = "create_review"
)

// maxErrorBody caps how much of a failed reply is kept in NetworkError.Body
const maxErrorBody = 512

// Client talks to the study spot backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
	spotGroup  singleflight.Group
}

// NewClient creates a client from the api config section
func NewClient(cfg *config.APIConfig, logger *observability.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		),
	}, logger)
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client (used by tests)
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *observability.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the backend root this client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListStudySpots fetches every study spot. Concurrent calls share one request.
// The shared request is detached from any single caller's cancellation; each caller
// still stops waiting when its own ctx is done.
func (c *Client) ListStudySpots(ctx context.Context) ([]models.StudySpot, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.spotGroup.DoChan(OpListStudySpots, func() (interface{}, error) {
		var raw json.RawMessage
		if err := c.do(shared, OpListStudySpots, http.MethodGet, "/study-spots", nil, nil, &raw); err != nil {
			return nil, err
		}
		spots, err := decodeList[models.StudySpot](raw, "study_spots")
		if err != nil {
			return nil, &NetworkError{Op: OpListStudySpots, Cause: err}
		}
		c.warnUnreadable(shared, OpListStudySpots, spots)
		return spots, nil
	})

	select {
	case <-ctx.Done():
		return nil, &NetworkError{Op: OpListStudySpots, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		spots := res.Val.([]models.StudySpot)
		if res.Shared {
			c.logger.Debug(ctx, "Shared in-flight study spot request", map[string]interface{}{"count": len(spots)})
		}
		return append([]models.StudySpot(nil), spots...), nil
	}
}

// warnUnreadable logs spots whose busyness estimate could not be read; they are kept without one
func (c *Client) warnUnreadable(ctx context.Context, op string, spots []models.StudySpot) {
	for _, spot := range spots {
		if spot.UnreadableBusyness == "" {
			continue
		}
		c.logger.Warn(ctx, "Ignoring unreadable busyness estimate", map[string]interface{}{
			"op":                op,
			"study_spot_id":     spot.ID,
			"busyness_estimate": spot.UnreadableBusyness,
		})
	}
}

// GetStudySpot fetches one study spot
func (c *Client) GetStudySpot(ctx context.Context, id int) (*models.StudySpot, error) {
	var spot models.StudySpot
	if err := c.do(ctx, OpGetStudySpot, http.MethodGet, spotPath(id), nil, nil, &spot, observability.AttributeSpotID(id)); err != nil {
		return nil, err
	}
	c.warnUnreadable(ctx, OpGetStudySpot, []models.StudySpot{spot})
	return &spot, nil
}

// CreateStudySpot creates a spot and returns the server's copy
func (c *Client) CreateStudySpot(ctx context.Context, spot models.StudySpot) (*models.StudySpot, error) {
	var created models.StudySpot
	if err := c.do(ctx, OpCreateStudySpot, http.MethodPost, "/study-spots", nil, spot, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStudySpot applies a partial update and returns the server's copy
func (c *Client) UpdateStudySpot(ctx context.Context, id int, patch models.SpotPatch) (*models.StudySpot, error) {
	var updated models.StudySpot
	if err := c.do(ctx, OpUpdateStudySpot, http.MethodPut, spotPath(id), nil, patch, &updated, observability.AttributeSpotID(id)); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStudySpot removes a spot; only the status is meaningful
func (c *Client) DeleteStudySpot(ctx context.Context, id int) error {
	return c.do(ctx, OpDeleteStudySpot, http.MethodDelete, spotPath(id), nil, nil, nil, observability.AttributeSpotID(id))
}

// GetRecommendations posts the survey answers and returns the recommended spots.
// The ranking is the backend's; callers must not reinterpret it.
func (c *Client) GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error) {
	var out struct {
		RecommendedSpots []models.StudySpot `json:"recommended_spots"`
	}
	if err := c.do(ctx, OpRecommend, http.MethodPost, "/study-spots/recommend", nil, prefs, &out); err != nil {
		return nil, err
	}
	c.warnUnreadable(ctx, OpRecommend, out.RecommendedSpots)
	return out.RecommendedSpots, nil
}

// ListReviews fetches the reviews of one spot from GET /reviews/:id
func (c *Client) ListReviews(ctx context.Context, spotID int) ([]models.Review, error) {
	var out struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := c.do(ctx, OpListReviews, http.MethodGet, "/reviews/"+strconv.Itoa(spotID), nil, nil, &out, observability.AttributeSpotID(spotID)); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// ListReviewsByQuery fetches reviews from GET /reviews?studySpotId=. A spotID of 0 lists every review.
func (c *Client) ListReviewsByQuery(ctx context.Context, spotID int) ([]models.Review, error) {
	var query url.Values
	if spotID > 0 {
		query = url.Values{"studySpotId": {strconv.Itoa(spotID)}}
	}
	var raw json.RawMessage
	if err := c.do(ctx, OpListReviewsByQuery, http.MethodGet, "/reviews", query, nil, &raw, observability.AttributeSpotID(spotID)); err != nil {
		return nil, err
	}
	reviews, err := decodeList[models.Review](raw, "reviews")
	if err != nil {
		return nil, &NetworkError{Op: OpListReviewsByQuery, Cause: err}
	}
	return reviews, nil
}

// CreateReview submits a review. When the backend only acknowledges the write,
// the returned Review is built from the submitted fields.
func (c *Client) CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpCreateReview, http.MethodPost, "/reviews", nil, review, &raw, observability.AttributeSpotID(review.StudySpotID)); err != nil {
		return nil, err
	}

	created := models.Review{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &created); err != nil {
			return nil, &NetworkError{Op: OpCreateReview, Cause: err}
		}
	}
	if created.StudySpotID == 0 {
		created.StudySpotID = review.StudySpotID
	}
	if created.Name == "" && created.Review == "" {
		created.Name, created.Stars, created.Review = review.Name, review.Stars, review.Review
	}

	observability.RecordReviewSubmitted(ctx, review.StudySpotID)
	return &created, nil
}

func spotPath(id int) string {
	return "/study-spots/" + strconv.Itoa(id)
}

// do performs one request. A non-nil out receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}, attrs ...attribute.KeyValue) (err error) {
	attrs = append(attrs, attribute.String("http.method", method), attribute.String("api.path", path))
	ctx, span := observability.TraceAPIFunction(ctx, op, attrs...)
	defer observability.FinishSpan(span, &err)
	defer func() { observability.RecordAPIRequest(ctx, op, err) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return &NetworkError{Op: op, Cause: marshalErr}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return &NetworkError{Op: op, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "spotfinder/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "Study spot backend unreachable", map[string]interface{}{"op": op, "error": err.Error()})
		return &NetworkError{Op: op, Cause: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn(ctx, "Failed to close response body", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	span.SetAttributes(observability.AttributeStatusCode(resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Cause: err}
	}

	c.logger.Debug(ctx, "Study spot backend call", map[string]interface{}{
		"op":          op,
		"method":      method,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(bytes.TrimSpace(data)), maxErrorBody)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Cause: err}
	}
	return nil
}

// decodeList accepts either a bare JSON array or an object holding the array under key.
// An object without the key decodes to an empty list.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	inner, ok := envelope[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
