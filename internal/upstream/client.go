// Package upstream talks to the learning-platform backend API. Every call
// passes the caller's identity as the user_id query parameter and unwraps the
// `{ "data": ... }` envelope the backend puts around each payload.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fundalabs/dashboard-api/internal/models"
)

// Client is the HTTP client for the upstream learning-platform API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewClient builds a Client against the given base URL. The timeout bounds a
// single request end to end.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "upstream_client").Logger(),
		tracer:  otel.Tracer("github.com/fundalabs/dashboard-api/internal/upstream"),
	}
}

// envelope is the wrapper the backend puts around every response body.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// get issues the request and returns the raw `data` member of the envelope.
func (c *Client) get(ctx context.Context, path, identity string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s%s?user_id=%s", c.baseURL, path, url.QueryEscape(identity))

	ctx, span := c.tracer.Start(ctx, "upstream.get", trace.WithAttributes(
		attribute.String("upstream.path", path),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream call completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := &NetworkError{StatusCode: resp.StatusCode}
		span.RecordError(err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("malformed response body: %v", err)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, errInvalidFormat()
	}

	return env.Data, nil
}

// DashboardStats fetches /api/dashboard/stats. The data member must be an
// object.
func (c *Client) DashboardStats(ctx context.Context, identity string) (models.DashboardStatsRaw, error) {
	data, err := c.get(ctx, "/api/dashboard/stats", identity)
	if err != nil {
		return models.DashboardStatsRaw{}, err
	}

	var stats models.DashboardStatsRaw
	if err := json.Unmarshal(data, &stats); err != nil {
		return models.DashboardStatsRaw{}, errInvalidFormat()
	}

	return stats, nil
}

// LearningPath fetches /api/dashboard/learning-path. The data member must be
// an array.
func (c *Client) LearningPath(ctx context.Context, identity string) ([]models.LearningPathRaw, error) {
	data, err := c.get(ctx, "/api/dashboard/learning-path", identity)
	if err != nil {
		return nil, err
	}

	var items []models.LearningPathRaw
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errInvalidFormat()
	}

	return items, nil
}

// Quizzes fetches /api/quizzes. The data member must be an object carrying a
// `quizzes` array.
func (c *Client) Quizzes(ctx context.Context, identity string) ([]models.QuizRaw, error) {
	data, err := c.get(ctx, "/api/quizzes", identity)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Quizzes []models.QuizRaw `json:"quizzes"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Quizzes == nil {
		return nil, errInvalidFormat()
	}

	return wrapper.Quizzes, nil
}

// Challenges fetches /api/challenges. The data member must be an object
// carrying a `challenges` array.
func (c *Client) Challenges(ctx context.Context, identity string) ([]models.ChallengeRaw, error) {
	data, err := c.get(ctx, "/api/challenges", identity)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Challenges []models.ChallengeRaw `json:"challenges"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Challenges == nil {
		return nil, errInvalidFormat()
	}

	return wrapper.Challenges, nil
}

// QuizStats fetches /api/quizzes/stats.
func (c *Client) QuizStats(ctx context.Context, identity string) (models.QuizStatsRaw, error) {
	data, err := c.get(ctx, "/api/quizzes/stats", identity)
	if err != nil {
		return models.QuizStatsRaw{}, err
	}

	var stats models.QuizStatsRaw
	if err := json.Unmarshal(data, &stats); err != nil {
		return models.QuizStatsRaw{}, errInvalidFormat()
	}

	return stats, nil
}

// ChallengeStats fetches /api/challenges/stats.
func (c *Client) ChallengeStats(ctx context.Context, identity string) (models.ChallengeStatsRaw, error) {
	data, err := c.get(ctx, "/api/challenges/stats", identity)
	if err != nil {
		return models.ChallengeStatsRaw{}, err
	}

	var stats models.ChallengeStatsRaw
	if err := json.Unmarshal(data, &stats); err != nil {
		return models.ChallengeStatsRaw{}, errInvalidFormat()
	}

	return stats, nil
}

// ChallengeDetail fetches /api/challenges/{id}.
func (c *Client) ChallengeDetail(ctx context.Context, identity string, challengeID int64) (models.ChallengeDetailRaw, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/challenges/%d", challengeID), identity)
	if err != nil {
		return models.ChallengeDetailRaw{}, err
	}

	var detail models.ChallengeDetailRaw
	if err := json.Unmarshal(data, &detail); err != nil {
		return models.ChallengeDetailRaw{}, errInvalidFormat()
	}

	return detail, nil
}
