package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lojabot/backend/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Run statuses of the Assistants API. Anything terminal other than
// completed is treated as a failure.
const (
	runStatusQueued     = "queued"
	runStatusInProgress = "in_progress"
	runStatusCancelling = "cancelling"
	runStatusCompleted  = "completed"
)

// Config holds the OpenAI Assistants API client configuration
type Config struct {
	APIKey       string
	AssistantID  string
	BaseURL      string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Client drives one thread/run exchange against the OpenAI Assistants API.
// The run status poll is bounded by PollTimeout and cancellable through the
// request context.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	assistantID  string
	baseURL      string
	pollInterval time.Duration
	pollTimeout  time.Duration
	rateLimiter  *rate.Limiter
	debug        bool
}

// NewClient creates a new Assistants API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:       cfg.APIKey,
		assistantID:  cfg.AssistantID,
		baseURL:      baseURL,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		rateLimiter:  rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables request/response debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Wire types of the Assistants API, reduced to the fields this client reads

type thread struct {
	ID string `json:"id"`
}

type run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type threadMessage struct {
	Role    string           `json:"role"`
	Content []messageContent `json:"content"`
}

type messageContent struct {
	Type string       `json:"type"`
	Text *messageText `json:"text,omitempty"`
}

type messageText struct {
	Value string `json:"value"`
}

type messageList struct {
	Data []threadMessage `json:"data"`
}

// Ask runs a full exchange for one user message: create a thread, add the
// message, start a run, poll until terminal, then fetch the assistant's
// reply text.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	th, err := c.createThread(ctx)
	if err != nil {
		return "", err
	}

	if err := c.addMessage(ctx, th.ID, message); err != nil {
		return "", err
	}

	r, err := c.createRun(ctx, th.ID)
	if err != nil {
		return "", err
	}

	if err := c.waitForRun(ctx, th.ID, r.ID); err != nil {
		return "", err
	}

	return c.latestAssistantText(ctx, th.ID)
}

func (c *Client) createThread(ctx context.Context) (*thread, error) {
	var th thread
	if err := c.doJSON(ctx, http.MethodPost, "/threads", map[string]any{}, &th); err != nil {
		return nil, err
	}
	return &th, nil
}

func (c *Client) addMessage(ctx context.Context, threadID, message string) error {
	body := map[string]any{
		"role":    "user",
		"content": message,
	}
	return c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, nil)
}

func (c *Client) createRun(ctx context.Context, threadID string) (*run, error) {
	body := map[string]any{
		"assistant_id": c.assistantID,
	}
	var r run
	if err := c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) getRun(ctx context.Context, threadID, runID string) (*run, error) {
	var r run
	if err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// waitForRun polls the run status at a fixed interval until it leaves the
// in-flight states. The wait is bounded by pollTimeout and aborts when the
// request context is cancelled.
func (c *Client) waitForRun(ctx context.Context, threadID, runID string) error {
	deadline := time.Now().Add(c.pollTimeout)

	for {
		r, err := c.getRun(ctx, threadID, runID)
		if err != nil {
			return err
		}

		if c.debug {
			log.Debug().Str("run_id", runID).Str("status", r.Status).Msg("assistant run poll")
		}

		switch r.Status {
		case runStatusQueued, runStatusInProgress, runStatusCancelling:
			// keep polling
		case runStatusCompleted:
			return nil
		default:
			return fmt.Errorf("%w: status %q", domain.ErrRunNotCompleted, r.Status)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: after %s", domain.ErrRunTimeout, c.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// latestAssistantText fetches the thread messages in ascending order and
// returns the text of the last assistant message. An assistant that
// completed without emitting text yields a fixed notice instead of an error.
func (c *Client) latestAssistantText(ctx context.Context, threadID string) (string, error) {
	var list messageList
	if err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/messages?order=asc", nil, &list); err != nil {
		return "", err
	}

	text := ""
	for _, msg := range list.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, content := range msg.Content {
			if content.Type == "text" && content.Text != nil {
				text = content.Text.Value
			}
		}
	}

	if text == "" {
		return "(Assistente não retornou texto)", nil
	}
	return text, nil
}

// doJSON executes one API request with auth and beta headers, decoding the
// JSON response into out when out is non-nil
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAssistantAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		if c.debug {
			log.Debug().Int("status", resp.StatusCode).Str("path", path).
				Str("body", string(respBody)).Msg("assistant API error")
		}
		return fmt.Errorf("%w: status %d", domain.ErrAssistantAPIFailure, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
