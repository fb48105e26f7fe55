// Package answer relays fleet questions to an OpenAI-compatible Responses
// endpoint and hands back the server-sent event stream untouched.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Instructions is the system prompt sent with every question.
const Instructions = "You are a fleet analytics assistant. " +
	"Answer using only the provided JSON context. " +
	"If a required field is missing, say so explicitly and suggest what to upload. " +
	"When driver names are available, include them alongside Drive IDs. " +
	"Revenue-by-driver is derived by joining Freight to Cost on Truck ID + Month; call this out if relevant. " +
	"Be concise and include the key metric values."

// fallbackBody replaces an empty upstream error body.
const fallbackBody = "OpenAI request failed."

var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrEmptyQuestion = errors.New("question is required")
	ErrHeaderTimeout = errors.New("no response headers before timeout")
)

// UpstreamError carries a non-2xx answer from the endpoint so callers can
// relay it as is.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

// Config configures a Client. Timeout bounds the wait for response headers
// only; once the stream starts it runs until it ends or ctx is done.
// Zero means no limit.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration

	// Transport is the base round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client streams answers from the Responses API.
type Client struct {
	cfg Config
	hc  *http.Client
}

// New builds a client that authenticates with cfg.APIKey as a bearer token.
func New(cfg Config) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: cfg.Transport},
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// Model returns the model questions are sent to.
func (c *Client) Model() string { return c.cfg.Model }

type inputText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputText `json:"content"`
}

type responsesRequest struct {
	Model  string         `json:"model"`
	Stream bool           `json:"stream"`
	Input  []inputMessage `json:"input"`
}

// Prompt renders the user message: the question followed by the context as
// indented JSON. A nil context renders as {}.
func Prompt(question string, askCtx any) (string, error) {
	if askCtx == nil {
		askCtx = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(askCtx); err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	return "Question: " + question + "\n\nContext JSON:\n" + strings.TrimRight(buf.String(), "\n"), nil
}

// Stream posts the question with its context and returns the event stream.
// The caller must close it. A non-2xx answer is returned as *UpstreamError.
func (c *Client) Stream(ctx context.Context, question string, askCtx any) (io.ReadCloser, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	prompt, err := Prompt(question, askCtx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(responsesRequest{
		Model:  c.cfg.Model,
		Stream: true,
		Input: []inputMessage{
			{Role: "system", Content: []inputText{{Type: "input_text", Text: Instructions}}},
			{Role: "user", Content: []inputText{{Type: "input_text", Text: prompt}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		cancel(nil)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	slog.Info("answer.request", "model", c.cfg.Model, "question_len", len(question), "prompt_len", len(prompt))
	var timer *time.Timer
	if c.cfg.Timeout > 0 {
		timer = time.AfterFunc(c.cfg.Timeout, func() { cancel(ErrHeaderTimeout) })
	}
	resp, err := c.hc.Do(req)
	if timer != nil && !timer.Stop() && err == nil {
		// Headers arrived as the timer fired; the body is already cancelled.
		resp.Body.Close()
		err = context.Cause(ctx)
	}
	if err != nil {
		cancel(nil)
		if errors.Is(context.Cause(ctx), ErrHeaderTimeout) {
			return nil, fmt.Errorf("HTTP request failed after %s: %w", c.cfg.Timeout, ErrHeaderTimeout)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer cancel(nil)
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		text := string(b)
		if text == "" {
			text = fallbackBody
		}
		slog.Error("answer.upstream.error", "status", resp.StatusCode)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: text}
	}
	return &streamBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

// streamBody releases the request context when the stream is closed.
type streamBody struct {
	io.ReadCloser
	cancel context.CancelCauseFunc
}

func (b *streamBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel(nil)
	return err
}
