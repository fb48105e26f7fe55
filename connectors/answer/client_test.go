package answer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPrompt(t *testing.T) {
	t.Parallel()

	got, err := Prompt("Who drives most?", map[string]any{"a": "<b>"})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	want := "Question: Who drives most?\n\nContext JSON:\n{\n  \"a\": \"<b>\"\n}"
	if got != want {
		t.Fatalf("want=%q got=%q", want, got)
	}

	empty, _ := Prompt("q", nil)
	if !strings.HasSuffix(empty, "Context JSON:\n{}") {
		t.Fatalf("nil context should render {} got=%q", empty)
	}
}

func TestStream_RelaysEvents(t *testing.T) {
	t.Parallel()

	var captured responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization want=Bearer sk-test got=%q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "event: response.output_text.delta\ndata: {\"delta\":\"hi\"}\n\n")
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "gpt-test", APIKey: "sk-test"})
	body, err := c.Stream(context.Background(), "  How many trucks?  ", map[string]int{"trucks": 3})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer body.Close()
	events, _ := io.ReadAll(body)
	if !strings.Contains(string(events), "\"delta\":\"hi\"") {
		t.Fatalf("unexpected stream: %s", events)
	}

	if captured.Model != "gpt-test" || !captured.Stream || len(captured.Input) != 2 {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if captured.Input[0].Role != "system" || captured.Input[0].Content[0].Text != Instructions {
		t.Fatalf("unexpected system message: %+v", captured.Input[0])
	}
	user := captured.Input[1].Content[0]
	if user.Type != "input_text" || !strings.HasPrefix(user.Text, "Question: How many trucks?\n\nContext JSON:\n") {
		t.Fatalf("unexpected user message: %+v", user)
	}
}

func TestStream_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "m", APIKey: "k"})
	_, err := c.Stream(context.Background(), "q", nil)
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusTooManyRequests || !strings.Contains(ue.Body, "rate limited") {
		t.Fatalf("want 429 upstream error got=%v", err)
	}

	c = New(Config{Endpoint: srv.URL + "/empty", Model: "m", APIKey: "k"})
	_, err = c.Stream(context.Background(), "q", nil)
	if !errors.As(err, &ue) || ue.Status != http.StatusBadGateway || ue.Body != fallbackBody {
		t.Fatalf("want 502 with fallback body got=%v", err)
	}
}

func TestStream_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}).Stream(context.Background(), "q", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey got=%v", err)
	}
	if _, err := New(Config{APIKey: "k"}).Stream(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("want ErrEmptyQuestion got=%v", err)
	}
}

func TestStream_TimeoutDoesNotCutLongStreams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; i < 4; i++ {
			_, _ = io.WriteString(w, "data: {\"delta\":\"x\"}\n\n")
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "m", APIKey: "k", Timeout: 200 * time.Millisecond})
	body, err := c.Stream(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer body.Close()
	events, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read stream: %v (got %d bytes)", err, len(events))
	}
	if !strings.HasSuffix(string(events), "data: [DONE]\n\n") {
		t.Fatalf("stream should run to [DONE], got %q", events)
	}
}

func TestStream_HeaderTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{Endpoint: srv.URL, Model: "m", APIKey: "k", Timeout: 50 * time.Millisecond})
	if _, err := c.Stream(context.Background(), "q", nil); !errors.Is(err, ErrHeaderTimeout) {
		t.Fatalf("want ErrHeaderTimeout got=%v", err)
	}
}
