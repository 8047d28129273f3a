package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChat(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Error("missing bearer token")
		}

		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatal(err)
		}
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", body["model"])
		}
		if body["temperature"].(float64) != 0.3 {
			t.Errorf("temperature = %v", body["temperature"])
		}

		w.Write([]byte(`{
			"choices": [{"message": {"content": "  A luminous scene.  "}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 90, "total_tokens": 210}
		}`))
	}))
	defer upstream.Close()

	c := NewClient("sk-test", WithBaseURL(upstream.URL))
	res, err := c.Chat(context.Background(), ChatRequest{
		Model:       "gpt-4o-mini",
		Prompt:      "describe the painting",
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != "A luminous scene." {
		t.Errorf("content not trimmed: %q", res.Content)
	}
	if res.TotalTokens != 210 {
		t.Errorf("usage not captured: %d", res.TotalTokens)
	}
}

func TestChatVisionPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL *struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		parts := body.Messages[0].Content
		if len(parts) != 2 || parts[0].Type != "text" || parts[1].Type != "image_url" {
			t.Errorf("unexpected vision parts: %+v", parts)
		}
		if parts[1].ImageURL.URL != "data:image/jpeg;base64,abc" {
			t.Errorf("image url = %q", parts[1].ImageURL.URL)
		}
		w.Write([]byte(`{"choices": [{"message": {"content": "{}"}}]}`))
	}))
	defer upstream.Close()

	c := NewClient("sk-test", WithBaseURL(upstream.URL))
	_, err := c.Chat(context.Background(), ChatRequest{
		Model:    "gpt-4o",
		Prompt:   "analyze this image",
		ImageURL: "data:image/jpeg;base64,abc",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSpeech(t *testing.T) {
	audio := []byte{0xff, 0xf3, 0x01, 0x02}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body speechRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Voice != "nova" || body.ResponseFormat != "mp3" {
			t.Errorf("unexpected speech request: %+v", body)
		}
		w.Write(audio)
	}))
	defer upstream.Close()

	c := NewClient("sk-test", WithBaseURL(upstream.URL))
	got, err := c.Speech(context.Background(), SpeechRequest{
		Model: "tts-1", Voice: "nova", Input: "hello", Format: "mp3",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(audio) {
		t.Errorf("audio length %d", len(got))
	}
}

func TestStatusError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer upstream.Close()

	c := NewClient("sk-test", WithBaseURL(upstream.URL))
	_, err := c.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini", Prompt: "x"})

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if statusErr.HTTPStatusCode() != http.StatusTooManyRequests {
		t.Errorf("status = %d", statusErr.StatusCode)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("")
	if c.Configured() {
		t.Error("empty key should not report configured")
	}
	if _, err := c.Chat(context.Background(), ChatRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Speech(context.Background(), SpeechRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
