package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestOpenAIProviderNameFromBaseURL(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"", "openai"},
		{"https://api.openai.com/v1", "openai"},
		{"https://api.deepseek.com/v1", "deepseek"},
		{"https://api.minimax.chat/v1", "minimax"},
		{"https://api.moonshot.cn/v1", "kimi"},
		{"https://dashscope.aliyuncs.com/compatible-mode/v1", "qwen"},
	}
	for _, tt := range tests {
		p := NewOpenAIProvider("key", tt.baseURL, "", 0)
		if got := p.Name(); got != tt.want {
			t.Errorf("Name() for %q = %q, want %q", tt.baseURL, got, tt.want)
		}
	}
}

// One Complete call must be exactly one HTTP request: retry policy on
// 429/5xx belongs to the session layer's caller, never to the transport.
func TestOpenAIProviderDoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL, "test-model", 5*time.Second)
	_, err := p.Complete(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected an error from a 500 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests for one Complete call, want 1", got)
	}
}

func TestAnthropicProviderDoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", srv.URL, "test-model", 5*time.Second)
	_, err := p.Complete(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected an error from a 500 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests for one Complete call, want 1", got)
	}
}

func TestBuildOpenAIMessages(t *testing.T) {
	req := &Request{
		System: "be brief",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "bye"},
		},
	}
	msgs := buildOpenAIMessages(req)
	if len(msgs) != 4 {
		t.Fatalf("built %d messages, want 4 (system + 3 turns)", len(msgs))
	}
	if msgs[0].OfSystem == nil {
		t.Error("first message is not a system message")
	}
	if msgs[1].OfUser == nil || msgs[2].OfAssistant == nil || msgs[3].OfUser == nil {
		t.Error("turn roles not preserved")
	}
}

func TestBuildOpenAIMessagesNoSystem(t *testing.T) {
	msgs := buildOpenAIMessages(&Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if len(msgs) != 1 {
		t.Fatalf("built %d messages, want 1", len(msgs))
	}
	if msgs[0].OfSystem != nil {
		t.Error("unexpected system message")
	}
}

func TestBuildAnthropicMessages(t *testing.T) {
	msgs := buildAnthropicMessages([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if len(msgs) != 2 {
		t.Fatalf("built %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("roles = %q, %q; want user, assistant", msgs[0].Role, msgs[1].Role)
	}
}
