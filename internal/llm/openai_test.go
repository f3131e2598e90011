package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ukaji/marketbrief/internal/model"
)

func openAITestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 100},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestOpenAIProvider_Summarize(t *testing.T) {
	server := openAITestServer(t, "市場は落ち着いた動き。Source: https://www.reuters.com/markets")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o-mini",
		Timeout:        5,
		StrictEvidence: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		Briefing:     model.Briefing{Query: "マーケット"},
		EvidenceURLs: []string{"https://www.reuters.com/markets"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(resp.Summary, "市場は落ち着いた動き") {
		t.Errorf("Unexpected summary %q", resp.Summary)
	}
	if len(resp.CitedURLs) != 1 || resp.CitedURLs[0] != "https://www.reuters.com/markets" {
		t.Errorf("Unexpected cited URLs %v", resp.CitedURLs)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_CitationLeakRejected(t *testing.T) {
	server := openAITestServer(t, "See https://evil.example/insider for details")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Timeout:        5,
		StrictEvidence: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{
		Briefing:     model.Briefing{Query: "マーケット"},
		EvidenceURLs: []string{"https://www.reuters.com/markets"},
	})
	if err == nil {
		t.Fatal("Expected citation leak error")
	}
	if !strings.Contains(err.Error(), "citation leak") {
		t.Errorf("Expected citation leak error, got %v", err)
	}
}

func TestExtractURLs(t *testing.T) {
	text := "See https://a.example/x, and (https://b.example/y). Repeat https://a.example/x!"
	urls := extractURLs(text)

	if len(urls) != 2 {
		t.Fatalf("Expected 2 unique URLs, got %v", urls)
	}
	if urls[0] != "https://a.example/x" || urls[1] != "https://b.example/y" {
		t.Errorf("Unexpected URLs %v", urls)
	}
}

func TestBuildPrompt_ListsStatementsAndAllowlist(t *testing.T) {
	briefing := model.Briefing{
		Query: "マーケット",
		Statements: []model.Statement{
			{Text: "原油先物は前日比で上昇", SourceName: "Reuters", SourceURL: "https://www.reuters.com/markets"},
			{Text: "一部地域で電力需要が増加"},
		},
	}

	prompt := BuildPrompt(briefing, []string{"https://www.reuters.com/markets"})

	if !strings.Contains(prompt, "https://www.reuters.com/markets") {
		t.Error("Expected allowlisted URL in prompt")
	}
	if !strings.Contains(prompt, "原油先物は前日比で上昇") {
		t.Error("Expected cited statement in prompt")
	}
	if !strings.Contains(prompt, "(source unknown)") {
		t.Error("Expected unknown-source statement marked in prompt")
	}
}
