package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ukaji/marketbrief/internal/model"
)

func testBriefing() *model.Briefing {
	return &model.Briefing{
		Query:       "マーケット",
		CollectedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Statements: []model.Statement{
			{Text: "原油先物は前日比で上昇", SourceName: "Reuters", SourceURL: "https://www.reuters.com/markets"},
			{Text: "一部地域で電力需要が増加"},
		},
		FeedErrors: []string{"Reuters Business の取得に失敗しました"},
	}
}

func TestRenderer_MarkdownDocument(t *testing.T) {
	r := NewRenderer(true)

	doc, err := r.MarkdownDocument(testBriefing(), DefaultOptions())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(doc, "# 市況ブリーフィング: マーケット\n") {
		t.Errorf("Expected document header, got %q", doc)
	}
	if !strings.Contains(doc, "- 原油先物は前日比で上昇 [出所: Reuters(https://www.reuters.com/markets)]") {
		t.Error("Expected cited statement line in document")
	}
	if !strings.Contains(doc, UnknownSourceSectionTitle) {
		t.Error("Expected unknown-source section in document")
	}
	if !strings.Contains(doc, "## 取得エラー") {
		t.Error("Expected feed error section in document")
	}
	if !strings.Contains(doc, "---") {
		t.Error("Expected footer in document")
	}
}

func TestRenderer_MarkdownDocument_NoFooter(t *testing.T) {
	r := NewRenderer(false)

	doc, err := r.MarkdownDocument(testBriefing(), DefaultOptions())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(doc, "---") {
		t.Errorf("Expected no footer, got %q", doc)
	}
}

func TestRenderer_MarkdownDocument_InvalidStatement(t *testing.T) {
	r := NewRenderer(true)
	briefing := testBriefing()
	briefing.Statements = append(briefing.Statements, model.Statement{Text: ""})

	if _, err := r.MarkdownDocument(briefing, DefaultOptions()); err == nil {
		t.Fatal("Expected error for empty statement text")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	r := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "briefing.json")

	if err := r.RenderJSON(testBriefing(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected JSON file, got %v", err)
	}

	var decoded model.Briefing
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(decoded.Statements) != 2 {
		t.Errorf("Expected 2 statements, got %d", len(decoded.Statements))
	}
	if decoded.Statements[1].SourceName != "" {
		t.Errorf("Expected empty source name to survive round trip, got %q", decoded.Statements[1].SourceName)
	}
}

func TestRenderer_RenderMarkdownFile(t *testing.T) {
	r := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "briefing.md")

	if err := r.RenderMarkdown(testBriefing(), path, DefaultOptions()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected markdown file, got %v", err)
	}
	if !strings.Contains(string(data), UnknownSourceSectionTitle) {
		t.Error("Expected unknown-source section in written file")
	}
}
