package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ukaji/marketbrief/internal/collect"
	"github.com/ukaji/marketbrief/internal/model"
)

type stubBriefer struct {
	lastQuery string
	briefing  *model.Briefing
}

func (s *stubBriefer) Collect(ctx context.Context, query string, targets []collect.FeedTarget) *model.Briefing {
	s.lastQuery = query
	b := *s.briefing
	b.Query = query
	return &b
}

func testBriefing() *model.Briefing {
	items := []model.NewsItem{
		{Source: "Reuters", Title: "原油先物が上昇", Link: "https://www.reuters.com/markets/oil", Published: "Mon, 02 Jan 2006 15:04:05 +0900"},
		{Source: "Google News", Title: "円相場は小動き"},
	}
	return &model.Briefing{
		Query:       "マーケット",
		CollectedAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		Items:       items,
		Statements:  model.Statements(items),
		FeedErrors:  []string{"Reuters (Business) の取得に失敗しました: timeout"},
	}
}

func newTestServer(stub *stubBriefer) *Server {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	return NewServer(cfg, stub)
}

func TestHandleIndex_RendersBriefing(t *testing.T) {
	stub := &stubBriefer{briefing: testBriefing()}
	server := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if stub.lastQuery != "マーケット" {
		t.Errorf("Expected default query, got %q", stub.lastQuery)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "市況ブリーフィング: マーケット") {
		t.Error("Expected page title with query")
	}
	if !strings.Contains(body, "原油先物が上昇") {
		t.Error("Expected item title in page")
	}
	if !strings.Contains(body, "[出所: Reuters(https://www.reuters.com/markets/oil)]") {
		t.Error("Expected citation in report body")
	}
	if !strings.Contains(body, "## 出所不明の情報") {
		t.Error("Expected unknown-source section in report body")
	}
	if !strings.Contains(body, "取得に失敗しました") {
		t.Error("Expected feed error in page")
	}
}

func TestHandleIndex_QueryParamOverridesDefault(t *testing.T) {
	stub := &stubBriefer{briefing: testBriefing()}
	server := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/?q=%E6%97%A5%E9%8A%80", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if stub.lastQuery != "日銀" {
		t.Errorf("Expected query 日銀, got %q", stub.lastQuery)
	}
}

func TestHandleHealth(t *testing.T) {
	stub := &stubBriefer{briefing: testBriefing()}
	server := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected health body %q", rec.Body.String())
	}
}
