package model

import (
	"encoding/json"
	"testing"
)

func TestNewsItem_Statement(t *testing.T) {
	item := NewsItem{
		Source:    "Reuters Business",
		Title:     "原油先物は前日比で上昇",
		Link:      "https://www.reuters.com/markets/oil",
		Published: "Fri, 14 Mar 2025 09:00:00 +0000",
	}

	stmt := item.Statement()
	if stmt.Text != item.Title {
		t.Errorf("Expected title as text, got %q", stmt.Text)
	}
	if stmt.SourceName != item.Source || stmt.SourceURL != item.Link {
		t.Errorf("Expected provenance carried over, got %q %q", stmt.SourceName, stmt.SourceURL)
	}
	if !stmt.HasCompleteSource() {
		t.Error("Expected complete source for linked item")
	}

	unlinked := NewsItem{Source: "Google News", Title: "リンクなし"}
	if unlinked.Statement().HasCompleteSource() {
		t.Error("Expected unknown source for unlinked item")
	}
}

func TestStatement_JSONAbsentAndEmptyKeysIdentical(t *testing.T) {
	var absent, empty Statement
	if err := json.Unmarshal([]byte(`{"text":"x"}`), &absent); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"text":"x","source_name":"","source_url":""}`), &empty); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if absent != empty {
		t.Errorf("Expected identical statements, got %+v vs %+v", absent, empty)
	}
	if absent.HasCompleteSource() || empty.HasCompleteSource() {
		t.Error("Expected unknown source either way")
	}
}
