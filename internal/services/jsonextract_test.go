package services

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONObject_MarkdownFence(t *testing.T) {
	in := "Here is your article:\n```json\n{\"title\": \"Best Gin\"}\n```\nLet me know if you need changes."
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"title": "Best Gin"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONObject_NestedObjects(t *testing.T) {
	in := `{"title": "x", "schemaMarkup": {"@type": "Article", "author": {"name": "a"}}} trailing text`
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("extracted text is not valid JSON: %v", err)
	}
	if parsed["title"] != "x" {
		t.Fatalf("unexpected title: %v", parsed["title"])
	}
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	in := `{"content": "use {curly} braces and a \" quote"}`
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != in {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	if _, err := ExtractJSONObject("sorry, I cannot help with that"); err == nil {
		t.Fatal("expected error for text without an object")
	}
}

func TestExtractJSONObject_Truncated(t *testing.T) {
	if _, err := ExtractJSONObject(`{"title": "cut off mid`); err == nil {
		t.Fatal("expected error for unterminated object")
	}
}
