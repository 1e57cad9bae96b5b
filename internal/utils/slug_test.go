package utils

import "testing"

func TestSlugify_Basic(t *testing.T) {
	got := Slugify("Best Gin for Gin and Tonic")
	if got != "best-gin-for-gin-and-tonic" {
		t.Fatalf("unexpected slug: %q", got)
	}
}

func TestSlugify_StripsPunctuationAndCollapsesDashes(t *testing.T) {
	got := Slugify("Fever-Tree vs. Schweppes: Which Tonic?!")
	if got != "fever-tree-vs-schweppes-which-tonic" {
		t.Fatalf("unexpected slug: %q", got)
	}
}

func TestSlugify_TrimsLeadingAndTrailingDashes(t *testing.T) {
	got := Slugify("  --Hendrick's Gin--  ")
	if got != "hendricks-gin" {
		t.Fatalf("unexpected slug: %q", got)
	}
}
