package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dailybrief/internal/core"
)

func sampleDigest() core.Digest {
	return core.Digest{
		ID:          "d-1",
		Persona:     "genai",
		GeneratedAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		Intro:       "Welcome to today's digest.",
		Sections: []core.DigestSection{
			{
				Theme:        "Model releases",
				Summary:      "Two labs shipped new models.",
				AvgScore:     0.85,
				ArticleCount: 2,
				Articles: []core.ArticleRef{
					{Title: "Lab A ships", URL: "https://example.com/a"},
					{Title: "Lab B ships", URL: "https://example.com/b"},
				},
			},
		},
		TotalArticles: 2,
		TotalClusters: 1,
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleDigest())

	for _, want := range []string{
		"# 🤖 GenAI News Digest",
		"*September 1, 2025*",
		"Welcome to today's digest.",
		"## Topic 1: Model releases",
		"*2 articles, avg score 0.85*",
		"- [Lab A ships](https://example.com/a)",
		"*Total: 2 articles across 1 topics*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestTerminal(t *testing.T) {
	out := Terminal(sampleDigest())

	for _, want := range []string{
		"🤖 GenAI News Digest",
		"Topic 1: Model releases",
		"(2 articles, avg score: 0.85)",
		"• Lab A ships",
		"Total: 2 articles across 1 topics",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q:\n%s", want, out)
		}
	}
}

func TestPersonaTitle(t *testing.T) {
	d := sampleDigest()
	d.Persona = "product"
	out := Markdown(d)
	if !strings.Contains(out, "🚀 Product Ideas Digest") {
		t.Errorf("product persona not rendered:\n%s", out)
	}
}

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteToFile("# hello\n", dir, "digest_test.md")
	if err != nil {
		t.Fatalf("WriteToFile returned error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("written outside output dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "# hello\n" {
		t.Errorf("got content %q", data)
	}
}

func TestDigestFilename(t *testing.T) {
	got := DigestFilename(sampleDigest())
	if got != "digest_genai_2025-09-01.md" {
		t.Errorf("got filename %q", got)
	}
}
