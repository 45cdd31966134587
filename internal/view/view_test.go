package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/msomdec/sentiment-board/internal/domain"
)

func TestDashboardPage_EscapesUserText(t *testing.T) {
	var buf bytes.Buffer
	data := DashboardData{
		Username: "alice",
		Records: []domain.SentimentRecord{
			{ID: 1, Text: "<script>alert(1)</script>", Label: "NEGATIVE", Score: 0.123},
		},
	}
	if err := DashboardPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := buf.String()
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("record text must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("expected escaped record text")
	}
	if !strings.Contains(html, "NEGATIVE (0.12)") {
		t.Fatal("expected label with two-decimal score")
	}
}

func TestDashboardPage_Result(t *testing.T) {
	var buf bytes.Buffer
	data := DashboardData{
		Username: "bob",
		Flash:    "Analysis saved successfully!",
		Text:     "lovely day",
		Result:   &domain.SentimentRecord{Text: "lovely day", Label: "POSITIVE", Score: 0.9998},
	}
	if err := DashboardPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"Welcome, bob!",
		`<div class="alert alert-info" role="alert">Analysis saved successfully!</div>`,
		"POSITIVE (Confidence: 1.00)",
		"No saved analyses yet.",
		`data-on:click="@get(&#39;/history&#39;)"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestHistoryList(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.SentimentRecord{
		{ID: 2, Text: "newer", Label: "POSITIVE", Score: 0.9},
		{ID: 1, Text: "older", Label: "NEGATIVE", Score: 0.8},
	}
	if err := HistoryList(records).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := buf.String()
	if !strings.HasPrefix(html, `<div id="history">`) {
		t.Fatalf("expected history container, got %s", html)
	}
	if n := strings.Count(html, `class="list-group-item"`); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
	if strings.Index(html, "newer") > strings.Index(html, "older") {
		t.Fatal("expected records in the given order")
	}

	buf.Reset()
	if err := HistoryList(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "No saved analyses yet.") {
		t.Fatal("expected empty history message")
	}
}

func TestLoginPage_ShowsFlash(t *testing.T) {
	var buf bytes.Buffer
	if err := LoginPage("Invalid username or password.").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Invalid username or password.") {
		t.Fatal("expected flash message")
	}
	if !strings.Contains(buf.String(), `action="/login"`) {
		t.Fatal("expected login form")
	}
}
