package redraft

import (
	"context"
	"strings"
	"testing"
)

const styleGuide = `Write in active voice. The subject of the sentence should perform the action.

Use simple verbs. Write "use" instead of "utilize" and "click" instead of "click on".

Keep sentences short. A sentence longer than twenty five words is hard to follow and should be split.`

func newKeywordClient(t *testing.T) *Client {
	t.Helper()
	client, err := New()
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClient_IngestSearchRoundTrip(t *testing.T) {
	client := newKeywordClient(t)
	ctx := context.Background()

	count, err := client.Ingest(ctx, Document{
		ID:         "style-guide",
		Content:    styleGuide,
		SourceType: "style_guide",
		Title:      "House Style",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least one chunk")
	}

	results := client.Search(ctx, "active voice sentence", 3)
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	if !strings.Contains(results[0].Content, "active voice") {
		t.Errorf("top result = %q, want the active-voice guidance", results[0].Content)
	}
	if results[0].Score <= 0 || results[0].Score > 1 {
		t.Errorf("score = %f, want (0, 1]", results[0].Score)
	}
	if results[0].SourceDocID != "style-guide" {
		t.Errorf("source doc = %s", results[0].SourceDocID)
	}
}

func TestClient_SuggestFallsBackToRulesWithEmptyIndex(t *testing.T) {
	client := newKeywordClient(t)

	got := client.Suggest(context.Background(), "wordiness", "We utilize Docker in order to deploy.", "")
	if got.Suggestion != "We use Docker to deploy." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
	if got.Method != "generic_fallback" {
		t.Errorf("method = %s, want generic_fallback", got.Method)
	}
	if got.Confidence != "low" {
		t.Errorf("confidence = %s, want low", got.Confidence)
	}
}

func TestClient_RemoveAndStats(t *testing.T) {
	client := newKeywordClient(t)
	ctx := context.Background()

	if _, err := client.Ingest(ctx, Document{ID: "doc-1", Content: styleGuide}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	stats := client.Stats()
	if stats.ChunkCount == 0 || !stats.SparseAvailable {
		t.Errorf("stats after ingest = %+v", stats)
	}
	if stats.DenseAvailable || stats.VectorCount != 0 {
		t.Errorf("keyword-only client must not report a dense engine: %+v", stats)
	}

	removed, err := client.Remove(ctx, "doc-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed != stats.ChunkCount {
		t.Errorf("removed = %d, want %d", removed, stats.ChunkCount)
	}
	if after := client.Stats(); after.ChunkCount != 0 {
		t.Errorf("chunks left after removal: %d", after.ChunkCount)
	}
}

func TestClient_InvalidOptionsRejected(t *testing.T) {
	if _, err := New(WithFusionWeights(-1, -1)); err == nil {
		t.Error("expected error for negative fusion weights")
	}
	if _, err := New(WithChunking(ChunkingConfig{Method: "recursive"})); err == nil {
		t.Error("expected error for unknown chunking method")
	}
	if _, err := New(WithCascadeThresholds(0.75, 0.5, 0.6)); err == nil {
		t.Error("expected error for extended threshold above medium")
	}
}
