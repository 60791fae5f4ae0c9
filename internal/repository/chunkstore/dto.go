package chunkstore

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// toHash flattens a chunk into Redis hash fields. Metadata rides along as a
// JSON blob; everything else is a scalar field.
func toHash(c *chunk.Chunk) (map[string]string, error) {
	fields := map[string]string{
		"id":            c.ID(),
		"content":       c.Content(),
		"start_char":    strconv.Itoa(c.StartChar()),
		"end_char":      strconv.Itoa(c.EndChar()),
		"chunk_type":    string(c.ChunkType()),
		"word_count":    strconv.Itoa(c.WordCount()),
		"source_doc_id": c.SourceDocID(),
	}
	if len(c.Metadata()) > 0 {
		meta, err := json.Marshal(c.Metadata())
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		fields["metadata"] = string(meta)
	}
	return fields, nil
}

// fromHash hydrates a chunk from Redis hash fields.
func fromHash(fields map[string]string) (chunk.Chunk, error) {
	id := fields["id"]
	if id == "" {
		return chunk.Chunk{}, fmt.Errorf("hash missing chunk id")
	}

	startChar, err := strconv.Atoi(fields["start_char"])
	if err != nil {
		return chunk.Chunk{}, fmt.Errorf("parse start_char for %s: %w", id, err)
	}
	endChar, err := strconv.Atoi(fields["end_char"])
	if err != nil {
		return chunk.Chunk{}, fmt.Errorf("parse end_char for %s: %w", id, err)
	}
	wordCount, err := strconv.Atoi(fields["word_count"])
	if err != nil {
		return chunk.Chunk{}, fmt.Errorf("parse word_count for %s: %w", id, err)
	}

	var meta map[string]string
	if raw := fields["metadata"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return chunk.Chunk{}, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
		}
	}

	return chunk.Reconstruct(
		id, fields["content"], startChar, endChar,
		chunk.Type(fields["chunk_type"]), wordCount, fields["source_doc_id"], meta,
	), nil
}
