package domain

// Document is a source document handed over by the ingestion/extraction layer.
// The pipeline never mutates it; chunking and indexing derive everything else.
type Document struct {
	ID         string
	Content    string
	FileName   string
	SourceType string
	Title      string
	Metadata   map[string]string
}
