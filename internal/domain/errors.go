package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidRequest signals a malformed request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRewriteProviderError signals a generative rewrite provider failure.
	ErrRewriteProviderError = errors.New("rewrite provider error")
	// ErrEngineUnavailable signals that an optional retrieval engine is not configured.
	ErrEngineUnavailable = errors.New("retrieval engine unavailable")
)
