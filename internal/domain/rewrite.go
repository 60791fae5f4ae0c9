package domain

import "context"

// RewriteRequest describes one flagged sentence handed to the generative model.
type RewriteRequest struct {
	Issue    string
	Sentence string
	// Context carries retrieved chunk contents used to ground the rewrite.
	Context []string
}

// RewriteResult is the generative model's answer.
type RewriteResult struct {
	Suggestion  string
	Explanation string
}

// Rewriter is the generative rewrite collaborator. Implementations wrap a
// remote model call; absence of a Rewriter disables the generative cascade
// stage entirely.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (RewriteResult, error)
}
