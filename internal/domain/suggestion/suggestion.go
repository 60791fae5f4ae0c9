package suggestion

// Confidence is a coarse three-level quality estimate attached to a
// suggestion. It drives cascade short-circuiting.
type Confidence string

// Confidence levels.
const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

// IsValid checks if the confidence is one of the supported values.
func (c Confidence) IsValid() bool {
	return c == Low || c == Medium || c == High
}

// Request is one unit of suggestion work: a flagged sentence, the issue a
// detector raised against it, and surrounding document text for context.
type Request struct {
	Issue           string
	Sentence        string
	DocumentContext string
}

// Attempt is the outcome of one cascade strategy. The orchestrator keeps a
// short-lived ordered list of these per request; only the winning attempt
// survives past the request.
type Attempt struct {
	Suggestion string
	Confidence Confidence
	Method     string
	Sources    []string
	Success    bool
}
