// Package analysis turns a review text into a sentiment label and key points.
//
// Both analyzers talk to unreliable remote providers and never fail: every
// error path ends in a fallback value, so callers always get a complete Result.
package analysis

// Label is a normalized sentiment. Classifiers return one of the constants
// below, or a provider label passed through unchanged when it matches none.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
	Unknown  Label = "unknown"
)

// KeyPointsFailed is the key points value when extraction itself blew up.
const KeyPointsFailed = "keypoint_extraction_failed"

type ReviewInput struct {
	Text string
}

type Result struct {
	Sentiment Label  `json:"sentiment"`
	KeyPoints string `json:"key_points"`
}

// Degraded reports whether either analyzer ended on its failure value.
func (r Result) Degraded() bool {
	return r.Sentiment == Unknown || r.KeyPoints == KeyPointsFailed
}
