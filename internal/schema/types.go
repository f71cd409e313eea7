package schema

// Wire-level record shapes as produced by the analysis models. Validation
// itself works on the generic Record; these are for consumers that want a
// typed view after validation has passed.

// EmotionResult is the emotion analysis record. markers is optional:
// records without it still validate.
type EmotionResult struct {
	Primary    string   `json:"primary"`
	Confidence float64  `json:"confidence"`
	Markers    []string `json:"markers,omitempty"`
}

// Fallacy is a single detected fallacy inside a FallacyResult.
type Fallacy struct {
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Quote       string  `json:"quote"`
	Explanation string  `json:"explanation"`
	Suggestion  string  `json:"suggestion"`
}

// FallacyResult is the fallacy analysis record.
type FallacyResult struct {
	Fallacies  []Fallacy `json:"fallacies"`
	Enrichment string    `json:"enrichment"`
}
