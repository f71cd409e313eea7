// Package accuracy compares sentence embeddings from a full-precision and
// a quantized variant of the same model and gates on their mean cosine
// similarity. It backs the release check that quantization did not
// degrade the embedding space the retrieval search relies on.
package accuracy

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
)

// DefaultThreshold is the minimum acceptable mean cosine similarity
// between the full-precision and quantized embeddings.
const DefaultThreshold = 0.98

// DefaultCorpus covers German/English phrasing across the analysis
// domains: emotions, fallacies, nonviolent communication, cognitive
// distortions, and communication models.
var DefaultCorpus = []string{
	"Was ist Stress?",
	"Gewaltfreie Kommunikation nach Rosenberg",
	"Kognitive Verzerrungen erkennen",
	"Ich bin wütend und frustriert.",
	"Das ist ein Strohmann-Argument.",
	"Emotionen verstehen und regulieren",
	"Vier-Seiten-Modell von Schulz von Thun",
	"How does emotion detection work?",
}

// Comparison pairs one corpus sentence with its similarity score.
type Comparison struct {
	Sentence   string  `json:"sentence"`
	Similarity float64 `json:"similarity"`
}

// Report aggregates per-sentence comparisons into the pass/fail decision.
type Report struct {
	Comparisons []Comparison `json:"comparisons"`
	Mean        float64      `json:"mean"`
	Min         float64      `json:"min"`
	Max         float64      `json:"max"`
	Threshold   float64      `json:"threshold"`
	Pass        bool         `json:"pass"`
}

// MeanPool averages token-level embeddings weighted by the attention
// mask, producing one fixed-size vector. A zero mask sum is floored at
// one to avoid dividing by zero.
func MeanPool(tokens [][]float32, mask []int64) []float32 {
	if len(tokens) == 0 {
		return nil
	}
	dim := len(tokens[0])
	pooled := make([]float32, dim)

	var covered float32
	for i, tok := range tokens {
		if i >= len(mask) || mask[i] == 0 {
			continue
		}
		covered++
		for j := 0; j < dim && j < len(tok); j++ {
			pooled[j] += tok[j]
		}
	}
	if covered == 0 {
		covered = 1
	}
	for j := range pooled {
		pooled[j] /= covered
	}
	return pooled
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Dimension mismatches and zero-magnitude vectors are errors, not
// silently zeroed results.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, errors.New("cannot compute similarity for zero-magnitude vectors")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Compare embeds every corpus sentence with both models and builds the
// report. A sentence whose comparison fails (inference error, zero
// magnitude) is reported to the log and excluded; if every sentence
// fails, Compare returns an error.
func Compare(ref, candidate *Embedder, corpus []string, threshold float64) (*Report, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(corpus) == 0 {
		corpus = DefaultCorpus
	}

	var comparisons []Comparison
	for _, sentence := range corpus {
		refEmb, err := ref.Embed(sentence)
		if err != nil {
			log.Printf("accuracy: reference embedding failed for %q: %v", sentence, err)
			continue
		}
		candEmb, err := candidate.Embed(sentence)
		if err != nil {
			log.Printf("accuracy: candidate embedding failed for %q: %v", sentence, err)
			continue
		}
		sim, err := CosineSimilarity(refEmb, candEmb)
		if err != nil {
			log.Printf("accuracy: similarity failed for %q: %v", sentence, err)
			continue
		}
		comparisons = append(comparisons, Comparison{Sentence: sentence, Similarity: sim})
	}

	if len(comparisons) == 0 {
		return nil, errors.New("all embedding comparisons failed")
	}
	return NewReport(comparisons, threshold), nil
}

// NewReport computes the aggregate statistics and the pass decision for a
// set of comparisons.
func NewReport(comparisons []Comparison, threshold float64) *Report {
	report := &Report{
		Comparisons: comparisons,
		Threshold:   threshold,
		Min:         math.Inf(1),
		Max:         math.Inf(-1),
	}
	var sum float64
	for _, c := range comparisons {
		sum += c.Similarity
		report.Min = math.Min(report.Min, c.Similarity)
		report.Max = math.Max(report.Max, c.Similarity)
	}
	report.Mean = sum / float64(len(comparisons))
	report.Pass = report.Mean >= threshold
	return report
}

// ModelPaths resolves the fixed artifact locations inside a model dir.
func ModelPaths(modelDir, fp32File, int8File, vocabFile string) (fp32, int8, vocab string) {
	return filepath.Join(modelDir, fp32File),
		filepath.Join(modelDir, int8File),
		filepath.Join(modelDir, vocabFile)
}
