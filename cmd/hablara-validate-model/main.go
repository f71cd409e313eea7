// hablara-validate-model compares embeddings from the full-precision and
// quantized ONNX models over the fixed test corpus and gates on mean
// cosine similarity.
//
// Exit codes: 0 validation passed, 1 accuracy below threshold, 2 runtime
// error (missing file, model load failure).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fidpa/hablara/internal/accuracy"
	"github.com/fidpa/hablara/internal/config"
)

const (
	separatorWidth  = 70
	textColumnWidth = 50
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "hablara.yaml", "Path to config file")
	modelDir := flag.String("model-dir", "", "Model directory (overrides config)")
	threshold := flag.Float64("threshold", 0, "Similarity threshold (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 2
	}
	acc := cfg.Accuracy
	if *modelDir != "" {
		acc.ModelDir = *modelDir
	}
	if *threshold > 0 {
		acc.Threshold = *threshold
	}

	report, err := validate(acc)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return 2
	}

	fmt.Println(separator())
	if report.Pass {
		fmt.Printf("PASS: average similarity %.6f >= %.2f\n", report.Mean, report.Threshold)
		fmt.Println("Quantization maintains accuracy for embedding search")
		fmt.Println(separator())
		return 0
	}
	fmt.Printf("FAIL: average similarity %.6f < %.2f\n", report.Mean, report.Threshold)
	fmt.Println("Consider a less aggressive quantization")
	fmt.Println(separator())
	return 1
}

func validate(acc config.AccuracyConfig) (*accuracy.Report, error) {
	fp32Path, int8Path, vocabPath := accuracy.ModelPaths(acc.ModelDir, acc.FP32File, acc.INT8File, acc.VocabFile)

	for _, path := range []string{fp32Path, int8Path, vocabPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("artifact not found: %s (run the quantization step first)", path)
		}
	}

	fmt.Println(separator())
	fmt.Println("ONNX Model Accuracy Validation: FP32 vs INT8")
	fmt.Println(separator())

	ref, err := accuracy.NewEmbedder(fp32Path, vocabPath, acc.SeqLen, acc.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("load fp32 model: %w", err)
	}
	defer ref.Close()

	candidate, err := accuracy.NewEmbedder(int8Path, vocabPath, acc.SeqLen, acc.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("load int8 model: %w", err)
	}
	defer candidate.Close()

	report, err := accuracy.Compare(ref, candidate, accuracy.DefaultCorpus, acc.Threshold)
	if err != nil {
		return nil, err
	}

	fmt.Printf("%-*s %12s\n", textColumnWidth, "Test Sentence", "Similarity")
	for _, c := range report.Comparisons {
		status := "ok"
		if c.Similarity < report.Threshold {
			status = "LOW"
		}
		fmt.Printf("%-*s %11.6f %s\n", textColumnWidth, truncate(c.Sentence), c.Similarity, status)
	}
	fmt.Printf("%-*s %11.6f\n", textColumnWidth, "Average Similarity:", report.Mean)
	fmt.Printf("%-*s %11.6f\n", textColumnWidth, "Min Similarity:", report.Min)
	fmt.Printf("%-*s %11.6f\n", textColumnWidth, "Max Similarity:", report.Max)

	return report, nil
}

func truncate(s string) string {
	if len(s) <= textColumnWidth {
		return s
	}
	return s[:textColumnWidth-3] + "..."
}

func separator() string {
	out := make([]byte, separatorWidth)
	for i := range out {
		out[i] = '='
	}
	return string(out)
}
