// hablara-gate applies the hallucination gate to a transcription result.
// It reads the result JSON from a file argument or stdin, combines it
// with the model-reported confidence signals, and prints the accepted or
// suppressed result as a single JSON line. With --whisper-stdout the
// input is raw whisper.cpp stdout instead: timestamped lines are parsed
// and filtered into a transcription result first.
//
//	hablara-gate --no-speech-prob 0.92 --avg-logprob -0.3 result.json
//	hablara-gate --whisper-stdout --language de --duration 4.0 run.log
//
// Suppression is not an error: the decision is reported as a diagnostic
// on stderr and the exit code stays 0.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fidpa/hablara/internal/config"
	"github.com/fidpa/hablara/internal/telemetry"
	"github.com/fidpa/hablara/internal/transcribe"
)

func main() {
	noSpeech := flag.Float64("no-speech-prob", 0, "Model-reported no-speech probability [0,1]")
	avgLogProb := flag.Float64("avg-logprob", 0, "Model-reported average log probability (<= 0)")
	configPath := flag.String("config", "hablara.yaml", "Path to config file")
	whisperStdout := flag.Bool("whisper-stdout", false, "Input is raw whisper.cpp stdout instead of a result JSON")
	language := flag.String("language", "de", "Language code for --whisper-stdout input")
	duration := flag.Float64("duration", 0, "Audio duration in seconds for --whisper-stdout input")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [result.json]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(fmt.Errorf("load config: %w", err))
	}

	tel, err := telemetry.NewProvider(context.Background(), telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Service:  "hablara-gate",
	})
	if err != nil {
		fail(fmt.Errorf("init telemetry: %w", err))
	}
	defer tel.Shutdown(context.Background())

	data, err := readInput(flag.Arg(0))
	if err != nil {
		fail(err)
	}

	result, err := buildResult(data, *whisperStdout, *language, *duration)
	if err != nil {
		fail(err)
	}

	signals := transcribe.Signals{NoSpeechProb: *noSpeech, AvgLogProb: *avgLogProb}
	gated, suppressed := applyGate(result, signals, tel)
	if suppressed {
		diag, _ := json.Marshal(map[string]string{
			"warning": fmt.Sprintf("Hallucination detected: no_speech_prob=%.2f, avg_logprob=%.2f", signals.NoSpeechProb, signals.AvgLogProb),
		})
		fmt.Fprintln(os.Stderr, string(diag))
	}

	out, err := json.Marshal(gated)
	if err != nil {
		fail(fmt.Errorf("encode result: %w", err))
	}
	fmt.Println(string(out))
}

// buildResult turns the raw input into a transcription result: either a
// result JSON, or raw whisper.cpp stdout parsed and filtered into one.
func buildResult(data []byte, whisperStdout bool, language string, duration float64) (transcribe.Result, error) {
	if whisperStdout {
		text, _ := transcribe.ParseTimestampedOutput(string(data))
		return transcribe.Result{
			Text:              text,
			Language:          language,
			Segments:          []transcribe.Segment{},
			SpeechDurationSec: duration,
			TotalDurationSec:  duration,
		}, nil
	}

	var result transcribe.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return transcribe.Result{}, fmt.Errorf("decode transcription result: %w", err)
	}
	return result, nil
}

func applyGate(res transcribe.Result, s transcribe.Signals, tel *telemetry.Provider) (transcribe.Result, bool) {
	gated, suppressed := transcribe.ApplySuppression(res, s)
	if suppressed {
		tel.RecordSuppression()
	}
	return gated, suppressed
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func fail(err error) {
	diag, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintln(os.Stderr, string(diag))
	os.Exit(1)
}
