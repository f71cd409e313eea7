// hablara-analyze runs one emotion or fallacy analysis over a local
// inference server and prints the validated record as a single JSON line.
//
//	hablara-analyze emotion "Ich bin so frustriert!" --model qwen2.5-7b
//	hablara-analyze fallacy "Das ist doch Unsinn..."
//
// Success: record JSON on stdout, exit 0. Any failure: an error object on
// stderr naming the mode and model, nothing on stdout, exit 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fidpa/hablara/internal/analyze"
	"github.com/fidpa/hablara/internal/config"
	"github.com/fidpa/hablara/internal/provider"
	"github.com/fidpa/hablara/internal/schema"
	"github.com/fidpa/hablara/internal/telemetry"
)

func main() {
	modelFlag := flag.String("model", "", "Analysis model name (default from config)")
	configPath := flag.String("config", "hablara.yaml", "Path to config file")
	serverURL := flag.String("server", "", "OpenAI-compatible inference server base URL")
	timeout := flag.Duration("timeout", 120*time.Second, "Generation timeout")
	repair := flag.Bool("repair", false, "Attempt JSON repair before rejecting malformed records")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	mode := analyze.Mode(flag.Arg(0))
	text := flag.Arg(1)

	// Local override file for server URL and model dirs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(mode, *modelFlag, fmt.Errorf("load config: %w", err))
	}

	baseURL := *serverURL
	if baseURL == "" {
		baseURL = os.Getenv("HABLARA_SERVER_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Service:  "hablara-analyze",
	})
	if err != nil {
		fail(mode, *modelFlag, fmt.Errorf("init telemetry: %w", err))
	}
	defer tel.Shutdown(context.Background())

	analyzer := &analyze.Analyzer{
		Provider:  provider.NewOpenAI(baseURL, os.Getenv("HABLARA_API_KEY"), *timeout, 0),
		Validator: &schema.Validator{Repair: *repair},
		Config:    &cfg.Analysis,
		Telemetry: tel,
	}

	// stdout is reserved for the record; diagnostics go to stderr.
	log.Printf("[hablara-analyze] mode: %s", mode)
	log.Printf("[hablara-analyze] text length: %d chars", len(text))

	rec, err := analyzer.Run(ctx, mode, *modelFlag, text)
	if err != nil {
		fail(mode, *modelFlag, err)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		fail(mode, *modelFlag, fmt.Errorf("encode result: %w", err))
	}
	fmt.Println(string(out))
}

func fail(mode analyze.Mode, model string, err error) {
	var pErr *analyze.Error
	if errors.As(err, &pErr) {
		model = pErr.Model
		err = pErr.Err
	}
	diag, _ := json.Marshal(map[string]string{
		"error": err.Error(),
		"mode":  string(mode),
		"model": model,
	})
	fmt.Fprintln(os.Stderr, string(diag))
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <emotion|fallacy> <text>\n", os.Args[0])
	flag.PrintDefaults()
}
