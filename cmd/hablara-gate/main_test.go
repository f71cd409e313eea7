package main

import (
	"context"
	"testing"

	"github.com/fidpa/hablara/internal/telemetry"
	"github.com/fidpa/hablara/internal/transcribe"
)

func testTelemetry(t *testing.T) *telemetry.Provider {
	t.Helper()
	tel, err := telemetry.NewProvider(context.Background(), telemetry.Config{})
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	return tel
}

func TestApplyGateRecordsSuppression(t *testing.T) {
	tel := testTelemetry(t)
	res := transcribe.Result{Text: "Vielen Dank.", Language: "de"}

	gated, suppressed := applyGate(res, transcribe.Signals{NoSpeechProb: 0.95, AvgLogProb: -0.1}, tel)
	if !suppressed || gated.Text != "" {
		t.Fatalf("expected suppression, got %+v", gated)
	}
	if snap := tel.MetricsSnapshot(); snap.Suppressions != 1 {
		t.Fatalf("expected 1 suppression recorded, got %+v", snap)
	}
}

func TestApplyGateAcceptRecordsNothing(t *testing.T) {
	tel := testTelemetry(t)
	res := transcribe.Result{Text: "Guten Morgen.", Language: "de"}

	gated, suppressed := applyGate(res, transcribe.Signals{NoSpeechProb: 0.1, AvgLogProb: -0.2}, tel)
	if suppressed || gated.Text != "Guten Morgen." {
		t.Fatalf("expected accept, got %+v", gated)
	}
	if snap := tel.MetricsSnapshot(); snap.Suppressions != 0 {
		t.Fatalf("accept must not record a suppression, got %+v", snap)
	}
}

func TestBuildResultFromJSON(t *testing.T) {
	data := []byte(`{"text": "Hallo", "language": "de", "segments": [], "speech_duration_sec": 2, "total_duration_sec": 2}`)
	res, err := buildResult(data, false, "", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Text != "Hallo" || res.Language != "de" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := buildResult([]byte("not json"), false, "", 0); err == nil {
		t.Fatalf("invalid JSON must fail")
	}
}

func TestBuildResultFromWhisperStdout(t *testing.T) {
	data := []byte(`[00:00:00.000 --> 00:00:02.000]  [Musik]
[00:00:02.000 --> 00:00:04.000]  Guten Morgen.`)

	res, err := buildResult(data, true, "de", 4.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Text != "Guten Morgen." {
		t.Fatalf("expected filtered transcript, got %q", res.Text)
	}
	if res.Language != "de" || res.TotalDurationSec != 4.0 || res.SpeechDurationSec != 4.0 {
		t.Fatalf("metadata not applied: %+v", res)
	}
	if res.Segments == nil {
		t.Fatalf("segments should be empty, not null")
	}
}

func TestBuildResultFromWhisperStdoutAllFiltered(t *testing.T) {
	data := []byte(`[00:00:00.000 --> 00:00:02.000]  [BLANK_AUDIO]`)
	res, err := buildResult(data, true, "de", 2.0)
	if err != nil {
		t.Fatalf("fully filtered stdout is an empty transcript, not an error: %v", err)
	}
	if res.Text != "" {
		t.Fatalf("expected empty text, got %q", res.Text)
	}
}
