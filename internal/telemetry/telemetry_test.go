package telemetry

import (
	"context"
	"testing"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Enabled {
		t.Fatalf("provider should report disabled")
	}

	// No-op instruments must accept records; the local snapshot still
	// counts them.
	p.RecordAnalysis("emotion", "ok")
	p.RecordAnalysis("fallacy", "error")
	p.RecordExtractionFailure("no_opening_brace")
	p.RecordSuppression()
	p.Shutdown(context.Background())

	snap := p.MetricsSnapshot()
	if snap.Analyses != 2 || snap.ExtractionFailures != 1 || snap.Suppressions != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *Provider
	p.RecordAnalysis("emotion", "ok")
	p.RecordExtractionFailure("other")
	p.RecordSuppression()
	p.Shutdown(context.Background())
	if snap := p.MetricsSnapshot(); snap != (Snapshot{}) {
		t.Fatalf("nil provider should report empty snapshot, got %+v", snap)
	}
}
