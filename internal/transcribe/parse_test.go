package transcribe

import "testing"

func TestParseTimestampedOutput(t *testing.T) {
	stdout := `whisper_init: loaded model
[00:00:00.000 --> 00:00:02.000]   Guten Morgen.
[00:00:02.000 --> 00:00:04.000]   Wie geht es dir?

some progress line without timestamp`

	got, ok := ParseTimestampedOutput(stdout)
	if !ok {
		t.Fatalf("expected text")
	}
	if got != "Guten Morgen. Wie geht es dir?" {
		t.Fatalf("unexpected join: %q", got)
	}
}

func TestParseTimestampedOutputFiltersNonSpeech(t *testing.T) {
	stdout := `[00:00:00.000 --> 00:00:02.000]  [Musik]
[00:00:02.000 --> 00:00:03.000]  ...
[00:00:03.000 --> 00:00:04.000]  ähm
[00:00:04.000 --> 00:00:06.000]  Danke fürs Zuschauen!
[00:00:06.000 --> 00:00:08.000]  Das ist der eigentliche Satz.`

	got, ok := ParseTimestampedOutput(stdout)
	if !ok {
		t.Fatalf("expected surviving text")
	}
	if got != "Das ist der eigentliche Satz." {
		t.Fatalf("filter failed: %q", got)
	}
}

func TestParseTimestampedOutputAllFiltered(t *testing.T) {
	stdout := `[00:00:00.000 --> 00:00:02.000]  [BLANK_AUDIO]
[00:00:02.000 --> 00:00:04.000]  (Stille)`

	if got, ok := ParseTimestampedOutput(stdout); ok {
		t.Fatalf("expected no text, got %q", got)
	}
}
