package transcribe

import "strings"

// Non-speech and hallucination markers emitted by whisper.cpp. Any line
// containing one of these is dropped.
var nonSpeechMarkers = []string{
	"[musik]",
	"[music]",
	"* musik *",
	"* music *",
	"[applaus]",
	"[applause]",
	"[laughter]",
	"[lachen]",
	"[stille]",
	"[silence]",
	"[blank_audio]",
	"[no speech]",
	"(silence)",
	"(stille)",
	// common YouTube-outro hallucinations
	"danke fürs zuschauen",
	"danke fuer's zuschauen",
	"danke für's zuschauen",
	"thanks for watching",
	"abonnieren",
	"subscribe",
	"like and subscribe",
	"gefällt mir",
	"kanal",
	"channel",
}

// Lines that are nothing but a decoder artifact or a standalone filler.
var artifactLines = map[string]struct{}{
	"...":  {},
	"..":   {},
	".":    {},
	"-":    {},
	"--":   {},
	"♪":    {},
	"♪♪":   {},
	"äh":   {},
	"ähm":  {},
	"äähm": {},
	"mhm":  {},
	"hmm":  {},
}

// ParseTimestampedOutput extracts transcript text from whisper.cpp stdout.
// Lines look like
//
//	[00:00:00.000 --> 00:00:02.000]   Text here
//
// Non-speech markers, hallucination phrases, and artifact-only lines are
// filtered out; surviving text parts keep their order and are joined with
// a single space. The bool is false when nothing usable remains.
func ParseTimestampedOutput(stdout string) (string, bool) {
	var parts []string

	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "[") || !strings.Contains(trimmed, "-->") {
			continue
		}
		bracketEnd := strings.IndexByte(trimmed, ']')
		if bracketEnd < 0 {
			continue
		}
		text := strings.TrimSpace(trimmed[bracketEnd+1:])
		if text == "" {
			continue
		}
		if isNonSpeech(text) {
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func isNonSpeech(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range nonSpeechMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	_, artifact := artifactLines[strings.TrimSpace(lower)]
	return artifact
}
