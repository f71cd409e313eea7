// Package transcribe holds the transcription result shape and the
// probabilistic hallucination gate applied to it. Whisper-family models
// produce spurious transcripts for audio without genuine speech; the gate
// detects those from model-reported confidence signals, without looking at
// the transcript content.
package transcribe

// Signals are the model-reported confidence values for one transcription
// attempt. NoSpeechProb is in [0,1], AvgLogProb is <= 0. Consumed once,
// never retained.
type Signals struct {
	NoSpeechProb float64 `json:"no_speech_prob"`
	AvgLogProb   float64 `json:"avg_logprob"`
}

// Segment is one timed slice of the transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the transcription output shape consumed by the desktop client.
type Result struct {
	Text              string    `json:"text"`
	Language          string    `json:"language"`
	Segments          []Segment `json:"segments"`
	SpeechDurationSec float64   `json:"speech_duration_sec"`
	TotalDurationSec  float64   `json:"total_duration_sec"`
}

// ShouldSuppress reports whether a transcript is a likely hallucination.
// Two independent tripwires: a moderate no-speech probability combined
// with low decoder confidence, or an overwhelming no-speech probability
// on its own. All comparisons are strict.
func ShouldSuppress(s Signals) bool {
	if s.NoSpeechProb > 0.5 && s.AvgLogProb < -0.8 {
		return true
	}
	return s.NoSpeechProb > 0.8
}

// ApplySuppression empties the transcript text and segments when the
// signals trip the gate, keeping language and duration metadata unchanged.
// The returned bool is the gate decision. Suppression is a successful
// detection of silence or noise, not a failure.
func ApplySuppression(res Result, s Signals) (Result, bool) {
	if !ShouldSuppress(s) {
		return res, false
	}
	res.Text = ""
	res.Segments = []Segment{}
	return res, true
}
