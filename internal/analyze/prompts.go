package analyze

import "fmt"

// Mode selects the analysis prompt and target schema.
type Mode string

const (
	ModeEmotion Mode = "emotion"
	ModeFallacy Mode = "fallacy"
)

// Generation limits per mode; fallacy output carries chain-of-evidence
// reasoning and needs more room.
const (
	emotionMaxTokens = 256
	fallacyMaxTokens = 512
)

const emotionPrompt = `Du bist ein Experte für emotionale Sprachanalyse. Analysiere die Emotion in folgendem Text.

Verfügbare Emotionen:
- neutral: Neutrale, sachliche Aussage
- calm: Ruhig, gelassen, entspannt
- stress: Gestresst, unter Druck, angespannt
- excitement: Aufgeregt, enthusiastisch, energiegeladen
- uncertainty: Unsicher, zweifelnd, unentschlossen
- frustration: Frustriert, genervt, ungeduldig
- joy: Freudig, glücklich, positiv
- doubt: Zweifelnd, skeptisch, hinterfragend
- conviction: Überzeugt, bestimmt, sicher
- aggression: Aggressiv, wütend, konfrontativ

Antworte NUR mit gültigem JSON in diesem Format:
{
  "primary": "emotion_name",
  "confidence": 0.8,
  "markers": ["Textmarker 1", "Textmarker 2"]
}

Text: %s

JSON Output:`

const fallacyPrompt = `Du bist ein Experte für logische Fehlschlüsse und kritisches Denken. Analysiere folgenden Text auf logische Fehlschlüsse.

Verfügbare Fehlschluss-Typen:
- ad_hominem: Angriff auf die Person statt auf das Argument
- straw_man: Verzerrung der Gegenposition
- false_dichotomy: Entweder-Oder ohne Alternativen
- appeal_authority: Unberechtigter Autoritätsverweis
- circular_reasoning: Schlussfolgerung = Prämisse
- slippery_slope: Übertriebene Kausalitätskette

Schritt 1 - Evidenz sammeln:
Welche Aussagen im Text könnten Fehlschlüsse sein? Liste alle verdächtigen Passagen.

Schritt 2 - Klassifizierung:
Ordne jede Passage einem Fehlschluss-Typ zu (wenn zutreffend).

Schritt 3 - JSON Output:
Antworte NUR mit gültigem JSON in diesem Format:
{
  "fallacies": [
    {
      "type": "ad_hominem",
      "confidence": 0.8,
      "quote": "Zitat aus dem Text",
      "explanation": "Erklärung des Fehlschlusses",
      "suggestion": "Verbesserungsvorschlag"
    }
  ],
  "enrichment": "Zusammenfassende Analyse des Arguments"
}

Text: %s

Chain of Evidence Gathering:`

// BuildPrompt renders the mode's prompt template around the user text.
func BuildPrompt(mode Mode, text string) (prompt string, maxTokens int, err error) {
	switch mode {
	case ModeEmotion:
		return fmt.Sprintf(emotionPrompt, text), emotionMaxTokens, nil
	case ModeFallacy:
		return fmt.Sprintf(fallacyPrompt, text), fallacyMaxTokens, nil
	default:
		return "", 0, fmt.Errorf("unknown analysis mode %q", mode)
	}
}
