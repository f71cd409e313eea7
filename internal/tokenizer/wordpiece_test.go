package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeVocab(t *testing.T, tokens ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	return path
}

func TestEncodeBasic(t *testing.T) {
	path := writeVocab(t, "[PAD]", "[UNK]", "[CLS]", "[SEP]", "was", "ist", "stress", "##ig")
	tok, err := LoadWordPiece(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ids, attn := tok.Encode("Was ist Stress", 8)
	if len(ids) != 8 || len(attn) != 8 {
		t.Fatalf("expected length 8, got %d/%d", len(ids), len(attn))
	}
	// [CLS] was ist stress [SEP] [PAD] [PAD] [PAD]
	want := []int64{2, 4, 5, 6, 3, 0, 0, 0}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("ids[%d] = %d, want %d (ids=%v)", i, ids[i], id, ids)
		}
	}
	for i := 0; i < 5; i++ {
		if attn[i] != 1 {
			t.Fatalf("attention mask should cover token %d", i)
		}
	}
	for i := 5; i < 8; i++ {
		if attn[i] != 0 {
			t.Fatalf("attention mask should not cover padding at %d", i)
		}
	}
}

func TestEncodeSubwordsAndUnknown(t *testing.T) {
	path := writeVocab(t, "[PAD]", "[UNK]", "[CLS]", "[SEP]", "stress", "##ig")
	tok, err := LoadWordPiece(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ids, _ := tok.Encode("stressig", 6)
	// [CLS] stress ##ig [SEP]
	if ids[1] != 4 || ids[2] != 5 || ids[3] != 3 {
		t.Fatalf("expected subword split, got %v", ids)
	}

	ids, _ = tok.Encode("xyz", 6)
	if ids[1] != 1 {
		t.Fatalf("expected [UNK] for unmatchable word, got %v", ids)
	}
}

func TestEncodeTruncates(t *testing.T) {
	path := writeVocab(t, "[PAD]", "[UNK]", "[CLS]", "[SEP]", "a")
	tok, err := LoadWordPiece(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids, _ := tok.Encode("a a a a a a a a a a", 4)
	if len(ids) != 4 {
		t.Fatalf("expected truncation to 4, got %d", len(ids))
	}
	if ids[3] != 3 {
		t.Fatalf("expected [SEP] as final token, got %v", ids)
	}
}
