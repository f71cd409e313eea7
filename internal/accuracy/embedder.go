package accuracy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/fidpa/hablara/internal/tokenizer"
)

// Embedder runs a sentence-embedding ONNX model and mean-pools its
// token-level outputs into one fixed-size vector per input. Tensors are
// preallocated at construction; Run is serialized by a mutex.
type Embedder struct {
	session *ort.AdvancedSession
	tok     *tokenizer.WordPiece
	seqLen  int
	dim     int

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	output        *ort.Tensor[float32]

	mu sync.Mutex
}

// NewEmbedder creates an ONNX session for the model at modelPath, using
// the WordPiece vocabulary at vocabPath. dim is the model's embedding
// width (384 for MiniLM-class models).
func NewEmbedder(modelPath, vocabPath string, seqLen, dim int) (*Embedder, error) {
	if seqLen <= 0 {
		seqLen = 256
	}
	if dim <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", modelPath, err)
	}
	if err := initRuntime(filepath.Dir(modelPath)); err != nil {
		return nil, err
	}

	tok, err := tokenizer.LoadWordPiece(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	inputShape := ort.NewShape(1, int64(seqLen))
	inputIDs, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	attnMask, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	tokenTypes, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate token_type_ids tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(seqLen), int64(dim)))
	if err != nil {
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		[]ort.Value{inputIDs, attnMask, tokenTypes},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Embedder{
		session:       session,
		tok:           tok,
		seqLen:        seqLen,
		dim:           dim,
		inputIDs:      inputIDs,
		attentionMask: attnMask,
		tokenTypeIDs:  tokenTypes,
		output:        output,
	}, nil
}

// Embed returns the mean-pooled sentence embedding for text.
func (e *Embedder) Embed(text string) ([]float32, error) {
	if e == nil || e.session == nil {
		return nil, errors.New("embedder not initialized")
	}

	ids, attn := e.tok.Encode(text, e.seqLen)

	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.inputIDs.GetData(), ids)
	copy(e.attentionMask.GetData(), attn)
	// token_type_ids are all zeros for single-sentence inputs
	types := e.tokenTypeIDs.GetData()
	for i := range types {
		types[i] = 0
	}

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	raw := e.output.GetData()
	tokens := make([][]float32, e.seqLen)
	for i := 0; i < e.seqLen; i++ {
		tokens[i] = raw[i*e.dim : (i+1)*e.dim]
	}
	return MeanPool(tokens, attn), nil
}

// Close releases the session and its tensors.
func (e *Embedder) Close() {
	if e == nil {
		return
	}
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{e.inputIDs, e.attentionMask, e.tokenTypeIDs} {
		if t != nil {
			t.Destroy()
		}
	}
	if e.output != nil {
		e.output.Destroy()
	}
}
