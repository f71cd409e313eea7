// Package provider is the boundary to the generation call itself. The
// engine never loads or runs a language model; it hands a prompt to a
// Provider and gets raw, untrusted text back.
package provider

import "context"

// Request is one generation request.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Response carries the raw model output text.
type Response struct {
	Text string
}

// Provider abstracts the model runtime behind the analysis pipeline.
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}
