// Package llm provides the text-generation clients the pipeline depends on.
// Every other component treats generation as a single capability: prompt in,
// untyped text out.
package llm

import "context"

// Client is the interface all generation providers implement.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
