package embedding

import "context"

// Embedder converts free text into a numeric vector representation using a
// remote model. Every call must resolve within its context deadline; a slow
// or failed provider surfaces as a bounded-time error, never a hang.
type Embedder interface {
	// Model returns the provider model identifier.
	Model() string
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
