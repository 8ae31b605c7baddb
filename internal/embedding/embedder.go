// Package embedding defines the text-to-vector contract and the
// process-wide lazy initialiser shared by all requests.
package embedding

import (
	"context"
	"fmt"
)

// Dimension is the fixed length of every query and stored vector.
const Dimension = 512

// Embedder converts free text into a fixed-length numeric vector.
type Embedder interface {
	// Embed returns the vector for a single text. It never substitutes a
	// fallback vector on failure; that policy belongs to the caller.
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// Error marks a model load or inference failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("embedding %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// ZeroVector returns the all-zero fallback vector. By the zero-norm
// cosine policy it scores 0 against everything.
func ZeroVector() []float64 { return make([]float64, Dimension) }
