package event

import "sync/atomic"

// Token identifies the generation a piece of work was started in
type Token uint64

// Epoch is a generation counter. Every screen transition advances it,
// invalidating tokens captured before the transition.
type Epoch struct {
	gen atomic.Uint64
}

// Current returns the token for the current generation
func (e *Epoch) Current() Token {
	return Token(e.gen.Load())
}

// Advance starts a new generation and returns its token
func (e *Epoch) Advance() Token {
	return Token(e.gen.Add(1))
}

// Valid reports whether t still belongs to the current generation
func (e *Epoch) Valid(t Token) bool {
	return e.Current() == t
}
