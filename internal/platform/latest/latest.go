// Package latest issues monotonic request tokens for async boundaries. A result is applied only
// when its token is still the most recently issued one; older results are discarded.
package latest

import (
	"errors"
	"sync/atomic"
)

// ErrStale is returned for a result whose token was superseded before it resolved.
var ErrStale = errors.New("latest: result superseded by a newer request")

// Token identifies one issued request. The zero Token is never issued.
type Token uint64

// Tracker hands out increasing tokens. The zero value is ready to use.
type Tracker struct {
	last atomic.Uint64
}

// Issue returns a new token that supersedes every token issued before it.
func (t *Tracker) Issue() Token {
	return Token(t.last.Add(1))
}

// IsLatest reports whether tok is the most recently issued token.
func (t *Tracker) IsLatest(tok Token) bool {
	return tok != 0 && uint64(tok) == t.last.Load()
}

// Last returns the most recently issued token, or 0 if none.
func (t *Tracker) Last() Token {
	return Token(t.last.Load())
}
