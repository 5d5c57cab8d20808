package signer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Pool is a bounded pool of reusable objects. Acquire never blocks: it
// hands out a pooled instance when one is available and otherwise
// constructs a fresh one. Release returns an object to the pool, or
// silently discards it when the pool is already full.
//
// The pool enforces no ownership discipline of its own. Callers must
// release on every exit path (defer) and must reset any mutable state
// before reuse; a pooled object is owned by exactly one caller between
// Acquire and Release.
type Pool[T any] struct {
	ch    chan T
	newFn func() T
}

// NewPool creates a pool holding at most max idle objects, constructing
// new ones with newFn on demand. Max must be at least 1.
func NewPool[T any](max int, newFn func() T) (*Pool[T], error) {
	if max < 1 {
		return nil, fmt.Errorf("pool capacity must be at least 1, got %d", max)
	}
	if newFn == nil {
		return nil, fmt.Errorf("pool factory must not be nil")
	}
	return &Pool[T]{
		ch:    make(chan T, max),
		newFn: newFn,
	}, nil
}

// Acquire returns a pooled object if one is idle, else a newly
// constructed one.
func (p *Pool[T]) Acquire() T {
	select {
	case v := <-p.ch:
		return v
	default:
		return p.newFn()
	}
}

// Release returns v to the pool. If the pool is full the object is
// dropped for the garbage collector; there is no back-pressure.
func (p *Pool[T]) Release(v T) {
	select {
	case p.ch <- v:
	default:
	}
}

// scratch is the mutable working state of one in-flight signing
// operation: a SHA-256 digest and an assembly buffer. Instances are
// recycled through the signer's pool and reset before each use.
type scratch struct {
	hash hash.Hash
	buf  bytes.Buffer
}

func newScratch() *scratch {
	return &scratch{hash: sha256.New()}
}

func (s *scratch) reset() {
	s.hash.Reset()
	s.buf.Reset()
}

// sumHex resets the digest, hashes data and returns the hex form.
func (s *scratch) sumHex(data []byte) string {
	s.hash.Reset()
	s.hash.Write(data)
	return hex.EncodeToString(s.hash.Sum(nil))
}
