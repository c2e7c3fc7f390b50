package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathLocks_SerializesSamePath(t *testing.T) {
	locks := newPathLocks()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for range 20 {
		wg.Go(func() {
			unlock := locks.Lock("/mirrors/acme/widget")
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}

			inside.Add(-1)
		})
	}

	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, 0, locks.len())
}

func TestPathLocks_DifferentPathsDoNotBlock(t *testing.T) {
	locks := newPathLocks()

	unlockA := locks.Lock("/a")
	unlockB := locks.Lock("/b")

	assert.Equal(t, 2, locks.len())

	unlockA()
	unlockB()

	assert.Equal(t, 0, locks.len())
}
