package main

import (
	"bytes"
	"sync"

	"go.uber.org/zap"

	"github.com/vitalvas/fsroute/pattern"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func newTestCompiler() *pattern.Compiler { return pattern.New() }

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
