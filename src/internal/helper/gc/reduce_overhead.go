// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	ReadFrom(r io.Reader) (int64, error)
	Bytes() []byte
	String() string
	Len() int
	Reset()
}

// Pool defines the interface for buffer pooling.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put resets b and returns it to the pool. Buffers that did not come from
// a [bytebufferpool.Pool] are dropped.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		buf.Reset()
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used when assembling certificate bundles
// and capturing per-call diagnostics of the MCP tools.
//
// Example usage:
//
//	buf := gc.Default.Get()
//	defer gc.Default.Put(buf)
//
//	for _, raw := range chain {
//		buf.Write(raw)
//	}
//
//	// Copy before returning; the buffer is reused after Put.
//	out := append([]byte(nil), buf.Bytes()...)
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// Collect runs fill against a pooled buffer and returns a copy of what it wrote.
// The buffer is returned to [Default] on every path.
func Collect(fill func(buf Buffer) error) ([]byte, error) {
	buf := Default.Get()
	defer Default.Put(buf)

	if err := fill(buf); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
